package ratelimit

import (
	"log/slog"
	"sync"
)

// worker runs submitted funcs one at a time in submission order. Its
// goroutine only exists while there is work.
type worker struct {
	name string

	mu      sync.Mutex
	pending []func()
	running bool
}

func (w *worker) submit(fn func()) {
	w.mu.Lock()
	w.pending = append(w.pending, fn)
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run()
}

func (w *worker) run() {
	for {
		w.mu.Lock()
		if len(w.pending) == 0 {
			w.running = false
			w.mu.Unlock()
			return
		}
		fn := w.pending[0]
		w.pending[0] = nil
		w.pending = w.pending[1:]
		w.mu.Unlock()

		w.exec(fn)
	}
}

func (w *worker) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("rate limited item panicked", "bucket", w.name, "panic", r)
		}
	}()
	fn()
}
