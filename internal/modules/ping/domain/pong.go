package domain

import "strings"

// PongResult represents the result of evaluating a pong trigger.
type PongResult struct {
	ShouldRespond bool
	Response      string
}

// NewPongResult evaluates the content and creates a PongResult. A message
// triggers a reply when it is the word "ping" or contains 🏓.
func NewPongResult(content string) *PongResult {
	shouldRespond := strings.EqualFold(strings.TrimSpace(content), "ping") ||
		strings.Contains(content, "🏓")

	response := ""
	if shouldRespond {
		response = "Pong 🏓"
	}

	return &PongResult{
		ShouldRespond: shouldRespond,
		Response:      response,
	}
}
