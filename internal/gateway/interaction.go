package gateway

import (
	"log/slog"

	"github.com/sglre6355/sgrcord/internal/discord"
)

// interactionKind is the result of the first decode level of an
// INTERACTION_CREATE: which typed event the envelope holds.
type interactionKind int

const (
	interactionIgnored interactionKind = iota
	interactionSlashCommand
	interactionUserCommand
	interactionMessageCommand
	interactionButton
	interactionSelectMenu
)

func (k interactionKind) String() string {
	switch k {
	case interactionSlashCommand:
		return "slash_command"
	case interactionUserCommand:
		return "user_command"
	case interactionMessageCommand:
		return "message_command"
	case interactionButton:
		return "button"
	case interactionSelectMenu:
		return "select_menu"
	default:
		return "ignored"
	}
}

// interactionKindOf reads the outer type and, for commands and components,
// the discriminant nested in data.
func interactionKindOf(env discord.Envelope) (interactionKind, error) {
	t, err := env.Int("type")
	if err != nil {
		return interactionIgnored, err
	}

	switch discord.InteractionType(t) {
	case discord.InteractionTypeApplicationCommand:
		data, err := env.Object("data")
		if err != nil {
			return interactionIgnored, err
		}
		ct, err := data.Int("type")
		if err != nil {
			return interactionIgnored, err
		}
		switch discord.ApplicationCommandType(ct) {
		case discord.ApplicationCommandTypeSlash:
			return interactionSlashCommand, nil
		case discord.ApplicationCommandTypeUser:
			return interactionUserCommand, nil
		case discord.ApplicationCommandTypeMessage:
			return interactionMessageCommand, nil
		}
	case discord.InteractionTypeMessageComponent:
		data, err := env.Object("data")
		if err != nil {
			return interactionIgnored, err
		}
		ct, err := data.Int("component_type")
		if err != nil {
			return interactionIgnored, err
		}
		switch discord.ComponentType(ct) {
		case discord.ComponentTypeButton:
			return interactionButton, nil
		case discord.ComponentTypeSelectMenu:
			return interactionSelectMenu, nil
		}
	}
	return interactionIgnored, nil
}

func (s *Shard) handleInteractionCreate(env discord.Envelope) error {
	kind, err := interactionKindOf(env)
	if err != nil {
		return err
	}
	if kind == interactionIgnored {
		slog.Debug("ignored interaction", "shard", s.id)
		return nil
	}
	slog.Debug("handling interaction", "shard", s.id, "kind", kind)
	return s.handleInteraction(kind, env)
}

// handleInteraction builds the typed event for kind from the same envelope
// and notifies its listeners.
func (s *Shard) handleInteraction(kind interactionKind, env discord.Envelope) error {
	switch kind {
	case interactionSlashCommand:
		e, err := discord.NewSlashCommandEvent(env)
		if err != nil {
			return err
		}
		notify(s.engine.listeners, func(l SlashCommandListener) { l.OnSlashCommand(e) })
	case interactionUserCommand:
		e, err := discord.NewUserCommandEvent(env)
		if err != nil {
			return err
		}
		notify(s.engine.listeners, func(l UserCommandListener) { l.OnUserCommand(e) })
	case interactionMessageCommand:
		e, err := discord.NewMessageCommandEvent(env)
		if err != nil {
			return err
		}
		notify(s.engine.listeners, func(l MessageCommandListener) { l.OnMessageCommand(e) })
	case interactionButton:
		e, err := discord.NewButtonEvent(env)
		if err != nil {
			return err
		}
		notify(s.engine.listeners, func(l ButtonClickListener) { l.OnButtonClick(e) })
	case interactionSelectMenu:
		e, err := discord.NewSelectMenuEvent(env)
		if err != nil {
			return err
		}
		notify(s.engine.listeners, func(l SelectMenuListener) { l.OnSelectMenu(e) })
	}
	return nil
}
