package discord

import "github.com/disgoorg/snowflake/v2"

// InteractionType is the outer discriminant of an interaction.
type InteractionType int

const (
	InteractionTypePing               InteractionType = 1
	InteractionTypeApplicationCommand InteractionType = 2
	InteractionTypeMessageComponent   InteractionType = 3
	InteractionTypeAutocomplete       InteractionType = 4
	InteractionTypeModalSubmit        InteractionType = 5
)

// ApplicationCommandType is the discriminant of an application command
// interaction's data.
type ApplicationCommandType int

const (
	ApplicationCommandTypeSlash   ApplicationCommandType = 1
	ApplicationCommandTypeUser    ApplicationCommandType = 2
	ApplicationCommandTypeMessage ApplicationCommandType = 3
)

// ComponentType is the discriminant of a message component interaction's data.
type ComponentType int

const (
	ComponentTypeActionRow  ComponentType = 1
	ComponentTypeButton     ComponentType = 2
	ComponentTypeSelectMenu ComponentType = 3
)

// Interaction holds the fields shared by every interaction event.
type Interaction struct {
	ID            snowflake.ID    `json:"id"`
	ApplicationID snowflake.ID    `json:"application_id"`
	Type          InteractionType `json:"type"`
	GuildID       snowflake.ID    `json:"guild_id"`
	ChannelID     snowflake.ID    `json:"channel_id"`
	Token         string          `json:"token"`
	Version       int             `json:"version"`
	Locale        string          `json:"locale"`
	GuildLocale   string          `json:"guild_locale"`

	// User is the invoking user, taken from the member in guilds.
	User   *User   `json:"-"`
	Member *Member `json:"-"`
}

func newInteraction(env Envelope) (Interaction, error) {
	if _, err := env.Snowflake("id"); err != nil {
		return Interaction{}, err
	}
	i, err := decodeInto[Interaction](env, "interaction")
	if err != nil {
		return Interaction{}, err
	}

	switch {
	case env.Has("member"):
		memberEnv, err := env.Object("member")
		if err != nil {
			return Interaction{}, err
		}
		member, err := NewMember(memberEnv, i.GuildID)
		if err != nil {
			return Interaction{}, err
		}
		i.Member = member
		i.User = member.User
	case env.Has("user"):
		userEnv, err := env.Object("user")
		if err != nil {
			return Interaction{}, err
		}
		if i.User, err = NewUser(userEnv); err != nil {
			return Interaction{}, err
		}
	}
	return *i, nil
}

// CommandOption is one (possibly nested) option of a slash command.
type CommandOption struct {
	Name    string          `json:"name"`
	Type    int             `json:"type"`
	Value   any             `json:"value"`
	Focused bool            `json:"focused"`
	Options []CommandOption `json:"options"`
}

// SlashCommandEvent is a chat input command invocation.
type SlashCommandEvent struct {
	Interaction
	CommandID   snowflake.ID    `json:"id"`
	CommandName string          `json:"name"`
	Options     []CommandOption `json:"options"`
}

// Option returns the top level option called name.
func (e *SlashCommandEvent) Option(name string) (CommandOption, bool) {
	for _, o := range e.Options {
		if o.Name == name {
			return o, true
		}
	}
	return CommandOption{}, false
}

// NewSlashCommandEvent builds a SlashCommandEvent from an interaction envelope.
func NewSlashCommandEvent(env Envelope) (*SlashCommandEvent, error) {
	base, data, err := interactionWithData(env)
	if err != nil {
		return nil, err
	}
	e := &SlashCommandEvent{Interaction: base}
	if err := data.Decode(e); err != nil {
		return nil, err
	}
	return e, nil
}

// UserCommandEvent is a user context menu command invocation.
type UserCommandEvent struct {
	Interaction
	CommandID   snowflake.ID `json:"id"`
	CommandName string       `json:"name"`
	TargetID    snowflake.ID `json:"target_id"`
}

// NewUserCommandEvent builds a UserCommandEvent from an interaction envelope.
func NewUserCommandEvent(env Envelope) (*UserCommandEvent, error) {
	base, data, err := interactionWithData(env)
	if err != nil {
		return nil, err
	}
	if _, err := data.Snowflake("target_id"); err != nil {
		return nil, err
	}
	e := &UserCommandEvent{Interaction: base}
	if err := data.Decode(e); err != nil {
		return nil, err
	}
	return e, nil
}

// MessageCommandEvent is a message context menu command invocation.
type MessageCommandEvent struct {
	Interaction
	CommandID   snowflake.ID `json:"id"`
	CommandName string       `json:"name"`
	TargetID    snowflake.ID `json:"target_id"`
}

// NewMessageCommandEvent builds a MessageCommandEvent from an interaction envelope.
func NewMessageCommandEvent(env Envelope) (*MessageCommandEvent, error) {
	base, data, err := interactionWithData(env)
	if err != nil {
		return nil, err
	}
	if _, err := data.Snowflake("target_id"); err != nil {
		return nil, err
	}
	e := &MessageCommandEvent{Interaction: base}
	if err := data.Decode(e); err != nil {
		return nil, err
	}
	return e, nil
}

// ButtonEvent is a button click.
type ButtonEvent struct {
	Interaction
	CustomID  string       `json:"custom_id"`
	MessageID snowflake.ID `json:"-"`
}

// NewButtonEvent builds a ButtonEvent from an interaction envelope.
func NewButtonEvent(env Envelope) (*ButtonEvent, error) {
	base, data, err := interactionWithData(env)
	if err != nil {
		return nil, err
	}
	customID, err := data.String("custom_id")
	if err != nil {
		return nil, err
	}
	messageID, err := componentMessageID(env)
	if err != nil {
		return nil, err
	}
	return &ButtonEvent{Interaction: base, CustomID: customID, MessageID: messageID}, nil
}

// SelectMenuEvent is a select menu submission.
type SelectMenuEvent struct {
	Interaction
	CustomID  string       `json:"custom_id"`
	Values    []string     `json:"values"`
	MessageID snowflake.ID `json:"-"`
}

// NewSelectMenuEvent builds a SelectMenuEvent from an interaction envelope.
func NewSelectMenuEvent(env Envelope) (*SelectMenuEvent, error) {
	base, data, err := interactionWithData(env)
	if err != nil {
		return nil, err
	}
	if _, err := data.String("custom_id"); err != nil {
		return nil, err
	}
	e := &SelectMenuEvent{Interaction: base}
	if err := data.Decode(e); err != nil {
		return nil, err
	}
	if e.MessageID, err = componentMessageID(env); err != nil {
		return nil, err
	}
	return e, nil
}

func interactionWithData(env Envelope) (Interaction, Envelope, error) {
	data, err := env.Object("data")
	if err != nil {
		return Interaction{}, nil, err
	}
	base, err := newInteraction(env)
	if err != nil {
		return Interaction{}, nil, err
	}
	return base, data, nil
}

func componentMessageID(env Envelope) (snowflake.ID, error) {
	if !env.Has("message") {
		return 0, nil
	}
	msg, err := env.Object("message")
	if err != nil {
		return 0, err
	}
	return msg.Snowflake("id")
}
