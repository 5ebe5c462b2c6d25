package discord

import "github.com/disgoorg/snowflake/v2"

// Status is a user's online status.
type Status string

const (
	StatusOnline       Status = "online"
	StatusIdle         Status = "idle"
	StatusDoNotDisturb Status = "dnd"
	StatusInvisible    Status = "invisible"
	StatusOffline      Status = "offline"
)

// Activity is one entry of a presence's activity list.
type Activity struct {
	Name  string `json:"name"`
	Type  int    `json:"type"`
	URL   string `json:"url"`
	State string `json:"state"`
}

// ClientStatus holds the per-platform status of a user.
type ClientStatus struct {
	Desktop Status `json:"desktop"`
	Mobile  Status `json:"mobile"`
	Web     Status `json:"web"`
}

// Presence is a snapshot of a user's status within a guild.
type Presence struct {
	UserID       snowflake.ID `json:"-"`
	GuildID      snowflake.ID `json:"guild_id"`
	Status       Status       `json:"status"`
	Activities   []Activity   `json:"activities"`
	ClientStatus ClientStatus `json:"client_status"`
}

// NewPresence builds a Presence from its envelope. The user is only
// partially present on the wire, so just its id is kept.
func NewPresence(env Envelope) (*Presence, error) {
	user, err := env.Object("user")
	if err != nil {
		return nil, err
	}
	userID, err := user.Snowflake("id")
	if err != nil {
		return nil, err
	}
	p, err := decodeInto[Presence](env, "presence")
	if err != nil {
		return nil, err
	}
	p.UserID = userID
	return p, nil
}
