package session

import (
	"time"

	"mahjong-seisan/internal/settlement"
)

// EventType represents the changes a session can go through
type EventType string

const (
	EventTypeSnapshot        EventType = "snapshot"
	EventTypeCreated         EventType = "created"
	EventTypePlayersChanged  EventType = "players_changed"
	EventTypeSettingsChanged EventType = "settings_changed"
	EventTypeSettingsToggled EventType = "settings_toggled"
	EventTypeCalculated      EventType = "calculated"
	EventTypeReset           EventType = "reset"
)

// Session is one browser's calculator: the four seats, the rules, the last
// calculation and whether the settings panel is expanded
type Session struct {
	ID           string                                    `json:"id"`
	Players      [settlement.PlayerCount]settlement.Player `json:"players"`
	Settings     settlement.Settings                       `json:"settings"`
	Results      []settlement.Result                       `json:"results,omitempty"`
	ShowSettings bool                                      `json:"show_settings"`
	CreatedAt    time.Time                                 `json:"created_at"`
	UpdatedAt    time.Time                                 `json:"updated_at"`
}

// ZeroSum reports whether the last calculation balanced.
// It is false when nothing has been calculated yet.
func (s *Session) ZeroSum() bool {
	return s.Results != nil && settlement.ValidateSum(s.Results) == nil
}

// Event represents a change that happened to a session
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Session   *Session  `json:"session"`
}

// Seat input as typed into the form, before parsing
type SeatInput struct {
	Name  string
	Score string
}
