package settlement

import (
	"fmt"

	"mahjong-seisan/internal/settlement/presets"
)

// PlayerCount is fixed: settlement is always four-player
const PlayerCount = 4

const (
	DefaultStartingPoints = 25000
	DefaultReturnPoints   = 30000
)

// TieBreak decides how equal raw scores are ranked
type TieBreak string

const (
	// TieBreakSeat ranks the earlier seat higher
	TieBreakSeat TieBreak = "seat"
	// TieBreakSplit shares uma and oka evenly across the tied ranks
	TieBreakSplit TieBreak = "split"
)

// TieBreaks in display order
var TieBreaks = []TieBreak{TieBreakSeat, TieBreakSplit}

func (t TieBreak) Valid() bool {
	return t == TieBreakSeat || t == TieBreakSplit
}

// Player is one seat at the table
type Player struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Settings represents the rules a settlement is computed under
type Settings struct {
	Uma            presets.Uma `json:"uma"`
	Rate           int         `json:"rate"`
	StartingPoints int         `json:"starting_points"`
	ReturnPoints   int         `json:"return_points"`
	UmaPreset      string      `json:"uma_preset"`
	TieBreak       TieBreak    `json:"tie_break"`
}

// Result is one player's ranked settlement.
// Points is the settlement in raw points; SettlementScore is Points/1000.
type Result struct {
	Seat            int     `json:"seat"`
	Name            string  `json:"name"`
	Rank            int     `json:"rank"`
	RawScore        int     `json:"raw_score"`
	Points          int     `json:"points"`
	SettlementScore float64 `json:"settlement_score"`
	Payout          int     `json:"payout"`
}

// DefaultPlayers returns the four seats a new session starts with
func DefaultPlayers() [PlayerCount]Player {
	var players [PlayerCount]Player
	for i := range players {
		players[i] = Player{
			Name:  fmt.Sprintf("プレイヤー%d", i+1),
			Score: DefaultStartingPoints,
		}
	}
	return players
}

// DefaultSettings returns 25000点持ち 30000点返し with the default uma preset
func DefaultSettings() Settings {
	preset := presets.Default()
	return Settings{
		Uma:            preset.Uma,
		Rate:           presets.DefaultRate,
		StartingPoints: DefaultStartingPoints,
		ReturnPoints:   DefaultReturnPoints,
		UmaPreset:      preset.ID,
		TieBreak:       TieBreakSeat,
	}
}

// WithPreset returns a copy of s using the named uma preset
func (s Settings) WithPreset(id string) (Settings, error) {
	preset, err := presets.Lookup(id)
	if err != nil {
		return s, err
	}
	s.UmaPreset = preset.ID
	s.Uma = preset.Uma
	return s, nil
}

// Normalize fills an empty preset id with the default preset and an empty
// tie-break with TieBreakSeat
func (s Settings) Normalize() Settings {
	if s.UmaPreset == "" {
		preset := presets.Default()
		s.UmaPreset = preset.ID
		s.Uma = preset.Uma
	}
	if s.TieBreak == "" {
		s.TieBreak = TieBreakSeat
	}
	return s
}

// Validate validates settings
func (s Settings) Validate() error {
	if !presets.ValidRate(s.Rate) {
		return fmt.Errorf("%w: rate %d is not offered", ErrInvalidSettings, s.Rate)
	}
	if s.StartingPoints < 0 || s.StartingPoints > MaxScore {
		return fmt.Errorf("%w: starting points must be between 0 and %d", ErrInvalidSettings, MaxScore)
	}
	if s.ReturnPoints < 0 || s.ReturnPoints > MaxScore {
		return fmt.Errorf("%w: return points must be between 0 and %d", ErrInvalidSettings, MaxScore)
	}
	if !s.TieBreak.Valid() {
		return fmt.Errorf("%w: unknown tie-break %q", ErrInvalidSettings, s.TieBreak)
	}
	if s.UmaPreset != "" {
		preset, err := presets.Lookup(s.UmaPreset)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}
		if preset.Uma != s.Uma {
			return fmt.Errorf("%w: uma does not match preset %s", ErrInvalidSettings, preset.ID)
		}
	}
	return nil
}
