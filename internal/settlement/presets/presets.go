package presets

import (
	"errors"
	"fmt"
)

var ErrUnknownPreset = errors.New("unknown uma preset")

// Uma holds the bonus (in thousands of points) awarded to each final rank
type Uma struct {
	First  int `json:"first"`
	Second int `json:"second"`
	Third  int `json:"third"`
	Fourth int `json:"fourth"`
}

// ForRank returns the uma for a 1-based rank, or 0 outside 1-4
func (u Uma) ForRank(rank int) int {
	switch rank {
	case 1:
		return u.First
	case 2:
		return u.Second
	case 3:
		return u.Third
	case 4:
		return u.Fourth
	default:
		return 0
	}
}

// Sum returns the total of all four ranks. Every preset sums to zero.
func (u Uma) Sum() int {
	return u.First + u.Second + u.Third + u.Fourth
}

// Preset is a named uma configuration selectable in the settings panel
type Preset struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Uma         Uma    `json:"uma"`
}

const DefaultPresetID = "10-30"

// Presets in display order
var Presets = []Preset{
	{
		ID:          "5-10",
		Label:       "5-10",
		Description: "1位+10, 2位+5, 3位-5, 4位-10",
		Uma:         Uma{First: 10, Second: 5, Third: -5, Fourth: -10},
	},
	{
		ID:          "10-20",
		Label:       "10-20",
		Description: "1位+20, 2位+10, 3位-10, 4位-20",
		Uma:         Uma{First: 20, Second: 10, Third: -10, Fourth: -20},
	},
	{
		ID:          "10-30",
		Label:       "10-30",
		Description: "1位+30, 2位+10, 3位-10, 4位-30",
		Uma:         Uma{First: 30, Second: 10, Third: -10, Fourth: -30},
	},
}

// Lookup finds a preset by id
func Lookup(id string) (Preset, error) {
	for _, p := range Presets {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
}

// Default returns the preset selected for new sessions
func Default() Preset {
	p, err := Lookup(DefaultPresetID)
	if err != nil {
		panic(err)
	}
	return p
}

// RateOption is one entry of the rate dropdown. Value is the "点N" factor:
// N×10 currency units per 1000 points.
type RateOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

const DefaultRate = 3

var RateOptions = []RateOption{
	{Value: 3, Label: "点3"},
	{Value: 5, Label: "点5"},
	{Value: 10, Label: "点10"},
}

// ValidRate reports whether v is one of RateOptions
func ValidRate(v int) bool {
	for _, r := range RateOptions {
		if r.Value == v {
			return true
		}
	}
	return false
}
