package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsAreZeroSum(t *testing.T) {
	for _, p := range Presets {
		t.Run(p.ID, func(t *testing.T) {
			assert.Equal(t, 0, p.Uma.Sum())
			assert.Greater(t, p.Uma.First, p.Uma.Second)
			assert.Greater(t, p.Uma.Third, p.Uma.Fourth)
		})
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    Uma
		wantErr bool
	}{
		{"5-10", "5-10", Uma{First: 10, Second: 5, Third: -5, Fourth: -10}, false},
		{"10-20", "10-20", Uma{First: 20, Second: 10, Third: -10, Fourth: -20}, false},
		{"10-30", "10-30", Uma{First: 30, Second: 10, Third: -10, Fourth: -30}, false},
		{"Unknown", "20-40", Uma{}, true},
		{"Empty", "", Uma{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Lookup(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownPreset)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Uma)
		})
	}
}

func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, "10-30", p.ID)
	assert.Equal(t, 30, p.Uma.First)
}

func TestUmaForRank(t *testing.T) {
	u := Uma{First: 30, Second: 10, Third: -10, Fourth: -30}

	assert.Equal(t, 30, u.ForRank(1))
	assert.Equal(t, 10, u.ForRank(2))
	assert.Equal(t, -10, u.ForRank(3))
	assert.Equal(t, -30, u.ForRank(4))
	assert.Equal(t, 0, u.ForRank(0))
	assert.Equal(t, 0, u.ForRank(5))
}

func TestValidRate(t *testing.T) {
	assert.True(t, ValidRate(3))
	assert.True(t, ValidRate(5))
	assert.True(t, ValidRate(10))
	assert.False(t, ValidRate(0))
	assert.False(t, ValidRate(4))
	assert.True(t, ValidRate(DefaultRate))
}
