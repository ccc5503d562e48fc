package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"mahjong-seisan/internal/settlement/ranking"
)

var (
	ErrNotZeroSum      = errors.New("settlement does not sum to zero")
	ErrInvalidSettings = errors.New("invalid settings")
)

// Calculate ranks the four players and returns their settlements ordered by rank.
//
// Each player's points are their raw score minus the return points, plus
// the uma for their rank (in thousands). First place also takes the oka,
// (return - starting) × 4. How equal scores are ranked follows
// settings.TieBreak.
func Calculate(players [PlayerCount]Player, settings Settings) []Result {
	scores := make([]int, PlayerCount)
	for i, p := range players {
		scores[i] = p.Score
	}
	order := ranking.Order(scores)

	bonuses := rankBonuses(settings)
	shares := make([]int, len(order))
	switch settings.TieBreak {
	case TieBreakSplit:
		shares = splitBonuses(order, bonuses)
	default:
		for i := range order {
			shares[i] = bonuses[i]
		}
	}

	results := make([]Result, len(order))
	for i, p := range order {
		rank := p.Position
		if settings.TieBreak == TieBreakSplit {
			rank = p.GroupStart
		}
		points := p.Score - settings.ReturnPoints + shares[i]
		results[i] = Result{
			Seat:            p.Seat,
			Name:            players[p.Seat].Name,
			Rank:            rank,
			RawScore:        p.Score,
			Points:          points,
			SettlementScore: float64(points) / 1000,
			Payout:          points * settings.Rate / 100,
		}
	}

	return results
}

// rankBonuses returns the uma plus oka, in points, for each position
func rankBonuses(settings Settings) [PlayerCount]int {
	var bonuses [PlayerCount]int
	for i := range bonuses {
		bonuses[i] = settings.Uma.ForRank(i+1) * 1000
	}
	bonuses[0] += Oka(settings)
	return bonuses
}

// splitBonuses averages the bonuses of each tie group over its members.
// Leftover points go one each to the earliest seats in the group.
func splitBonuses(order []ranking.Placement, bonuses [PlayerCount]int) []int {
	shares := make([]int, len(order))
	for i := 0; i < len(order); {
		size := order[i].GroupSize
		total := 0
		for k := i; k < i+size; k++ {
			total += bonuses[k]
		}
		each := floorDiv(total, size)
		rest := total - each*size
		for k := i; k < i+size; k++ {
			shares[k] = each
			if k-i < rest {
				shares[k]++
			}
		}
		i += size
	}
	return shares
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Oka is the top prize: the points every player paid above the starting stack
func Oka(settings Settings) int {
	return (settings.ReturnPoints - settings.StartingPoints) * PlayerCount
}

// Total sums the settlement points of all results
func Total(results []Result) int {
	total := 0
	for _, r := range results {
		total += r.Points
	}
	return total
}

// ValidateSum checks the zero-sum invariant. It only holds when the raw
// scores add up to four starting stacks, so callers treat a failure as a
// warning.
func ValidateSum(results []Result) error {
	if total := Total(results); total != 0 {
		return fmt.Errorf("%w: total %d points", ErrNotZeroSum, total)
	}
	return nil
}

// MaxScore bounds typed point values so payouts cannot overflow
const MaxScore = 10_000_000

// ParseScore parses a point total typed by a user. Anything that does not
// parse as an integer is 0. Leading digits are honoured ("25000点" is 25000).
// Values are clamped to ±MaxScore.
func ParseScore(raw string) int {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) {
		c := raw[end]
		if (c >= '0' && c <= '9') || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		if !errors.Is(err, strconv.ErrRange) {
			return 0
		}
		n = MaxScore
		if raw[0] == '-' {
			n = -MaxScore
		}
	}
	return min(max(n, -MaxScore), MaxScore)
}

// LogDebug writes a calculation breakdown at debug level
func LogDebug(ctx context.Context, logger *slog.Logger, results []Result, settings Settings) {
	if !logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	logger.DebugContext(ctx, "settlement settings",
		slog.Int("starting_points", settings.StartingPoints),
		slog.Int("return_points", settings.ReturnPoints),
		slog.Int("oka", Oka(settings)),
		slog.String("uma_preset", settings.UmaPreset),
		slog.String("tie_break", string(settings.TieBreak)),
		slog.Int("rate", settings.Rate),
	)
	for _, r := range results {
		logger.DebugContext(ctx, "settlement result",
			slog.Int("rank", r.Rank),
			slog.Int("seat", r.Seat),
			slog.String("name", r.Name),
			slog.Int("raw_score", r.RawScore),
			slog.Int("points", r.Points),
			slog.Float64("settlement_score", r.SettlementScore),
		)
	}
	logger.DebugContext(ctx, "settlement total", slog.Int("points", Total(results)))
}
