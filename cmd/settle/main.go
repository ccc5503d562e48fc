package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"mahjong-seisan/internal/settlement"
	"mahjong-seisan/internal/settlement/presets"
	"mahjong-seisan/internal/settlement/ranking"
)

type CLI struct {
	Scores   []string `short:"S" help:"Final scores of the four players in seat order, e.g. --scores=60000,30000,15000,-5000" required:""`
	Names    []string `short:"n" help:"Player names in seat order (comma separated)"`
	Uma      string   `short:"u" help:"Uma preset (5-10, 10-20, 10-30)" default:"10-30"`
	Starting int      `short:"s" help:"Starting points" default:"25000"`
	Return   int      `short:"r" help:"Return points" default:"30000"`
	Rate     int      `help:"Rate, 点N is N×10 yen per 1000 points (3, 5, 10)" default:"3"`
	TieBreak string   `short:"t" help:"How tied scores rank: seat or split" default:"seat" enum:"seat,split"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("settle"),
		kong.Description("Settle a four-player mahjong hanchan."),
	)

	if err := run(cli, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
}

func run(cli CLI, out io.Writer) error {
	players, err := parsePlayers(cli.Scores, cli.Names)
	if err != nil {
		return err
	}

	settings := settlement.DefaultSettings()
	settings.StartingPoints = cli.Starting
	settings.ReturnPoints = cli.Return
	settings.Rate = cli.Rate
	settings.TieBreak = settlement.TieBreak(cli.TieBreak)
	if settings, err = settings.WithPreset(cli.Uma); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	results := settlement.Calculate(players, settings)
	printResults(out, results, settings)

	if err := settlement.ValidateSum(results); err != nil {
		fmt.Fprintf(out, "\nWarning: %v (total %+d), check the entered scores\n", err, settlement.Total(results))
	}
	return nil
}

func parsePlayers(scores, names []string) ([settlement.PlayerCount]settlement.Player, error) {
	players := settlement.DefaultPlayers()
	if len(scores) != settlement.PlayerCount {
		return players, fmt.Errorf("need %d scores, got %d", settlement.PlayerCount, len(scores))
	}
	if len(names) > settlement.PlayerCount {
		return players, errors.New("too many names")
	}

	for i, raw := range scores {
		players[i].Score = settlement.ParseScore(raw)
	}
	for i, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			players[i].Name = name
		}
	}
	return players, nil
}

func printResults(out io.Writer, results []settlement.Result, settings settlement.Settings) {
	preset, _ := presets.Lookup(settings.UmaPreset)
	fmt.Fprintf(out, "%d点持ち %d点返し  ウマ %s  点%d\n\n",
		settings.StartingPoints, settings.ReturnPoints, preset.Label, settings.Rate)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "\tRank\tName\tScore\tSettlement\tPayout\t")
	for _, r := range results {
		style := ranking.StyleFor(r.Rank)
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%+.1f\t%+d\t\n",
			style.Emoji, r.Rank, r.Name, r.RawScore, r.SettlementScore, r.Payout)
	}
	w.Flush()
}
