package web

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mahjong-seisan/internal/i18n"
	"mahjong-seisan/internal/session"
	"mahjong-seisan/internal/settlement"
	"mahjong-seisan/internal/settlement/presets"
	"mahjong-seisan/internal/settlement/ranking"
)

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type playerView struct {
	Seat        int
	Name        string
	Score       int
	Placeholder string
}

type resultView struct {
	Rank       string
	Name       string
	RawScore   string
	Settlement string
	Payout     string
	Color      string
	Emoji      string
	Negative   bool
}

type pageView struct {
	Lang              string
	T                 map[string]string
	Players           []playerView
	ShowSettings      bool
	StartingPoints    int
	ReturnPoints      int
	Rates             []optionView
	Presets           []optionView
	PresetDescription string
	TieBreaks         []optionView
	Languages         []optionView
	Results           []resultView
}

var textKeys = []string{
	i18n.KeyTitle, i18n.KeySubtitle, i18n.KeySettings, i18n.KeyRate, i18n.KeyPoints,
	i18n.KeyStartingPoints, i18n.KeyReturnPoints, i18n.KeyUma, i18n.KeyTieBreak,
	i18n.KeyApply, i18n.KeyPlayers, i18n.KeyName, i18n.KeyScore, i18n.KeyCalculate,
	i18n.KeyReset, i18n.KeyResults, i18n.KeyRawScore, i18n.KeySettlement,
	i18n.KeyPayout, i18n.KeyLanguage,
}

var tieBreakKeys = map[settlement.TieBreak]string{
	settlement.TieBreakSeat:  i18n.KeyTieBreakSeat,
	settlement.TieBreakSplit: i18n.KeyTieBreakSplit,
}

func newPageView(s *session.Session, tag language.Tag) pageView {
	p := i18n.Printer(tag)

	view := pageView{
		Lang:           tag.String(),
		T:              make(map[string]string, len(textKeys)),
		ShowSettings:   s.ShowSettings,
		StartingPoints: s.Settings.StartingPoints,
		ReturnPoints:   s.Settings.ReturnPoints,
	}
	for _, key := range textKeys {
		view.T[key] = p.Sprintf(key)
	}

	for i, player := range s.Players {
		view.Players = append(view.Players, playerView{
			Seat:        i,
			Name:        player.Name,
			Score:       player.Score,
			Placeholder: p.Sprintf(i18n.KeySeatPlaceholder, i+1),
		})
	}

	for _, rate := range presets.RateOptions {
		view.Rates = append(view.Rates, optionView{
			Value:    strconv.Itoa(rate.Value),
			Label:    p.Sprintf(i18n.KeyRateLabel, rate.Value),
			Selected: rate.Value == s.Settings.Rate,
		})
	}

	for _, preset := range presets.Presets {
		selected := preset.ID == s.Settings.UmaPreset
		view.Presets = append(view.Presets, optionView{
			Value:    preset.ID,
			Label:    preset.Label,
			Selected: selected,
		})
		if selected {
			view.PresetDescription = umaDescription(p, preset.Uma)
		}
	}

	for _, tb := range settlement.TieBreaks {
		view.TieBreaks = append(view.TieBreaks, optionView{
			Value:    string(tb),
			Label:    p.Sprintf(tieBreakKeys[tb]),
			Selected: tb == s.Settings.TieBreak,
		})
	}

	for _, lang := range i18n.Supported() {
		view.Languages = append(view.Languages, optionView{
			Value:    lang.String(),
			Label:    i18n.LanguageLabels[lang],
			Selected: lang == tag,
		})
	}

	for _, r := range s.Results {
		style := ranking.StyleFor(r.Rank)
		view.Results = append(view.Results, resultView{
			Rank:       p.Sprintf(i18n.KeyRankFormat, r.Rank),
			Name:       r.Name,
			RawScore:   p.Sprintf(i18n.KeyPointsFormat, r.RawScore),
			Settlement: p.Sprintf("%+.1f", r.SettlementScore),
			Payout:     p.Sprintf(i18n.KeyPayoutFormat, r.Payout),
			Color:      style.Color,
			Emoji:      style.Emoji,
			Negative:   r.Points < 0,
		})
	}

	return view
}

func umaDescription(p *message.Printer, uma presets.Uma) string {
	return p.Sprintf(i18n.KeyUmaDescription, uma.First, uma.Second, uma.Third, uma.Fourth)
}
