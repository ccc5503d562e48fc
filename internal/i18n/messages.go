package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. Keys that take arguments are format strings for Printer.Sprintf.
const (
	KeyTitle          = "title"
	KeySubtitle       = "subtitle"
	KeySettings       = "settings"
	KeyRate           = "rate"
	KeyPoints         = "points_settings"
	KeyStartingPoints = "starting_points"
	KeyReturnPoints   = "return_points"
	KeyUma            = "uma"
	KeyTieBreak       = "tie_break"
	KeyTieBreakSeat   = "tie_break_seat"
	KeyTieBreakSplit  = "tie_break_split"
	KeyApply          = "apply"
	KeyPlayers        = "players"
	KeyName           = "name"
	KeyScore          = "score"
	KeyCalculate      = "calculate"
	KeyReset          = "reset"
	KeyResults        = "results"
	KeyRawScore       = "raw_score"
	KeySettlement     = "settlement"
	KeyPayout         = "payout"
	KeyLanguage       = "language"

	KeyRankFormat      = "rank %d"
	KeyUmaDescription  = "uma %+d %+d %+d %+d"
	KeyRateLabel       = "rate %d"
	KeyPointsFormat    = "points %d"
	KeyPayoutFormat    = "payout %+d"
	KeySeatPlaceholder = "seat %d"
)

var catalog = map[language.Tag]map[string]string{
	language.Japanese: {
		KeyTitle:          "麻雀精算アプリ",
		KeySubtitle:       "点数を入力して精算を計算しましょう",
		KeySettings:       "ゲーム設定",
		KeyRate:           "レート",
		KeyPoints:         "点数設定",
		KeyStartingPoints: "持ち点",
		KeyReturnPoints:   "返し点",
		KeyUma:            "ウマ設定",
		KeyTieBreak:       "同点の扱い",
		KeyTieBreakSeat:   "席順で上位",
		KeyTieBreakSplit:  "ウマ・オカを等分",
		KeyApply:          "設定を反映",
		KeyPlayers:        "プレイヤー",
		KeyName:           "名前",
		KeyScore:          "点数",
		KeyCalculate:      "精算する",
		KeyReset:          "リセット",
		KeyResults:        "精算結果",
		KeyRawScore:       "素点",
		KeySettlement:     "精算",
		KeyPayout:         "金額",
		KeyLanguage:       "言語",

		KeyRankFormat:      "%d位",
		KeyUmaDescription:  "1位%+d, 2位%+d, 3位%+d, 4位%+d",
		KeyRateLabel:       "点%d",
		KeyPointsFormat:    "%d点",
		KeyPayoutFormat:    "%+d円",
		KeySeatPlaceholder: "プレイヤー%d",
	},
	language.English: {
		KeyTitle:          "Mahjong Settlement",
		KeySubtitle:       "Enter the final scores to settle up",
		KeySettings:       "Game settings",
		KeyRate:           "Rate",
		KeyPoints:         "Points",
		KeyStartingPoints: "Starting points",
		KeyReturnPoints:   "Return points",
		KeyUma:            "Uma",
		KeyTieBreak:       "Ties",
		KeyTieBreakSeat:   "Earlier seat ranks higher",
		KeyTieBreakSplit:  "Split uma and oka",
		KeyApply:          "Apply",
		KeyPlayers:        "Players",
		KeyName:           "Name",
		KeyScore:          "Score",
		KeyCalculate:      "Calculate",
		KeyReset:          "Reset",
		KeyResults:        "Results",
		KeyRawScore:       "Raw score",
		KeySettlement:     "Settlement",
		KeyPayout:         "Payout",
		KeyLanguage:       "Language",

		KeyRankFormat:      "#%d",
		KeyUmaDescription:  "1st %+d, 2nd %+d, 3rd %+d, 4th %+d",
		KeyRateLabel:       "Rate %d",
		KeyPointsFormat:    "%d pts",
		KeyPayoutFormat:    "%+d yen",
		KeySeatPlaceholder: "Player %d",
	},
}

// LanguageLabels names each supported language in itself
var LanguageLabels = map[language.Tag]string{
	language.Japanese: "日本語",
	language.English:  "English",
}

func init() {
	for tag, messages := range catalog {
		for key, msg := range messages {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}
