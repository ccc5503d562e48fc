package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mahjong-seisan/internal/session"
	"mahjong-seisan/internal/settlement"
	"mahjong-seisan/internal/settlement/presets"
)

type SettleRequest struct {
	Players  []settlement.Player  `json:"players"`
	Settings *settlement.Settings `json:"settings,omitempty"`
}

type SettleResponse struct {
	Results []settlement.Result `json:"results"`
	Total   int                 `json:"total"`
	ZeroSum bool                `json:"zero_sum"`
}

type DefaultsResponse struct {
	Players  [settlement.PlayerCount]settlement.Player `json:"players"`
	Settings settlement.Settings                       `json:"settings"`
}

type SessionResponse struct {
	*session.Session
	ZeroSum bool `json:"zero_sum"`
}

func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, presets.Presets)
}

func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, presets.RateOptions)
}

func (h *Handler) GetDefaults(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, DefaultsResponse{
		Players:  settlement.DefaultPlayers(),
		Settings: settlement.DefaultSettings(),
	})
}

// Settle computes a settlement without touching any session.
// A known uma_preset overrides the uma values sent alongside it.
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.Players) != settlement.PlayerCount {
		http.Error(w, fmt.Sprintf("exactly %d players are required", settlement.PlayerCount), http.StatusBadRequest)
		return
	}

	for i, p := range req.Players {
		if p.Score > settlement.MaxScore || p.Score < -settlement.MaxScore {
			http.Error(w, fmt.Sprintf("score of player %d is out of range", i+1), http.StatusBadRequest)
			return
		}
	}

	settings := settlement.DefaultSettings()
	if req.Settings != nil {
		settings = *req.Settings
		if settings.UmaPreset != "" {
			withPreset, err := settings.WithPreset(settings.UmaPreset)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			settings = withPreset
		}
		if settings.TieBreak == "" {
			settings.TieBreak = settlement.TieBreakSeat
		}
	}
	if err := settings.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var players [settlement.PlayerCount]settlement.Player
	copy(players[:], req.Players)

	results := settlement.Calculate(players, settings)
	settlement.LogDebug(r.Context(), h.logger, results, settings)

	zeroSum := true
	if err := settlement.ValidateSum(results); err != nil {
		zeroSum = false
		h.logger.WarnContext(r.Context(), "settlement total is not zero, check the entered scores",
			slog.Any("error", err))
	}

	writeJSON(w, http.StatusOK, SettleResponse{
		Results: results,
		Total:   settlement.Total(results),
		ZeroSum: zeroSum,
	})
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s := session.FromContext(r.Context())
	if s == nil {
		h.sessionError(w, r, errors.New("no session in context"))
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Session: s, ZeroSum: s.ZeroSum()})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
