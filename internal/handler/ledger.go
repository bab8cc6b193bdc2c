package handler

import (
	"encoding/json"
	"net/http"

	"github.com/phillyfan-api/internal/auth"
	"github.com/phillyfan-api/internal/domain"
)

// userID pulls the authenticated user out of the request context. The auth
// middleware guarantees it is present on gated routes.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFrom(r.Context())
	if !ok || id == "" {
		h.writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized)
		return "", false
	}
	return id, true
}

// GetBalance returns the authenticated user's coin balance record.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	user, err := h.ledger.Balance(r.Context(), userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeSuccess(w, user)
}

// GetCoinHistory returns a page of the user's coin ledger.
func (h *Handler) GetCoinHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	page, err := h.ledger.CoinHistory(r.Context(), userID, queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeSuccess(w, page)
}

// GetTipHistory returns a page of tip transactions plus lifetime totals.
func (h *Handler) GetTipHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	resp, err := h.ledger.TipHistory(r.Context(), userID,
		queryInt(r, "limit"), queryInt(r, "offset"), r.URL.Query().Get("type"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeSuccess(w, resp)
}

// SendTip transfers coins from the authenticated user to another user.
func (h *Handler) SendTip(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req struct {
		ToUserID string `json:"to_user_id"`
		Amount   int64  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	if err := h.ledger.SendTip(r.Context(), userID, req.ToUserID, req.Amount); err != nil {
		h.respondError(w, err)
		return
	}
	h.writeSuccess(w, map[string]string{"status": "sent"})
}

// GetPredictions dispatches the three prediction query shapes by type.
func (h *Handler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	data, err := h.ledger.Predictions(r.Context(), r.URL.Query().Get("type"), userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeSuccess(w, data)
}

// CreatePrediction records the user's pick for an upcoming game.
func (h *Handler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req domain.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	prediction, err := h.ledger.CreatePrediction(r.Context(), userID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    prediction,
	})
}

// GetLeaderboard returns the requested leaderboard.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := h.ledger.Leaderboard(r.Context(), r.URL.Query().Get("type"), queryInt(r, "limit"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeSuccess(w, rows)
}
