package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/phillyfan-api/internal/domain"
)

// SearchPhotos looks up gallery photos by keyword and team.
func (h *Handler) SearchPhotos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	photos, err := h.ledger.SearchPhotos(r.Context(), q.Get("q"), q.Get("team"), queryInt(r, "limit"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeSuccess(w, photos)
}

// GetHighlights searches hosted video highlights.
func (h *Handler) GetHighlights(w http.ResponseWriter, r *http.Request) {
	highlights, err := h.sports.Highlights(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeSuccess(w, highlights)
}

// VerifyEbayWebhook answers the marketplace account-deletion handshake. The
// expected response is the hex SHA-256 of challengeCode + verificationToken +
// endpoint URL.
func (h *Handler) VerifyEbayWebhook(w http.ResponseWriter, r *http.Request) {
	challenge := r.URL.Query().Get("challenge_code")
	if challenge == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}
	if h.config.Webhooks.EbayVerificationToken == "" {
		h.writeError(w, http.StatusServiceUnavailable, domain.ErrNotConfigured)
		return
	}

	sum := sha256.New()
	sum.Write([]byte(challenge))
	sum.Write([]byte(h.config.Webhooks.EbayVerificationToken))
	sum.Write([]byte(h.config.Webhooks.EbayEndpoint))

	h.writeJSON(w, http.StatusOK, map[string]string{
		"challengeResponse": hex.EncodeToString(sum.Sum(nil)),
	})
}

// AcknowledgeEbayWebhook accepts account-deletion notifications. The sender
// only requires a 200; the payload carries nothing we retain.
func (h *Handler) AcknowledgeEbayWebhook(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "acknowledged"})
}

// GetPusherConfig returns the public realtime-channel credentials. The app
// secret never leaves the server.
func (h *Handler) GetPusherConfig(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{
		"key":     h.config.Pusher.Key,
		"cluster": h.config.Pusher.Cluster,
	})
}
