package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nekoweb3/alphabot/internal/metrics"
	"github.com/nekoweb3/alphabot/internal/telegram"
	"github.com/rs/zerolog/log"
	"gopkg.in/telebot.v4"
)

// SecretHeader carries the secret registered with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// maxUpdateSize bounds a webhook body.
const maxUpdateSize = 1 << 20

// Webhook receives one Telegram update, runs it through the dispatcher and delivers the
// replies before answering. Telegram retries deliveries answered with a non-2xx status.
func (s *Server) Webhook(w http.ResponseWriter, r *http.Request) {
	status := s.webhook(w, r)
	metrics.WebhookUpdates.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (s *Server) webhook(w http.ResponseWriter, r *http.Request) int {
	if r.Method != http.MethodPost {
		return respondText(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}
	if s.deps.WebhookSecret != "" &&
		subtle.ConstantTimeCompare([]byte(r.Header.Get(SecretHeader)), []byte(s.deps.WebhookSecret)) != 1 {
		return respondText(w, http.StatusUnauthorized, "Unauthorized")
	}
	if s.deps.Handler == nil || s.deps.Deliverer == nil {
		return respondText(w, http.StatusInternalServerError, "Error")
	}

	var update telebot.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateSize)).Decode(&update); err != nil {
		log.Warn().Err(err).Msg("Invalid webhook payload")
		return respondText(w, http.StatusBadRequest, "Bad Request")
	}

	// Edits, callbacks and service messages carry nothing to dispatch.
	if update.Message == nil || update.Message.Text == "" {
		return respondText(w, http.StatusOK, "OK")
	}

	ctx := r.Context()
	replies := s.deps.Handler.Handle(ctx, telegram.MessageFrom(update.Message))
	if err := s.deps.Deliverer.Deliver(ctx, replies); err != nil {
		log.Error().Err(err).Int("update_id", update.ID).Msg("Webhook delivery failed")
		return respondText(w, http.StatusInternalServerError, "Error")
	}
	return respondText(w, http.StatusOK, "OK")
}

func respondText(w http.ResponseWriter, status int, body string) int {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
	return status
}
