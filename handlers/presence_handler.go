package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"echonet/monitoring"
	"echonet/presence"
	"echonet/repositories"
	"echonet/session"
)

// PresenceHandler covers the heartbeat and the online-users listing.
type PresenceHandler struct {
	users repositories.UserRepository
}

func NewPresenceHandler(users repositories.UserRepository) *PresenceHandler {
	return &PresenceHandler{users: users}
}

// Heartbeat stamps the session user's last-active time. The middleware
// guarantees the stamped user is the authenticated identity.
func (h *PresenceHandler) Heartbeat(w http.ResponseWriter, r *http.Request, u session.User) {
	if err := h.users.Touch(u.Username, time.Now().UTC()); err != nil {
		logrus.WithError(err).Error("heartbeat update failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	monitoring.Heartbeats.Inc()
	w.WriteHeader(http.StatusOK)
}

func (h *PresenceHandler) OnlineUsers(w http.ResponseWriter, r *http.Request, u session.User) {
	others, err := h.users.ListOthers(u.Username)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	statuses := presence.ClassifyAll(others, time.Now().UTC())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statuses)
}
