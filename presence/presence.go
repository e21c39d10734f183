// Package presence classifies users as online, away or offline from the
// last-active timestamp stamped by the heartbeat endpoint. Status is derived
// at read time; nothing is maintained incrementally.
package presence

import (
	"time"

	"echonet/models"
)

type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusOffline Status = "offline"
)

const (
	onlineWindow = time.Minute
	awayWindow   = 5 * time.Minute
)

// Classify maps a last-active timestamp to a status at the given instant.
// A nil timestamp means the user was never active (or logged out).
func Classify(lastActive *time.Time, now time.Time) Status {
	if lastActive == nil {
		return StatusOffline
	}
	age := now.Sub(*lastActive)
	switch {
	case age < onlineWindow:
		return StatusOnline
	case age < awayWindow:
		return StatusAway
	default:
		return StatusOffline
	}
}

// UserStatus pairs a username with its classified status, as served by the
// online-users endpoint.
type UserStatus struct {
	Username string `json:"username"`
	Status   Status `json:"status"`
}

// ClassifyAll maps the users' activity records to statuses, preserving order.
func ClassifyAll(users []models.UserActivity, now time.Time) []UserStatus {
	statuses := make([]UserStatus, len(users))
	for i, u := range users {
		statuses[i] = UserStatus{Username: u.Username, Status: Classify(u.LastActiveAt, now)}
	}
	return statuses
}
