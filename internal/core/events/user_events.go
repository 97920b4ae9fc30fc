package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserRegistered = "user.registered"
	EventTypeUserLoggedIn   = "user.logged_in"
	EventTypeUserShown      = "user.shown"
	EventTypeUserLoggedOut  = "user.logged_out"
)

// UserEventTypes lists every user lifecycle event type.
var UserEventTypes = []string{
	EventTypeUserRegistered,
	EventTypeUserLoggedIn,
	EventTypeUserShown,
	EventTypeUserLoggedOut,
}

// UserEvent is published for every user lifecycle transition.
type UserEvent struct {
	BaseEvent
	UserID int64    `json:"user_id"`
	Email  string   `json:"email,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}

func NewUserEvent(eventType string, userID int64, email string, roles []string) *UserEvent {
	data := map[string]interface{}{
		"user_id": userID,
	}
	if email != "" {
		data["email"] = email
	}
	if len(roles) > 0 {
		data["roles"] = roles
	}

	return &UserEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data:      data,
		},
		UserID: userID,
		Email:  email,
		Roles:  roles,
	}
}
