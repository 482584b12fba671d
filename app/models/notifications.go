package models

import (
	"net/http"
	"time"
)

const (
	NotificationSuccess = "success"
	NotificationError   = "error"
	NotificationInfo    = "info"
)

// Notification is a transient console message. It disappears from the feed
// once its display window expires.
type Notification struct {
	ID        string    `json:"id"`
	Level     string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSubscription is a request to stream notifications over a websocket.
type NewSubscription struct {
	ResponseWriter http.ResponseWriter `json:"-"`
	Request        *http.Request       `json:"-"`
}
