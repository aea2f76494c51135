// Package transport defines response DTOs for the notification module.
package transport

import "time"

// NotificationResponse is one in-app notification feed entry.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedResponse is the in-app notification feed, most recent first.
type FeedResponse struct {
	Items []NotificationResponse `json:"items"`
	Total int                    `json:"total"`
}
