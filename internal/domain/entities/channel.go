package entities

import (
	"time"

	"github.com/google/uuid"
)

// ChannelProfile is the aggregated public view of a user's channel.
type ChannelProfile struct {
	Id              uuid.UUID
	Username        string
	FullName        string
	Avatar          string
	CoverImage      string
	SubscriberCount int64
	SubscribedTo    int64
	IsSubscribed    bool
}

// WatchEntry is a single watched-video reference on a user's history.
type WatchEntry struct {
	VideoId   uuid.UUID
	WatchedAt time.Time
}
