package query

import (
	"time"

	"github.com/google/uuid"
	"github.com/lovesinghal31/backendcourse/internal/application/common"
)

type UserQueryResult struct {
	Result *common.UserResult `json:"result"`
}

type ChannelProfileResult struct {
	Id              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	FullName        string    `json:"full_name"`
	Avatar          string    `json:"avatar"`
	CoverImage      string    `json:"cover_image,omitempty"`
	SubscriberCount int64     `json:"subscriber_count"`
	SubscribedTo    int64     `json:"channels_subscribed_to_count"`
	IsSubscribed    bool      `json:"is_subscribed"`
}

type WatchHistoryEntry struct {
	VideoId   uuid.UUID `json:"video_id"`
	WatchedAt time.Time `json:"watched_at"`
}

type WatchHistoryResult struct {
	Result []WatchHistoryEntry `json:"result"`
}
