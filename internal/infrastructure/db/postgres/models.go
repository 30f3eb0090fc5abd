package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	Id           uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
	Username     string         `gorm:"uniqueIndex;not null"`
	Email        string         `gorm:"uniqueIndex;not null"`
	FullName     string         `gorm:"not null"`
	Password     string         `gorm:"not null"`
	Avatar       string         `gorm:"not null"`
	CoverImage   string
	RefreshToken string
}

func (UserModel) TableName() string {
	return "users"
}

// SubscriptionModel links a subscriber to a channel (both users).
type SubscriptionModel struct {
	Id           uint      `gorm:"primary_key"`
	CreatedAt    time.Time
	SubscriberId uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_subscriber_channel"`
	ChannelId    uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_subscriber_channel"`
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

type WatchHistoryModel struct {
	Id        uint      `gorm:"primary_key"`
	UserId    uuid.UUID `gorm:"type:uuid;index;not null"`
	VideoId   uuid.UUID `gorm:"type:uuid;not null"`
	WatchedAt time.Time
}

func (WatchHistoryModel) TableName() string {
	return "watch_history"
}
