package models

import "time"

const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

const (
	StatusEnabled  = "enabled"
	StatusDisabled = "disabled"
)

// Subscription links a user and device token to a push-gateway endpoint.
// DeviceToken is the external identity of a device and is unique across all
// users; a token re-registered under another account moves the row, it does
// not duplicate it.
type Subscription struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index" json:"user_id"`
	DeviceToken     string    `gorm:"size:512;uniqueIndex" json:"device_token"`
	Platform        string    `gorm:"size:16" json:"platform"` // "ios" | "android"
	EndpointARN     string    `gorm:"size:256" json:"endpoint_arn"`
	Status          string    `gorm:"size:16;default:enabled" json:"status"`
	StatusChangedAt time.Time `json:"status_changed_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s *Subscription) Enabled() bool {
	return s.Status == StatusEnabled
}

func ValidPlatform(p string) bool {
	return p == PlatformIOS || p == PlatformAndroid
}
