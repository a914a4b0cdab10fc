package models

import "time"

// PlatformConnection stores the publishing credentials a user granted us for a
// third-party platform. At most one row exists per (user, platform) pair; the
// callback flow overwrites the row in place on every re-authorization.
type PlatformConnection struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index:user_platform,unique" json:"user_id"`
	Platform     string     `gorm:"index:user_platform,unique;type:varchar(50)" json:"platform"`
	AccessToken  string     `gorm:"type:text" json:"-"`
	RefreshToken string     `gorm:"type:text" json:"-"`
	TokenExpiry  *time.Time `gorm:"type:timestamp;default:null" json:"-"`
	ChannelID    string     `gorm:"type:varchar(191);default:null" json:"channel_id"`
	ChannelName  string     `gorm:"type:varchar(191);default:null" json:"channel_name"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// ConnectionInfo is the display-safe projection returned by status queries.
// Tokens never leave the server.
type ConnectionInfo struct {
	ChannelID   string    `json:"channelId"`
	ChannelName string    `json:"channelName"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// Info projects the connection to its display fields. ConnectedAt is the time
// of the first successful authorization, not the last overwrite.
func (pc *PlatformConnection) Info() ConnectionInfo {
	return ConnectionInfo{
		ChannelID:   pc.ChannelID,
		ChannelName: pc.ChannelName,
		ConnectedAt: pc.CreatedAt,
	}
}

// TokenExpired reports whether the stored access token must be considered
// invalid at the given time. A connection without a reported expiry never
// counts as expired here; callers have to try the token to find out.
func (pc *PlatformConnection) TokenExpired(now time.Time) bool {
	return pc.TokenExpiry != nil && now.After(*pc.TokenExpiry)
}
