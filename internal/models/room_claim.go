package models

import (
	"time"
)

const (
	ClaimTypeWin  = "win"
	ClaimTypeLoss = "loss"

	ClaimStatusPending  = "pending"
	ClaimStatusVerified = "verified"
	ClaimStatusRejected = "rejected"
)

// RoomClaim is a player's self-reported result for a room. Win claims carry a
// screenshot as evidence. The composite unique index makes a second claim by
// the same player fail at the storage layer even if the application check
// races.
type RoomClaim struct {
	ID             int        `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomId         string     `gorm:"column:room_id;size:16;not null;uniqueIndex:idx_claim_room_user" json:"room_id"`
	ClaimedBy      int        `gorm:"column:claimed_by;not null;uniqueIndex:idx_claim_room_user" json:"claimed_by"`
	ClaimType      string     `gorm:"column:claim_type;size:10;not null" json:"claim_type"`
	LudoUsername   string     `gorm:"column:ludo_username;size:100;not null" json:"ludo_username"`
	Screenshot     []byte     `gorm:"column:screenshot;type:mediumblob" json:"-"`
	ScreenshotType string     `gorm:"column:screenshot_type;size:50" json:"screenshot_type,omitempty"`
	Status         string     `gorm:"column:status;size:20;default:pending" json:"status"`
	AdminNotes     string     `gorm:"column:admin_notes;type:text" json:"admin_notes"`
	VerifiedBy     *int       `gorm:"column:verified_by" json:"verified_by,omitempty"`
	VerifiedAt     *time.Time `gorm:"column:verified_at" json:"verified_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RoomClaim) TableName() string {
	return "room_claims"
}
