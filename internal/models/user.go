package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName     string    `gorm:"column:full_name;size:255;not null" json:"full_name"`
	Username     string    `gorm:"column:username;size:255;uniqueIndex" json:"username"`
	MobileNumber string    `gorm:"column:mobile_number;size:20;not null;uniqueIndex" json:"mobile_number"`
	ReferCode    string    `gorm:"column:refer_code;size:16;not null;uniqueIndex" json:"refer_code"`
	ReferredBy   string    `gorm:"column:referred_by;size:16" json:"referred_by"`
	KycStatus    string    `gorm:"column:kyc_status;size:20;default:pending" json:"kyc_status"`
	GamesPlayed  int       `gorm:"column:games_played;default:0" json:"games_played"`
	IsActive     bool      `gorm:"column:is_active;default:true" json:"is_active"`
	Role         string    `gorm:"column:role;size:20;default:user" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
