package models

import (
	"time"
)

// Wallet keeps money in two buckets. Stakes are debited deposit-first, game
// winnings and referral bonuses land in the winning bucket, refunds go back to
// deposit. TotalBalance is stored, not derived, and every mutation must keep
// TotalBalance == DepositBalance + WinningBalance.
type Wallet struct {
	ID             int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId         int       `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	TotalBalance   int64     `gorm:"column:total_balance;not null;default:0" json:"total_balance"`
	DepositBalance int64     `gorm:"column:deposit_balance;not null;default:0" json:"deposit_balance"`
	WinningBalance int64     `gorm:"column:winning_balance;not null;default:0" json:"winning_balance"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}
