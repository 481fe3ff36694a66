package models

import (
	"time"
)

const (
	TrxTypeDeposit  = "deposit"
	TrxTypeWithdraw = "withdraw"
	TrxTypeWinning  = "winning"
	TrxTypePenalty  = "penalty"
	TrxTypeReferral = "referral"

	TrxStatusPending = "pending"
	TrxStatusSuccess = "success"
	TrxStatusFailed  = "failed"

	// which bucket the amount moved through
	WalletTypeDeposit = "deposit"
	WalletTypeWinning = "winning"

	WithdrawMethodUpi  = "upi"
	WithdrawMethodBank = "bank"
)

// Transaction is an append-only record of a single ledger movement. Amount is
// always positive; direction is implied by Type. Rows are never rewritten
// except for status flips driven by withdrawal administration or the payment
// gateway webhook.
type Transaction struct {
	ID                int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId            int       `gorm:"column:user_id;not null;index" json:"user_id"`
	TransactionNo     string    `gorm:"column:transaction_no;size:32;not null;index" json:"transaction_no"`
	Type              string    `gorm:"column:type;size:20;not null" json:"type"`
	Amount            int64     `gorm:"column:amount;not null" json:"amount"`
	Status            string    `gorm:"column:status;size:20;default:pending" json:"status"`
	Description       string    `gorm:"column:description;type:text" json:"description"`
	WalletType        string    `gorm:"column:wallet_type;size:20;default:deposit" json:"wallet_type"`
	WithdrawMethod    string    `gorm:"column:withdraw_method;size:20" json:"withdraw_method,omitempty"`
	UpiId             string    `gorm:"column:upi_id;size:100" json:"upi_id,omitempty"`
	BankAccountNumber string    `gorm:"column:bank_account_number;size:50" json:"bank_account_number,omitempty"`
	GatewayOrderId    string    `gorm:"column:gateway_order_id;size:64;index" json:"gateway_order_id,omitempty"`
	GatewayTxnId      string    `gorm:"column:gateway_txn_id;size:64" json:"gateway_txn_id,omitempty"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
