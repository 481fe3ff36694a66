package services

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"ludo-service/internal/models"
	"ludo-service/pkg/common"
)

// withdrawalCooldown is the minimum gap between two withdrawal requests from
// the same user.
const withdrawalCooldown = 3 * time.Hour

type WithdrawalService struct {
	DB     *gorm.DB
	Wallet *WalletService

	// EnqueuePayout hands a pending withdrawal to the background worker.
	// Wired from main; nil in tests, where payouts are processed inline.
	EnqueuePayout func(transactionId int) error
}

func NewWithdrawalService(db *gorm.DB, wallet *WalletService) *WithdrawalService {
	return &WithdrawalService{DB: db, Wallet: wallet}
}

type WithdrawalRequest struct {
	Amount            int64  `json:"amount" binding:"required"`
	Method            string `json:"method" binding:"required"`
	UpiId             string `json:"upiId"`
	BankAccountNumber string `json:"bankAccountNumber"`
}

// RequestWithdrawal debits the winning balance and records a pending
// withdrawal transaction. Requests inside the cooldown window are rejected
// with 429 and the remaining wait time.
func (s *WithdrawalService) RequestWithdrawal(userId int, req WithdrawalRequest) (*models.Transaction, error) {
	if req.Amount <= 0 {
		return nil, common.NewAPIError(http.StatusBadRequest, "Amount must be greater than zero")
	}
	switch req.Method {
	case models.WithdrawMethodUpi:
		if req.UpiId == "" {
			return nil, common.NewAPIError(http.StatusBadRequest, "upiId is required for UPI withdrawals")
		}
	case models.WithdrawMethodBank:
		if req.BankAccountNumber == "" {
			return nil, common.NewAPIError(http.StatusBadRequest, "bankAccountNumber is required for bank withdrawals")
		}
	default:
		return nil, common.NewAPIError(http.StatusBadRequest, "method must be upi or bank")
	}

	var last models.Transaction
	err := s.DB.Where("user_id = ? AND type = ?", userId, models.TrxTypeWithdraw).
		Order("created_at DESC").First(&last).Error
	if err == nil {
		elapsed := time.Since(last.CreatedAt)
		if elapsed < withdrawalCooldown {
			remaining := withdrawalCooldown - elapsed
			apiErr := common.NewAPIError(http.StatusTooManyRequests,
				"You can only make one withdrawal request every 3 hours")
			apiErr.Data = map[string]interface{}{
				"remainingTimeMs":    remaining.Milliseconds(),
				"nextWithdrawalTime": last.CreatedAt.Add(withdrawalCooldown),
			}
			return nil, apiErr
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var trx *models.Transaction
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Wallet.DebitBalance(tx, userId, req.Amount, models.WalletTypeWinning); err != nil {
			return err
		}
		trx = &models.Transaction{
			UserId:            userId,
			TransactionNo:     common.GenerateTrxNo(),
			Type:              models.TrxTypeWithdraw,
			Amount:            req.Amount,
			Status:            models.TrxStatusPending,
			Description:       fmt.Sprintf("Withdrawal request via %s", req.Method),
			WalletType:        models.WalletTypeWinning,
			WithdrawMethod:    req.Method,
			UpiId:             req.UpiId,
			BankAccountNumber: req.BankAccountNumber,
		}
		return tx.Create(trx).Error
	})
	if err != nil {
		return nil, err
	}

	if s.EnqueuePayout != nil {
		if err := s.EnqueuePayout(trx.ID); err != nil {
			// the admin list still shows the pending request
			log.Printf("failed to enqueue payout for transaction %d: %v", trx.ID, err)
		}
	}
	return trx, nil
}

// ListWithdrawals is the admin view over withdrawal transactions, optionally
// filtered by status.
func (s *WithdrawalService) ListWithdrawals(status string, page, limit int) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(page, limit, 10)

	query := s.DB.Model(&models.Transaction{}).Where("type = ?", models.TrxTypeWithdraw)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var trxs []models.Transaction
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&trxs).Error; err != nil {
		return common.PaginationResult{}, err
	}
	return common.PaginateResponse(trxs, total, page, limit, "Withdrawals fetched"), nil
}

// UpdateWithdrawalStatus flips a withdrawal between pending, success, failed
// and cancelled. Moving out of pending into a cancelled/failed state returns
// the held amount; re-opening a cancelled request debits it again.
func (s *WithdrawalService) UpdateWithdrawalStatus(trxId int, newStatus string) (*models.Transaction, error) {
	valid := map[string]bool{
		models.TrxStatusPending: true,
		models.TrxStatusSuccess: true,
		models.TrxStatusFailed:  true,
		"cancelled":             true,
	}
	if !valid[newStatus] {
		return nil, common.NewAPIError(http.StatusBadRequest, "Invalid withdrawal status")
	}

	var trx models.Transaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND type = ?", trxId, models.TrxTypeWithdraw).First(&trx).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrxNotFound
		}
		if err != nil {
			return err
		}
		if trx.Status == newStatus {
			return nil
		}

		held := trx.Status == models.TrxStatusPending || trx.Status == models.TrxStatusSuccess
		holds := newStatus == models.TrxStatusPending || newStatus == models.TrxStatusSuccess
		if held && !holds {
			if err := s.Wallet.CreditBalance(tx, trx.UserId, trx.Amount, models.WalletTypeWinning); err != nil {
				return err
			}
		} else if !held && holds {
			if err := s.Wallet.DebitBalance(tx, trx.UserId, trx.Amount, models.WalletTypeWinning); err != nil {
				return err
			}
		}

		trx.Status = newStatus
		return tx.Model(&models.Transaction{}).Where("id = ?", trx.ID).
			UpdateColumn("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

// ProcessPayout is the worker-side completion: the payout has been sent by
// the gateway, mark the transaction settled.
func (s *WithdrawalService) ProcessPayout(trxId int) error {
	var trx models.Transaction
	err := s.DB.Where("id = ? AND type = ?", trxId, models.TrxTypeWithdraw).First(&trx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTrxNotFound
	}
	if err != nil {
		return err
	}
	if trx.Status != models.TrxStatusPending {
		return nil
	}
	return s.DB.Model(&models.Transaction{}).Where("id = ?", trx.ID).
		UpdateColumn("status", models.TrxStatusSuccess).Error
}
