package services

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ludo-service/internal/models"
	"ludo-service/pkg/common"
)

type PaymentService struct {
	DB     *gorm.DB
	Wallet *WalletService
}

func NewPaymentService(db *gorm.DB, wallet *WalletService) *PaymentService {
	return &PaymentService{DB: db, Wallet: wallet}
}

// InitiateDeposit creates a pending deposit transaction keyed by a gateway
// order id. The money only moves when the gateway webhook confirms.
func (s *PaymentService) InitiateDeposit(userId int, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, common.NewAPIError(http.StatusBadRequest, "Amount must be greater than zero")
	}

	orderId := "DEP" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:20]
	trx := &models.Transaction{
		UserId:         userId,
		TransactionNo:  common.GenerateTrxNo(),
		Type:           models.TrxTypeDeposit,
		Amount:         amount,
		Status:         models.TrxStatusPending,
		Description:    fmt.Sprintf("Deposit of %d", amount),
		WalletType:     models.WalletTypeDeposit,
		GatewayOrderId: orderId,
	}
	if err := s.DB.Create(trx).Error; err != nil {
		return nil, err
	}
	return trx, nil
}

// ConfirmDeposit is the webhook entry point. Unknown orders and already
// processed orders are acknowledged without effect so gateway retries stay
// harmless.
func (s *PaymentService) ConfirmDeposit(orderId, gatewayTxnId, status string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var trx models.Transaction
		err := tx.Where("gateway_order_id = ?", orderId).First(&trx).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("webhook for unknown order %s ignored", orderId)
			return nil
		}
		if err != nil {
			return err
		}
		if trx.Status != models.TrxStatusPending {
			return nil
		}

		switch status {
		case models.TrxStatusSuccess:
			if err := s.Wallet.CreditBalance(tx, trx.UserId, trx.Amount, models.WalletTypeDeposit); err != nil {
				return err
			}
			return tx.Model(&models.Transaction{}).Where("id = ?", trx.ID).Updates(map[string]interface{}{
				"status":         models.TrxStatusSuccess,
				"gateway_txn_id": gatewayTxnId,
			}).Error
		case models.TrxStatusFailed:
			return tx.Model(&models.Transaction{}).Where("id = ?", trx.ID).Updates(map[string]interface{}{
				"status":         models.TrxStatusFailed,
				"gateway_txn_id": gatewayTxnId,
			}).Error
		default:
			return common.NewAPIError(http.StatusBadRequest, "Unknown payment status")
		}
	})
}

// AdminAddFunds credits a user directly, bypassing the gateway.
func (s *PaymentService) AdminAddFunds(userId int, amount int64, note string) error {
	if amount <= 0 {
		return common.NewAPIError(http.StatusBadRequest, "Amount must be greater than zero")
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		desc := note
		if desc == "" {
			desc = "Funds added by admin"
		}
		return s.Wallet.Credit(tx, userId, amount, models.WalletTypeDeposit, models.TrxTypeDeposit, desc)
	})
}
