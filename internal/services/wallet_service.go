package services

import (
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ludo-service/internal/models"
	"ludo-service/pkg/common"
)

// WalletService is the ledger: every balance mutation goes through Debit or
// Credit, each of which locks the wallet row and writes its transaction record
// inside the caller's database transaction.
type WalletService struct {
	DB *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{DB: db}
}

func (s *WalletService) CreateWallet(tx *gorm.DB, userId int) error {
	wallet := models.Wallet{UserId: userId}
	return tx.Create(&wallet).Error
}

func (s *WalletService) Balance(userId int) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.DB.Where("user_id = ?", userId).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func lockWallet(tx *gorm.DB, userId int) (*models.Wallet, error) {
	var wallet models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userId).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Debit takes amount from the deposit balance first and falls back to the
// winning balance for the remainder. Fails before any write when the total
// balance cannot cover the amount.
func (s *WalletService) Debit(tx *gorm.DB, userId int, amount int64, trxType, description string) error {
	wallet, err := lockWallet(tx, userId)
	if err != nil {
		return err
	}

	if wallet.TotalBalance < amount {
		return ErrInsufficientBalance
	}

	fromDeposit := amount
	if fromDeposit > wallet.DepositBalance {
		fromDeposit = wallet.DepositBalance
	}
	fromWinning := amount - fromDeposit

	updates := map[string]interface{}{
		"deposit_balance": gorm.Expr("deposit_balance - ?", fromDeposit),
		"winning_balance": gorm.Expr("winning_balance - ?", fromWinning),
		"total_balance":   gorm.Expr("total_balance - ?", amount),
	}
	if err := tx.Model(&models.Wallet{}).Where("user_id = ?", userId).Updates(updates).Error; err != nil {
		return err
	}

	walletType := models.WalletTypeDeposit
	if fromDeposit == 0 {
		walletType = models.WalletTypeWinning
	}
	return s.writeTransaction(tx, &models.Transaction{
		UserId:      userId,
		Type:        trxType,
		Amount:      amount,
		Status:      models.TrxStatusSuccess,
		Description: description,
		WalletType:  walletType,
	})
}

// Credit adds amount to the given bucket and records the movement. bucket is
// models.WalletTypeDeposit (refunds, manual deposits) or
// models.WalletTypeWinning (payouts, referral bonuses).
func (s *WalletService) Credit(tx *gorm.DB, userId int, amount int64, bucket, trxType, description string) error {
	if err := s.CreditBalance(tx, userId, amount, bucket); err != nil {
		return err
	}
	return s.writeTransaction(tx, &models.Transaction{
		UserId:      userId,
		Type:        trxType,
		Amount:      amount,
		Status:      models.TrxStatusSuccess,
		Description: description,
		WalletType:  bucket,
	})
}

// CreditBalance moves money without writing a transaction row. Used when an
// existing pending transaction (deposit confirmation, withdrawal refund) is
// the record of the movement.
func (s *WalletService) CreditBalance(tx *gorm.DB, userId int, amount int64, bucket string) error {
	if _, err := lockWallet(tx, userId); err != nil {
		return err
	}

	balanceCol := "deposit_balance"
	if bucket == models.WalletTypeWinning {
		balanceCol = "winning_balance"
	}
	return tx.Model(&models.Wallet{}).Where("user_id = ?", userId).Updates(map[string]interface{}{
		balanceCol:      gorm.Expr(balanceCol+" + ?", amount),
		"total_balance": gorm.Expr("total_balance + ?", amount),
	}).Error
}

// DebitBalance is the winning-bucket mirror of CreditBalance, used by the
// withdrawal path where the pending withdraw transaction is the record.
func (s *WalletService) DebitBalance(tx *gorm.DB, userId int, amount int64, bucket string) error {
	wallet, err := lockWallet(tx, userId)
	if err != nil {
		return err
	}

	balanceCol := "deposit_balance"
	available := wallet.DepositBalance
	if bucket == models.WalletTypeWinning {
		balanceCol = "winning_balance"
		available = wallet.WinningBalance
	}
	if available < amount {
		if bucket == models.WalletTypeWinning {
			return ErrInsufficientWinning
		}
		return ErrInsufficientBalance
	}
	return tx.Model(&models.Wallet{}).Where("user_id = ?", userId).Updates(map[string]interface{}{
		balanceCol:      gorm.Expr(balanceCol+" - ?", amount),
		"total_balance": gorm.Expr("total_balance - ?", amount),
	}).Error
}

// Refund credits a stake back to a player's deposit balance. A missing wallet
// is logged and skipped so a batch refund can finish for the other players.
func (s *WalletService) Refund(tx *gorm.DB, userId int, amount int64, description string) error {
	err := s.Credit(tx, userId, amount, models.WalletTypeDeposit, models.TrxTypeDeposit, description)
	if errors.Is(err, ErrWalletNotFound) {
		log.Printf("wallet not found for user %d during refund, skipping", userId)
		return nil
	}
	return err
}

func (s *WalletService) writeTransaction(tx *gorm.DB, trx *models.Transaction) error {
	if trx.TransactionNo == "" {
		trx.TransactionNo = common.GenerateTrxNo()
	}
	return tx.Create(trx).Error
}

// Transactions returns the user's ledger history, newest first.
func (s *WalletService) Transactions(userId int, trxType string, page, limit int) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(page, limit, 10)

	query := s.DB.Model(&models.Transaction{}).Where("user_id = ?", userId)
	if trxType != "" {
		query = query.Where("type = ?", trxType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var transactions []models.Transaction
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&transactions).Error; err != nil {
		return common.PaginationResult{}, err
	}
	return common.PaginateResponse(transactions, total, page, limit, "Transactions fetched"), nil
}
