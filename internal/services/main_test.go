package services

import (
	"log"
	"os"
	"testing"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ludo-service/internal/models"
)

// NOTE: These tests require a running MySQL instance.
// Set DATABASE_URL to run them; they skip otherwise.

var testDB *gorm.DB

func setup() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("Skipping DB tests: DATABASE_URL not set")
		return
	}

	var err error
	testDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return
	}

	testDB.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Transaction{},
		&models.Room{},
		&models.RoomPlayer{},
		&models.RoomClaim{},
	)
}

func cleanup() {
	if testDB != nil {
		testDB.Exec("DELETE FROM room_claims")
		testDB.Exec("DELETE FROM room_players")
		testDB.Exec("DELETE FROM rooms")
		testDB.Exec("DELETE FROM transactions")
		testDB.Exec("DELETE FROM wallets")
		testDB.Exec("DELETE FROM users")
	}
}

func createTestUser(t *testing.T, mobile, referCode, referredBy string, deposit int64) *models.User {
	t.Helper()
	user := &models.User{
		FullName:     "Test " + mobile,
		Username:     "user_" + mobile,
		MobileNumber: mobile,
		ReferCode:    referCode,
		ReferredBy:   referredBy,
		IsActive:     true,
		Role:         models.RoleUser,
	}
	if err := testDB.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	wallet := &models.Wallet{
		UserId:         user.ID,
		TotalBalance:   deposit,
		DepositBalance: deposit,
	}
	if err := testDB.Create(wallet).Error; err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	return user
}

func walletOf(t *testing.T, userId int) *models.Wallet {
	t.Helper()
	var wallet models.Wallet
	if err := testDB.Where("user_id = ?", userId).First(&wallet).Error; err != nil {
		t.Fatalf("load wallet for user %d: %v", userId, err)
	}
	return &wallet
}

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	os.Exit(code)
}
