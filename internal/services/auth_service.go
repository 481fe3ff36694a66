package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"ludo-service/internal/auth"
	"ludo-service/internal/models"
	"ludo-service/internal/otp"
	"ludo-service/pkg/common"
)

var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

type AuthService struct {
	DB        *gorm.DB
	Wallet    *WalletService
	OTP       *otp.Store
	JWTSecret []byte
	TokenTTL  time.Duration
}

func NewAuthService(db *gorm.DB, wallet *WalletService, store *otp.Store, secret []byte) *AuthService {
	return &AuthService{
		DB:        db,
		Wallet:    wallet,
		OTP:       store,
		JWTSecret: secret,
		TokenTTL:  30 * 24 * time.Hour,
	}
}

// normalizeMobile strips a leading country prefix and validates the ten-digit
// form.
func normalizeMobile(mobile string) (string, error) {
	mobile = strings.TrimSpace(mobile)
	mobile = strings.TrimPrefix(mobile, "+91")
	if len(mobile) == 12 && strings.HasPrefix(mobile, "91") {
		mobile = mobile[2:]
	}
	if !mobilePattern.MatchString(mobile) {
		return "", ErrInvalidMobile
	}
	return mobile, nil
}

// RequestOTP generates and stores a one-time code for the mobile number.
// Delivery is via SMS in production; the code is logged for development.
func (s *AuthService) RequestOTP(ctx context.Context, mobile string) error {
	mobile, err := normalizeMobile(mobile)
	if err != nil {
		return err
	}
	code := common.GenerateOTP()
	if err := s.OTP.Put(ctx, mobile, code); err != nil {
		return err
	}
	log.Printf("OTP for %s: %s", mobile, code)
	return nil
}

type AuthResult struct {
	Token     string       `json:"token"`
	User      *models.User `json:"user"`
	IsNewUser bool         `json:"isNewUser"`
}

// VerifyOTP checks the code, creating the user and their wallet on first
// login. A valid referredBy code links the new user to their referrer.
func (s *AuthService) VerifyOTP(ctx context.Context, mobile, code, fullName, referredBy string) (*AuthResult, error) {
	mobile, err := normalizeMobile(mobile)
	if err != nil {
		return nil, err
	}

	stored, err := s.OTP.Get(ctx, mobile)
	if err != nil {
		return nil, err
	}
	if stored == "" || stored != code {
		return nil, ErrInvalidOTP
	}
	if err := s.OTP.Delete(ctx, mobile); err != nil {
		log.Printf("failed to delete used OTP for %s: %v", mobile, err)
	}

	var user models.User
	isNew := false
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("mobile_number = ?", mobile).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		isNew = true
		referCode, err := generateReferCode(tx)
		if err != nil {
			return err
		}

		validReferredBy := ""
		if referredBy != "" {
			var referrer models.User
			err := tx.Where("refer_code = ?", referredBy).First(&referrer).Error
			switch {
			case err == nil:
				validReferredBy = referredBy
			case errors.Is(err, gorm.ErrRecordNotFound):
				log.Printf("ignoring unknown refer code %q at signup", referredBy)
			default:
				return err
			}
		}

		user = models.User{
			FullName:     fullName,
			Username:     "user_" + mobile,
			MobileNumber: mobile,
			ReferCode:    referCode,
			ReferredBy:   validReferredBy,
			IsActive:     true,
			Role:         models.RoleUser,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return s.Wallet.CreateWallet(tx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(s.JWTSecret, user.ID, user.MobileNumber, user.Role, s.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: &user, IsNewUser: isNew}, nil
}

func generateReferCode(tx *gorm.DB) (string, error) {
	for {
		candidate := common.GenerateReferCode()
		var count int64
		if err := tx.Model(&models.User{}).Where("refer_code = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

// Profile returns the user row for the authenticated id.
func (s *AuthService) Profile(userId int) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, userId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile lets a user change their display name.
func (s *AuthService) UpdateProfile(userId int, fullName string) (*models.User, error) {
	user, err := s.Profile(userId)
	if err != nil {
		return nil, err
	}
	if fullName != "" {
		user.FullName = fullName
		if err := s.DB.Model(&models.User{}).Where("id = ?", userId).
			UpdateColumn("full_name", fullName).Error; err != nil {
			return nil, err
		}
	}
	return user, nil
}
