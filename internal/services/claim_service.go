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

type ClaimService struct {
	DB     *gorm.DB
	Wallet *WalletService
}

func NewClaimService(db *gorm.DB, wallet *WalletService) *ClaimService {
	return &ClaimService{DB: db, Wallet: wallet}
}

// ClaimOutcome describes what happened to the room after a player submitted
// their result claim.
type ClaimOutcome struct {
	RoomStatus    string `json:"roomStatus"`
	DisputeStatus string `json:"disputeStatus"`
	WinnerUserId  *int   `json:"winnerUserId,omitempty"`
	AmountWon     int64  `json:"amountWon,omitempty"`
	Message       string `json:"message"`
}

// ClaimResult records a win or loss claim and advances the room. The room row
// is held under lock so the two players' claims serialize; whichever lands
// second sees the first and the verdict is computed from both.
func (s *ClaimService) ClaimResult(userId int, roomId, claimType, ludoUsername string, screenshot []byte, screenshotType string) (*ClaimOutcome, error) {
	if claimType != models.ClaimTypeWin && claimType != models.ClaimTypeLoss {
		return nil, common.NewAPIError(http.StatusBadRequest, "claimType must be win or loss")
	}
	if claimType == models.ClaimTypeWin && len(screenshot) == 0 {
		return nil, ErrScreenshotRequired
	}

	var outcome *ClaimOutcome
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		room, err := getRoomForUpdate(tx, roomId)
		if err != nil {
			return err
		}
		if room.Status == models.RoomStatusFinished || room.DisputeStatus == models.DisputeStatusResolved {
			return ErrGameAlreadyOver
		}
		if room.Status == models.RoomStatusPending {
			return ErrGameNotStarted
		}
		if room.Status != models.RoomStatusLive && room.Status != models.RoomStatusEnded {
			return ErrRoomNotLive
		}
		seat := room.Player(userId)
		if seat == nil {
			return ErrNotRoomPlayer
		}

		var existing int64
		if err := tx.Model(&models.RoomClaim{}).
			Where("room_id = ? AND claimed_by = ?", roomId, userId).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyClaimed
		}

		claim := models.RoomClaim{
			RoomId:         roomId,
			ClaimedBy:      userId,
			ClaimType:      claimType,
			LudoUsername:   ludoUsername,
			Screenshot:     screenshot,
			ScreenshotType: screenshotType,
			Status:         models.ClaimStatusPending,
		}
		if err := tx.Create(&claim).Error; err != nil {
			return err
		}

		var claims []models.RoomClaim
		if err := tx.Where("room_id = ?", roomId).Find(&claims).Error; err != nil {
			return err
		}
		wins, losses := 0, 0
		for _, c := range claims {
			if c.ClaimType == models.ClaimTypeWin {
				wins++
			} else {
				losses++
			}
		}

		switch ResolveClaims(wins, losses) {
		case VerdictAwaitOpponent:
			room.DisputeStatus = models.DisputeStatusSingleClaim
			if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).
				UpdateColumn("dispute_status", models.DisputeStatusSingleClaim).Error; err != nil {
				return err
			}
			outcome = &ClaimOutcome{
				RoomStatus:    room.Status,
				DisputeStatus: room.DisputeStatus,
				Message:       "Win claim recorded, waiting for opponent",
			}
			return nil

		case VerdictWinnerByForfeit:
			// single loss: the opponent wins without having claimed
			opponent := room.Opponent(userId)
			if opponent == nil {
				return ErrPendingPlayerGone
			}
			settled, err := s.settle(tx, room, opponent, nil, "won by opponent forfeit")
			if err != nil {
				return err
			}
			outcome = settled
			return nil

		case VerdictClearWinner:
			var winnerSeat *models.RoomPlayer
			for _, c := range claims {
				if c.ClaimType == models.ClaimTypeWin {
					winnerSeat = room.Player(c.ClaimedBy)
				}
			}
			if winnerSeat == nil {
				return ErrPendingPlayerGone
			}
			settled, err := s.settle(tx, room, winnerSeat, nil, "")
			if err != nil {
				return err
			}
			outcome = settled
			return nil

		case VerdictDisputed:
			now := time.Now()
			room.Status = models.RoomStatusEnded
			room.DisputeStatus = models.DisputeStatusDisputed
			if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).Updates(map[string]interface{}{
				"status":         models.RoomStatusEnded,
				"dispute_status": models.DisputeStatusDisputed,
				"game_ended_at":  now,
			}).Error; err != nil {
				return err
			}
			outcome = &ClaimOutcome{
				RoomStatus:    room.Status,
				DisputeStatus: room.DisputeStatus,
				Message:       "Both players claimed a win, dispute raised for admin review",
			}
			return nil

		case VerdictDoubleForfeit:
			// both conceded: pool is forfeited, nobody is refunded
			now := time.Now()
			if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).Updates(map[string]interface{}{
				"status":            models.RoomStatusFinished,
				"dispute_status":    models.DisputeStatusResolved,
				"game_ended_at":     now,
				"result_checked_at": now,
			}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.RoomClaim{}).Where("room_id = ?", roomId).Updates(map[string]interface{}{
				"status":      models.ClaimStatusRejected,
				"verified_at": now,
			}).Error; err != nil {
				return err
			}
			outcome = &ClaimOutcome{
				RoomStatus:    models.RoomStatusFinished,
				DisputeStatus: models.DisputeStatusResolved,
				Message:       "Both players conceded, stakes forfeited",
			}
			return nil

		default:
			return ErrUnexpectedClaims
		}
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// settle pays out the winner, credits any referral bonus, verifies the
// winner's claim and rejects the rest, and finishes the room. Callers hold
// the room lock.
func (s *ClaimService) settle(tx *gorm.DB, room *models.Room, winner *models.RoomPlayer, adminId *int, notes string) (*ClaimOutcome, error) {
	var user models.User
	if err := tx.First(&user, winner.UserId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	st := ComputeSettlement(room.TotalPrizePool, user.ReferredBy != "")

	desc := fmt.Sprintf("Winnings for room %s", room.RoomId)
	if err := s.Wallet.Credit(tx, winner.UserId, st.NetWinning, models.WalletTypeWinning, models.TrxTypeWinning, desc); err != nil {
		return nil, err
	}

	if st.ReferralBonus > 0 {
		var referrer models.User
		err := tx.Where("refer_code = ?", user.ReferredBy).First(&referrer).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// stale refer code: the bonus stays with the house
			log.Printf("referral bonus skipped, no user with refer code %q", user.ReferredBy)
			st.ServiceCharge += st.ReferralBonus
			st.ReferralBonus = 0
		case err != nil:
			return nil, err
		default:
			bonusDesc := fmt.Sprintf("Referral bonus for room %s", room.RoomId)
			if err := s.Wallet.Credit(tx, referrer.ID, st.ReferralBonus, models.WalletTypeWinning, models.TrxTypeReferral, bonusDesc); err != nil {
				return nil, err
			}
		}
	}

	now := time.Now()
	winnerId := winner.UserId
	updates := map[string]interface{}{
		"status":               models.RoomStatusFinished,
		"dispute_status":       models.DisputeStatusResolved,
		"winner_user_id":       winnerId,
		"winner_ludo_username": winner.LudoUsername,
		"winner_amount_won":    room.TotalPrizePool,
		"winner_net_amount":    st.NetWinning,
		"service_charge":       st.ServiceCharge,
		"game_ended_at":        now,
		"result_checked_at":    now,
	}
	if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	claimUpdates := func(claimedByWinner bool) map[string]interface{} {
		m := map[string]interface{}{"verified_at": now}
		if claimedByWinner {
			m["status"] = models.ClaimStatusVerified
		} else {
			m["status"] = models.ClaimStatusRejected
		}
		if adminId != nil {
			m["verified_by"] = *adminId
		}
		if notes != "" {
			m["admin_notes"] = notes
		}
		return m
	}
	if err := tx.Model(&models.RoomClaim{}).
		Where("room_id = ? AND claimed_by = ?", room.RoomId, winnerId).
		Updates(claimUpdates(true)).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.RoomClaim{}).
		Where("room_id = ? AND claimed_by <> ?", room.RoomId, winnerId).
		Updates(claimUpdates(false)).Error; err != nil {
		return nil, err
	}

	room.Status = models.RoomStatusFinished
	room.DisputeStatus = models.DisputeStatusResolved
	room.WinnerUserId = &winnerId
	room.WinnerNetAmount = st.NetWinning

	return &ClaimOutcome{
		RoomStatus:    models.RoomStatusFinished,
		DisputeStatus: models.DisputeStatusResolved,
		WinnerUserId:  &winnerId,
		AmountWon:     st.NetWinning,
		Message:       "Room settled",
	}, nil
}

// ResultStatus is what a polling client sees for a room's outcome.
type ResultStatus struct {
	RoomStatus         string `json:"roomStatus"`
	DisputeStatus      string `json:"disputeStatus"`
	WinnerUserId       *int   `json:"winnerUserId,omitempty"`
	WinnerLudoUsername string `json:"winnerLudoUsername,omitempty"`
	NetAmount          int64  `json:"netAmount,omitempty"`
}

// CheckResult reports the settled outcome to a seated player, or an error
// describing why none exists yet.
func (s *ClaimService) CheckResult(userId int, roomId string) (*ResultStatus, error) {
	var room models.Room
	err := s.DB.Where("room_id = ?", roomId).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.DB.Where("room_id = ?", roomId).Find(&room.Players).Error; err != nil {
		return nil, err
	}
	if room.Player(userId) == nil {
		return nil, ErrNotRoomPlayer
	}

	if room.Status == models.RoomStatusFinished {
		return &ResultStatus{
			RoomStatus:         room.Status,
			DisputeStatus:      room.DisputeStatus,
			WinnerUserId:       room.WinnerUserId,
			WinnerLudoUsername: room.WinnerLudoUsername,
			NetAmount:          room.WinnerNetAmount,
		}, nil
	}
	if room.Status != models.RoomStatusLive && room.Status != models.RoomStatusEnded {
		return nil, ErrRoomNotLive
	}
	return nil, ErrResultNotReady
}

// ResolveDispute settles a disputed (or single-claim) room in favour of
// winnerUserId. The winner must be seated and must have a win claim on file.
func (s *ClaimService) ResolveDispute(adminId int, roomId string, winnerUserId int, notes string) (*ClaimOutcome, error) {
	var outcome *ClaimOutcome
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		room, err := getRoomForUpdate(tx, roomId)
		if err != nil {
			return err
		}
		if room.HasWinner() || room.Status == models.RoomStatusFinished {
			return ErrWinnerAlreadySet
		}
		if room.DisputeStatus != models.DisputeStatusDisputed && room.DisputeStatus != models.DisputeStatusSingleClaim {
			return ErrNotDisputed
		}
		seat := room.Player(winnerUserId)
		if seat == nil {
			return ErrWinnerNotPlayer
		}

		var winClaims int64
		if err := tx.Model(&models.RoomClaim{}).
			Where("room_id = ? AND claimed_by = ? AND claim_type = ?", roomId, winnerUserId, models.ClaimTypeWin).
			Count(&winClaims).Error; err != nil {
			return err
		}
		if winClaims == 0 {
			return ErrInvalidWinner
		}

		outcome, err = s.settle(tx, room, seat, &adminId, notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// DeclareWinner is the admin override: it settles a live room on any seated
// player, with or without claims on file.
func (s *ClaimService) DeclareWinner(adminId int, roomId string, winnerUserId int, notes string) (*ClaimOutcome, error) {
	var outcome *ClaimOutcome
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		room, err := getRoomForUpdate(tx, roomId)
		if err != nil {
			return err
		}
		if room.HasWinner() || room.Status == models.RoomStatusFinished {
			return ErrWinnerAlreadySet
		}
		if room.Status != models.RoomStatusLive {
			return ErrRoomNotLive
		}
		seat := room.Player(winnerUserId)
		if seat == nil {
			return ErrWinnerNotPlayer
		}
		outcome, err = s.settle(tx, room, seat, &adminId, notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// DisputeEntry is a win claim awaiting admin review, joined with its room.
type DisputeEntry struct {
	Claim models.RoomClaim `json:"claim"`
	Room  models.Room      `json:"room"`
}

// Disputes lists win claims on disputed rooms, filtered by claim status
// (defaults to pending).
func (s *ClaimService) Disputes(status string, page, limit int) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(page, limit, 10)
	if status == "" {
		status = models.ClaimStatusPending
	}

	base := s.DB.Model(&models.RoomClaim{}).
		Joins("JOIN rooms ON rooms.room_id = room_claims.room_id").
		Where("room_claims.claim_type = ? AND room_claims.status = ?", models.ClaimTypeWin, status).
		Where("rooms.dispute_status IN ?", []string{models.DisputeStatusDisputed, models.DisputeStatusSingleClaim})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var claims []models.RoomClaim
	if err := base.Order("room_claims.created_at ASC").
		Limit(limit).Offset(offset).
		Omit("screenshot").
		Find(&claims).Error; err != nil {
		return common.PaginationResult{}, err
	}

	entries := make([]DisputeEntry, 0, len(claims))
	for _, c := range claims {
		var room models.Room
		if err := s.DB.Where("room_id = ?", c.RoomId).First(&room).Error; err != nil {
			return common.PaginationResult{}, err
		}
		entries = append(entries, DisputeEntry{Claim: c, Room: room})
	}
	return common.PaginateResponse(entries, total, page, limit, "Disputes fetched"), nil
}

// Screenshot returns the raw proof image attached to a claim.
func (s *ClaimService) Screenshot(claimId int) ([]byte, string, error) {
	var claim models.RoomClaim
	err := s.DB.First(&claim, claimId).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrClaimNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if len(claim.Screenshot) == 0 {
		return nil, "", ErrScreenshotEmpty
	}
	contentType := claim.ScreenshotType
	if contentType == "" {
		contentType = "image/png"
	}
	return claim.Screenshot, contentType, nil
}
