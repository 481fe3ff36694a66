package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ludo-service/internal/models"
	"ludo-service/pkg/common"
)

type RoomService struct {
	DB     *gorm.DB
	Wallet *WalletService
}

func NewRoomService(db *gorm.DB, wallet *WalletService) *RoomService {
	return &RoomService{DB: db, Wallet: wallet}
}

// generateRoomId re-rolls until the candidate code is unused. The code space
// (36^8) makes collisions rare enough that the loop almost never iterates.
func generateRoomId(tx *gorm.DB) (string, error) {
	for {
		candidate := common.GenerateRoomCode()
		var count int64
		if err := tx.Model(&models.Room{}).Where("room_id = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

// getRoomForUpdate locks the room row for the duration of the enclosing
// transaction. Claim processing and cancellation both depend on this: two
// concurrent writers must not both observe the same room state.
func getRoomForUpdate(tx *gorm.DB, roomId string) (*models.Room, error) {
	var room models.Room
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room_id = ?", roomId).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Where("room_id = ?", roomId).Order("joined_at ASC, id ASC").Find(&room.Players).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) CreateRoom(userId int, betAmount int64, ludoUsername string) (*models.Room, error) {
	if betAmount < models.MinBetAmount {
		return nil, ErrBetTooSmall
	}

	var room *models.Room
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		desc := fmt.Sprintf("Room creation stake - %d", betAmount)
		if err := s.Wallet.Debit(tx, userId, betAmount, models.TrxTypePenalty, desc); err != nil {
			return err
		}

		roomId, err := generateRoomId(tx)
		if err != nil {
			return err
		}

		room = &models.Room{
			RoomId:         roomId,
			CreatedBy:      userId,
			BetAmount:      betAmount,
			TotalPrizePool: betAmount,
			Status:         models.RoomStatusPending,
			DisputeStatus:  models.DisputeStatusNone,
			Players: []models.RoomPlayer{{
				RoomId:       roomId,
				UserId:       userId,
				LudoUsername: ludoUsername,
				Status:       models.PlayerStatusApproved,
			}},
		}
		if err := tx.Create(room).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id = ?", userId).
			UpdateColumn("games_played", gorm.Expr("games_played + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) JoinRoom(userId int, roomId, ludoUsername string) (*models.Room, error) {
	var room *models.Room
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = getRoomForUpdate(tx, roomId)
		if err != nil {
			return err
		}
		if len(room.Players) >= models.MaxRoomPlayers {
			return ErrRoomFull
		}
		if room.Player(userId) != nil {
			return ErrAlreadyJoined
		}

		desc := fmt.Sprintf("Joined room %s - %d", roomId, room.BetAmount)
		if err := s.Wallet.Debit(tx, userId, room.BetAmount, models.TrxTypePenalty, desc); err != nil {
			return err
		}

		player := models.RoomPlayer{
			RoomId:       roomId,
			UserId:       userId,
			LudoUsername: ludoUsername,
			Status:       models.PlayerStatusPending,
		}
		if err := tx.Create(&player).Error; err != nil {
			return err
		}
		room.Players = append(room.Players, player)

		room.TotalPrizePool += room.BetAmount
		if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).
			UpdateColumn("total_prize_pool", room.TotalPrizePool).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id = ?", userId).
			UpdateColumn("games_played", gorm.Expr("games_played + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// HandleJoinRequest lets the creator approve or reject a pending joiner.
// Approval of the second player takes the room live exactly once; rejection
// unseats the player and refunds their stake.
func (s *RoomService) HandleJoinRequest(creatorId int, roomId string, targetUserId int, action string) (*models.Room, error) {
	var room *models.Room
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		room, err = getRoomForUpdate(tx, roomId)
		if err != nil {
			return err
		}
		if room.CreatedBy != creatorId {
			return ErrNotRoomCreator
		}

		target := room.Player(targetUserId)
		if target == nil || target.Status != models.PlayerStatusPending {
			return ErrPendingPlayerGone
		}

		if action == "approve" {
			target.Status = models.PlayerStatusApproved
			if err := tx.Model(&models.RoomPlayer{}).Where("id = ?", target.ID).
				UpdateColumn("status", models.PlayerStatusApproved).Error; err != nil {
				return err
			}

			approved := 0
			for _, p := range room.Players {
				if p.Status == models.PlayerStatusApproved {
					approved++
				}
			}
			if approved == models.MaxRoomPlayers && room.Status == models.RoomStatusPending {
				now := time.Now()
				room.Status = models.RoomStatusLive
				room.GameStartedAt = &now
				return tx.Model(&models.Room{}).Where("id = ?", room.ID).Updates(map[string]interface{}{
					"status":          models.RoomStatusLive,
					"game_started_at": now,
				}).Error
			}
			return nil
		}

		// reject: unseat and refund
		if err := tx.Delete(&models.RoomPlayer{}, target.ID).Error; err != nil {
			return err
		}
		room.TotalPrizePool -= room.BetAmount
		if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).
			UpdateColumn("total_prize_pool", room.TotalPrizePool).Error; err != nil {
			return err
		}
		desc := fmt.Sprintf("Refund for rejected join request - Room %s", roomId)
		if err := s.Wallet.Refund(tx, targetUserId, room.BetAmount, desc); err != nil {
			return err
		}

		remaining := room.Players[:0]
		for _, p := range room.Players {
			if p.UserId != targetUserId {
				remaining = append(remaining, p)
			}
		}
		room.Players = remaining
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// GetRoomCode returns the out-of-band Ludo King code to a seated player once
// the room is live and a code has been set.
func (s *RoomService) GetRoomCode(userId int, roomId string) (*models.Room, error) {
	room, err := s.FindRoom(roomId)
	if err != nil {
		return nil, err
	}
	if room.Player(userId) == nil {
		return nil, ErrNotRoomPlayer
	}
	if room.Status != models.RoomStatusLive {
		return nil, ErrRoomNotLive
	}
	if room.LudoRoomCode == "" {
		return nil, ErrRoomCodeMissing
	}
	return room, nil
}

// SetRoomCodeByCreator writes the code; the creator may overwrite an existing
// one (a mistyped code would otherwise strand the room).
func (s *RoomService) SetRoomCodeByCreator(userId int, roomId, code string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		room, err := getRoomForUpdate(tx, roomId)
		if err != nil {
			return err
		}
		if room.CreatedBy != userId {
			return ErrNotRoomCreator
		}
		if room.Status != models.RoomStatusPending && room.Status != models.RoomStatusLive {
			return ErrRoomNotLive
		}
		return tx.Model(&models.Room{}).Where("id = ?", room.ID).
			UpdateColumn("ludo_room_code", code).Error
	})
}

// SetRoomCodeByAdmin rejects when a code already exists. The admin path is
// deliberately stricter than the creator path.
func (s *RoomService) SetRoomCodeByAdmin(roomId, code string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		room, err := getRoomForUpdate(tx, roomId)
		if err != nil {
			return err
		}
		if room.Status != models.RoomStatusPending && room.Status != models.RoomStatusLive {
			return ErrRoomNotLive
		}
		if room.LudoRoomCode != "" {
			return ErrRoomCodeSet
		}
		return tx.Model(&models.Room{}).Where("id = ?", room.ID).
			UpdateColumn("ludo_room_code", code).Error
	})
}

// refundAndDelete returns every seated player's stake to their deposit
// balance and removes the room. A player whose wallet has gone missing is
// logged and skipped rather than blocking the other refunds.
func (s *RoomService) refundAndDelete(tx *gorm.DB, room *models.Room, reason string) error {
	for _, p := range room.Players {
		desc := fmt.Sprintf("Refund for cancelled room %s", room.RoomId)
		if reason != "" {
			desc = fmt.Sprintf("%s (%s)", desc, reason)
		}
		if err := s.Wallet.Refund(tx, p.UserId, room.BetAmount, desc); err != nil {
			return err
		}
	}
	if err := tx.Where("room_id = ?", room.RoomId).Delete(&models.RoomPlayer{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Room{}, room.ID).Error
}

// CancelRoom is the unilateral path: any seated player may cancel while the
// room is pending or live. Every player is refunded and the room is deleted.
func (s *RoomService) CancelRoom(userId int, roomId string) (int64, error) {
	var refund int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		room, err := getRoomForUpdate(tx, roomId)
		if err != nil {
			return err
		}
		if room.Player(userId) == nil {
			return ErrNotRoomPlayer
		}
		if room.Status != models.RoomStatusPending && room.Status != models.RoomStatusLive {
			return ErrCannotCancel
		}
		refund = room.BetAmount
		return s.refundAndDelete(tx, room, "")
	})
	if err != nil {
		return 0, err
	}
	return refund, nil
}

// RequestMutualCancellation records the caller's consent; the refund fires
// only once every seated player has consented. Repeating the request is a
// no-op that re-acknowledges the waiting state.
func (s *RoomService) RequestMutualCancellation(userId int, roomId string) (cancelled bool, err error) {
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		room, err := getRoomForUpdate(tx, roomId)
		if err != nil {
			return err
		}
		caller := room.Player(userId)
		if caller == nil {
			return ErrNotRoomPlayer
		}
		if room.Status != models.RoomStatusPending && room.Status != models.RoomStatusLive {
			return ErrCannotCancel
		}

		if !caller.CancelRequested {
			caller.CancelRequested = true
			if err := tx.Model(&models.RoomPlayer{}).Where("id = ?", caller.ID).
				UpdateColumn("cancel_requested", true).Error; err != nil {
				return err
			}
		}

		for _, p := range room.Players {
			if !p.CancelRequested {
				return nil // still waiting for the other player
			}
		}
		cancelled = true
		return s.refundAndDelete(tx, room, "mutual cancellation")
	})
	return cancelled, err
}

// AdminCancelRoom refunds and deletes regardless of lifecycle stage.
func (s *RoomService) AdminCancelRoom(roomId, reason string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		room, err := getRoomForUpdate(tx, roomId)
		if err != nil {
			return err
		}
		return s.refundAndDelete(tx, room, reason)
	})
}

func (s *RoomService) FindRoom(roomId string) (*models.Room, error) {
	var room models.Room
	err := s.DB.Where("room_id = ?", roomId).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.DB.Where("room_id = ?", roomId).Order("joined_at ASC, id ASC").Find(&room.Players).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// UserRooms lists rooms the user is seated in, newest first.
func (s *RoomService) UserRooms(userId int, status string) ([]models.Room, error) {
	query := s.DB.Model(&models.Room{}).
		Joins("JOIN room_players rp ON rp.room_id = rooms.room_id").
		Where("rp.user_id = ?", userId)
	if status != "" {
		query = query.Where("rooms.status = ?", status)
	}

	var rooms []models.Room
	if err := query.Order("rooms.created_at DESC").Preload("Players").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *RoomService) FinishedGames(userId int) ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Model(&models.Room{}).
		Joins("JOIN room_players rp ON rp.room_id = rooms.room_id").
		Where("rp.user_id = ? AND rooms.status = ?", userId, models.RoomStatusFinished).
		Order("rooms.game_ended_at DESC").
		Preload("Players").
		Find(&rooms).Error
	return rooms, err
}

// PendingJoinRequests lists the creator's rooms that have a joiner waiting.
func (s *RoomService) PendingJoinRequests(creatorId int) ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Model(&models.Room{}).
		Joins("JOIN room_players rp ON rp.room_id = rooms.room_id").
		Where("rooms.created_by = ? AND rooms.status = ? AND rp.status = ?",
			creatorId, models.RoomStatusPending, models.PlayerStatusPending).
		Group("rooms.id").
		Order("rooms.created_at DESC").
		Preload("Players").
		Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) AllRooms(status string, page, limit int) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(page, limit, 10)

	query := s.DB.Model(&models.Room{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var rooms []models.Room
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).
		Preload("Players").Find(&rooms).Error; err != nil {
		return common.PaginationResult{}, err
	}
	return common.PaginateResponse(rooms, total, page, limit, "Rooms fetched"), nil
}

// SweepStaleRooms auto-cancels single-player rooms that have sat pending
// longer than maxAge, refunding the creator. Runs from the worker.
func (s *RoomService) SweepStaleRooms(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	var roomIds []string
	err := s.DB.Model(&models.Room{}).
		Where("status = ? AND created_at < ?", models.RoomStatusPending, cutoff).
		Pluck("room_id", &roomIds).Error
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, roomId := range roomIds {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			room, err := getRoomForUpdate(tx, roomId)
			if err != nil {
				return err
			}
			// re-check under lock; a joiner may have arrived meanwhile
			if room.Status != models.RoomStatusPending || len(room.Players) > 1 {
				return nil
			}
			swept++
			return s.refundAndDelete(tx, room, "stale room sweep")
		})
		if err != nil && !errors.Is(err, ErrRoomNotFound) {
			log.Printf("stale room sweep failed for %s: %v", roomId, err)
		}
	}
	return swept, nil
}

// StartScheduler enqueues the stale-room sweep task on an hourly cron.
func (s *RoomService) StartScheduler(client *asynq.Client, newSweepTask func() (*asynq.Task, error)) {
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		task, err := newSweepTask()
		if err != nil {
			log.Printf("failed to build stale room sweep task: %v", err)
			return
		}
		if _, err := client.Enqueue(task, asynq.Queue("low")); err != nil {
			log.Printf("failed to enqueue stale room sweep: %v", err)
		}
	})
	if err != nil {
		log.Printf("failed to schedule stale room sweep: %v", err)
		return
	}
	c.Start()
	log.Println("Room sweep scheduler started")
}
