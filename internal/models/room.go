package models

import (
	"time"
)

const (
	RoomStatusPending   = "pending"
	RoomStatusLive      = "live"
	RoomStatusEnded     = "ended"
	RoomStatusFinished  = "finished"
	RoomStatusCancelled = "cancelled"

	DisputeStatusNone        = "none"
	DisputeStatusSingleClaim = "single_claim"
	DisputeStatusDisputed    = "disputed"
	DisputeStatusResolved    = "resolved"

	PlayerStatusApproved = "approved"
	PlayerStatusPending  = "pending"
	PlayerStatusRejected = "rejected"

	MaxRoomPlayers = 2
	MinBetAmount   = 10
)

// Room is one 1v1 match with an escrowed prize pool. Status tracks the coarse
// lifecycle (pending -> live -> ended|finished), DisputeStatus tracks claim
// reconciliation on an orthogonal axis. Once a winner is written, Status must
// be finished and DisputeStatus resolved.
type Room struct {
	ID                 int          `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomId             string       `gorm:"column:room_id;size:16;not null;uniqueIndex" json:"room_id"`
	CreatedBy          int          `gorm:"column:created_by;not null;index" json:"created_by"`
	BetAmount          int64        `gorm:"column:bet_amount;not null" json:"bet_amount"`
	TotalPrizePool     int64        `gorm:"column:total_prize_pool;not null;default:0" json:"total_prize_pool"`
	Status             string       `gorm:"column:status;size:20;default:pending;index" json:"status"`
	DisputeStatus      string       `gorm:"column:dispute_status;size:20;default:none;index" json:"dispute_status"`
	LudoRoomCode       string       `gorm:"column:ludo_room_code;size:32" json:"ludo_room_code,omitempty"`
	WinnerUserId       *int         `gorm:"column:winner_user_id" json:"winner_user_id,omitempty"`
	WinnerLudoUsername string       `gorm:"column:winner_ludo_username;size:100" json:"winner_ludo_username,omitempty"`
	WinnerAmountWon    int64        `gorm:"column:winner_amount_won;default:0" json:"winner_amount_won,omitempty"`
	WinnerNetAmount    int64        `gorm:"column:winner_net_amount;default:0" json:"winner_net_amount,omitempty"`
	ServiceCharge      int64        `gorm:"column:service_charge;default:0" json:"service_charge"`
	GameStartedAt      *time.Time   `gorm:"column:game_started_at" json:"game_started_at,omitempty"`
	GameEndedAt        *time.Time   `gorm:"column:game_ended_at" json:"game_ended_at,omitempty"`
	ResultCheckedAt    *time.Time   `gorm:"column:result_checked_at" json:"result_checked_at,omitempty"`
	Players            []RoomPlayer `gorm:"foreignKey:RoomId;references:RoomId" json:"players"`
	CreatedAt          time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Room) TableName() string {
	return "rooms"
}

// HasWinner reports whether settlement already wrote a winner.
func (r *Room) HasWinner() bool {
	return r.WinnerUserId != nil
}

// Player returns the seat held by userId, or nil.
func (r *Room) Player(userId int) *RoomPlayer {
	for i := range r.Players {
		if r.Players[i].UserId == userId {
			return &r.Players[i]
		}
	}
	return nil
}

// Opponent returns the other seat, or nil for a single-player room.
func (r *Room) Opponent(userId int) *RoomPlayer {
	for i := range r.Players {
		if r.Players[i].UserId != userId {
			return &r.Players[i]
		}
	}
	return nil
}

// RoomPlayer is one seat in a room. The creator is seated approved; a joiner
// is seated pending until the creator approves or rejects.
type RoomPlayer struct {
	ID              int       `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomId          string    `gorm:"column:room_id;size:16;not null;uniqueIndex:idx_room_player" json:"room_id"`
	UserId          int       `gorm:"column:user_id;not null;uniqueIndex:idx_room_player" json:"user_id"`
	LudoUsername    string    `gorm:"column:ludo_username;size:100;not null" json:"ludo_username"`
	Status          string    `gorm:"column:status;size:20;default:approved" json:"status"`
	CancelRequested bool      `gorm:"column:cancel_requested;default:false" json:"cancel_requested"`
	JoinedAt        time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
}

func (RoomPlayer) TableName() string {
	return "room_players"
}
