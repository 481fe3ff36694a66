package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task Types
const (
	TypeWithdrawalPayout = "withdrawal-payout"
	TypeStaleRoomSweep   = "stale-room-sweep"
)

type WithdrawalPayoutDTO struct {
	TransactionId int `json:"transactionId"`
}

type StaleRoomSweepDTO struct {
	MaxAgeMinutes int `json:"maxAgeMinutes"`
}

// Task Creators

func NewWithdrawalPayoutTask(payload WithdrawalPayoutDTO) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeWithdrawalPayout, data), nil
}

func NewStaleRoomSweepTask(payload StaleRoomSweepDTO) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeStaleRoomSweep, data), nil
}
