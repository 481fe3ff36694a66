package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"ludo-service/internal/services"
)

type Worker struct {
	Withdrawals *services.WithdrawalService
	Rooms       *services.RoomService
}

func NewWorker(withdrawals *services.WithdrawalService, rooms *services.RoomService) *Worker {
	return &Worker{
		Withdrawals: withdrawals,
		Rooms:       rooms,
	}
}

func (w *Worker) HandleWithdrawalPayout(ctx context.Context, t *asynq.Task) error {
	var p WithdrawalPayoutDTO
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Withdrawals.ProcessPayout(p.TransactionId)
}

func (w *Worker) HandleStaleRoomSweep(ctx context.Context, t *asynq.Task) error {
	var p StaleRoomSweepDTO
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	maxAge := time.Duration(p.MaxAgeMinutes) * time.Minute
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	swept, err := w.Rooms.SweepStaleRooms(maxAge)
	if err != nil {
		return err
	}
	if swept > 0 {
		log.Printf("stale room sweep cancelled %d rooms", swept)
	}
	return nil
}

func StartWorker(redisOpt asynq.RedisClientOpt, withdrawals *services.WithdrawalService, rooms *services.RoomService) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	worker := NewWorker(withdrawals, rooms)
	mux := asynq.NewServeMux()

	mux.HandleFunc(TypeWithdrawalPayout, worker.HandleWithdrawalPayout)
	mux.HandleFunc(TypeStaleRoomSweep, worker.HandleStaleRoomSweep)

	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
