package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"ludo-service/internal/database"
	"ludo-service/internal/handlers"
	"ludo-service/internal/otp"
	"ludo-service/internal/services"
	"ludo-service/internal/worker"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found in current directory, trying parent")
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	// Initialize Database
	database.Connect()
	database.Migrate()
	db := database.DB

	// Redis
	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisClient, err := database.NewRedis(redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		log.Fatal("JWT_SECRET is required")
	}

	otpStore := otp.NewStore(redisClient, 5*time.Minute)

	// Asynq Client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	// Init Services
	walletService := services.NewWalletService(db)
	authService := services.NewAuthService(db, walletService, otpStore, jwtSecret)
	roomService := services.NewRoomService(db, walletService)
	claimService := services.NewClaimService(db, walletService)
	paymentService := services.NewPaymentService(db, walletService)

	withdrawalService := services.NewWithdrawalService(db, walletService)
	withdrawalService.EnqueuePayout = func(trxId int) error {
		task, err := worker.NewWithdrawalPayoutTask(worker.WithdrawalPayoutDTO{TransactionId: trxId})
		if err != nil {
			return err
		}
		_, err = asynqClient.Enqueue(task, asynq.Queue("critical"))
		return err
	}

	// Start Cron Schedulers
	roomService.StartScheduler(asynqClient, func() (*asynq.Task, error) {
		return worker.NewStaleRoomSweepTask(worker.StaleRoomSweepDTO{MaxAgeMinutes: 60})
	})

	// Initialize Gin
	r := gin.Default()
	server := handlers.NewServer(
		jwtSecret,
		authService,
		walletService,
		roomService,
		claimService,
		withdrawalService,
		paymentService,
	)
	server.Routes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("HTTP Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
