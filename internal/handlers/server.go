package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ludo-service/internal/services"
	"ludo-service/pkg/common"
)

// Server bundles the route handlers with the services they call.
type Server struct {
	JWTSecret   []byte
	Auth        *services.AuthService
	Wallet      *services.WalletService
	Rooms       *services.RoomService
	Claims      *services.ClaimService
	Withdrawals *services.WithdrawalService
	Payments    *services.PaymentService
}

func NewServer(
	secret []byte,
	auth *services.AuthService,
	wallet *services.WalletService,
	rooms *services.RoomService,
	claims *services.ClaimService,
	withdrawals *services.WithdrawalService,
	payments *services.PaymentService,
) *Server {
	return &Server{
		JWTSecret:   secret,
		Auth:        auth,
		Wallet:      wallet,
		Rooms:       rooms,
		Claims:      claims,
		Withdrawals: withdrawals,
		Payments:    payments,
	}
}

func (s *Server) Routes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/request-otp", s.RequestOTP)
		auth.POST("/verify-otp", s.VerifyOTP)
	}

	api.POST("/payments/webhook", s.PaymentWebhook)

	user := api.Group("/user", s.AuthRequired())
	{
		user.GET("/profile", s.GetProfile)
		user.PUT("/profile", s.UpdateProfile)
		user.GET("/wallet", s.GetWallet)
		user.GET("/transactions", s.GetTransactions)
		user.POST("/deposit", s.InitiateDeposit)
		user.POST("/withdraw", s.RequestWithdrawal)
	}

	rooms := api.Group("/rooms", s.AuthRequired())
	{
		rooms.POST("", s.CreateRoom)
		rooms.GET("", s.GetUserRooms)
		rooms.GET("/finished", s.GetFinishedGames)
		rooms.GET("/join-requests", s.GetPendingJoinRequests)
		rooms.POST("/:roomId/join", s.JoinRoom)
		rooms.POST("/:roomId/join-requests", s.HandleJoinRequest)
		rooms.GET("/:roomId/code", s.GetRoomCode)
		rooms.PUT("/:roomId/code", s.SetRoomCode)
		rooms.DELETE("/:roomId", s.CancelRoom)
		rooms.POST("/:roomId/cancel-request", s.RequestMutualCancellation)
		rooms.POST("/:roomId/claim", s.ClaimResult)
		rooms.GET("/:roomId/result", s.CheckResult)
	}

	admin := api.Group("/admin", s.AuthRequired(), s.AdminRequired())
	{
		admin.GET("/rooms", s.AdminGetRooms)
		admin.PUT("/rooms/:roomId/code", s.AdminSetRoomCode)
		admin.DELETE("/rooms/:roomId", s.AdminCancelRoom)
		admin.GET("/disputes", s.GetDisputes)
		admin.GET("/disputes/:disputeId/screenshot", s.GetDisputeScreenshot)
		admin.POST("/rooms/:roomId/resolve-dispute", s.ResolveDispute)
		admin.POST("/rooms/:roomId/declare-winner", s.DeclareWinner)
		admin.GET("/withdrawals", s.GetWithdrawals)
		admin.PUT("/withdrawals/:trxId/status", s.UpdateWithdrawalStatus)
		admin.POST("/users/:userId/add-funds", s.AddFunds)
	}
}

// respond writes the standard success envelope.
func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, common.NewSuccessResponse(data, message))
}

// fail maps a service error onto the error envelope.
func fail(c *gin.Context, err error) {
	apiErr := common.AsAPIError(err)
	c.JSON(apiErr.Status, common.NewErrorResponse(apiErr.Message, apiErr.Data, apiErr.Status))
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return false
	}
	return true
}
