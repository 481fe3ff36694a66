package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ludo-service/internal/services"
)

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit
}

func (s *Server) GetWallet(c *gin.Context) {
	wallet, err := s.Wallet.Balance(currentUserId(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, wallet, "Wallet fetched")
}

func (s *Server) GetTransactions(c *gin.Context) {
	page, limit := pageParams(c)
	result, err := s.Wallet.Transactions(currentUserId(c), c.Query("type"), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type DepositRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

func (s *Server) InitiateDeposit(c *gin.Context) {
	var req DepositRequest
	if !bindJSON(c, &req) {
		return
	}
	trx, err := s.Payments.InitiateDeposit(currentUserId(c), req.Amount)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{
		"orderId":       trx.GatewayOrderId,
		"transactionNo": trx.TransactionNo,
		"amount":        trx.Amount,
	}, "Deposit initiated")
}

func (s *Server) RequestWithdrawal(c *gin.Context) {
	var req services.WithdrawalRequest
	if !bindJSON(c, &req) {
		return
	}
	trx, err := s.Withdrawals.RequestWithdrawal(currentUserId(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, trx, "Withdrawal request submitted")
}
