package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ludo-service/pkg/common"
)

func (s *Server) AdminGetRooms(c *gin.Context) {
	page, limit := pageParams(c)
	result, err := s.Rooms.AllRooms(c.Query("status"), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) AdminSetRoomCode(c *gin.Context) {
	var req SetRoomCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := s.Rooms.SetRoomCodeByAdmin(c.Param("roomId"), req.LudoRoomCode); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Room code set")
}

type AdminCancelRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) AdminCancelRoom(c *gin.Context) {
	var req AdminCancelRequest
	// body is optional on this route
	_ = c.ShouldBindJSON(&req)
	if err := s.Rooms.AdminCancelRoom(c.Param("roomId"), req.Reason); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Room cancelled and stakes refunded")
}

func (s *Server) GetDisputes(c *gin.Context) {
	page, limit := pageParams(c)
	result, err := s.Claims.Disputes(c.Query("status"), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) GetDisputeScreenshot(c *gin.Context) {
	claimId, err := strconv.Atoi(c.Param("disputeId"))
	if err != nil {
		fail(c, common.NewAPIError(http.StatusBadRequest, "Invalid dispute id"))
		return
	}
	data, contentType, err := s.Claims.Screenshot(claimId)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

type ResolveDisputeRequest struct {
	WinnerUserId int    `json:"winnerUserId" binding:"required"`
	Notes        string `json:"notes"`
}

func (s *Server) ResolveDispute(c *gin.Context) {
	var req ResolveDisputeRequest
	if !bindJSON(c, &req) {
		return
	}
	outcome, err := s.Claims.ResolveDispute(currentUserId(c), c.Param("roomId"), req.WinnerUserId, req.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, outcome, "Dispute resolved")
}

func (s *Server) DeclareWinner(c *gin.Context) {
	var req ResolveDisputeRequest
	if !bindJSON(c, &req) {
		return
	}
	outcome, err := s.Claims.DeclareWinner(currentUserId(c), c.Param("roomId"), req.WinnerUserId, req.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, outcome, "Winner declared")
}

func (s *Server) GetWithdrawals(c *gin.Context) {
	page, limit := pageParams(c)
	result, err := s.Withdrawals.ListWithdrawals(c.Query("status"), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type UpdateWithdrawalStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) UpdateWithdrawalStatus(c *gin.Context) {
	trxId, err := strconv.Atoi(c.Param("trxId"))
	if err != nil {
		fail(c, common.NewAPIError(http.StatusBadRequest, "Invalid transaction id"))
		return
	}
	var req UpdateWithdrawalStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	trx, err := s.Withdrawals.UpdateWithdrawalStatus(trxId, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, trx, "Withdrawal status updated")
}

type AddFundsRequest struct {
	Amount int64  `json:"amount" binding:"required"`
	Note   string `json:"note"`
}

func (s *Server) AddFunds(c *gin.Context) {
	userId, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		fail(c, common.NewAPIError(http.StatusBadRequest, "Invalid user id"))
		return
	}
	var req AddFundsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := s.Payments.AdminAddFunds(userId, req.Amount, req.Note); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Funds added")
}
