package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type PaymentWebhookRequest struct {
	OrderId      string `json:"orderId" binding:"required"`
	GatewayTxnId string `json:"gatewayTxnId"`
	Status       string `json:"status" binding:"required"`
}

// PaymentWebhook is called by the payment gateway. It always acknowledges
// known-shape payloads; replays of processed orders are no-ops.
func (s *Server) PaymentWebhook(c *gin.Context) {
	var req PaymentWebhookRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := s.Payments.ConfirmDeposit(req.OrderId, req.GatewayTxnId, req.Status); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Webhook processed")
}
