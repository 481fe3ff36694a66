package services

import (
	"net/http"

	"ludo-service/pkg/common"
)

// Service-level failures mapped to HTTP statuses at the handler boundary.
// Validation and state conflicts are 400, authorization 403, missing rows 404;
// anything not in this list surfaces as a generic 500.
var (
	ErrRoomNotFound    = common.NewAPIError(http.StatusNotFound, "Room not found")
	ErrWalletNotFound  = common.NewAPIError(http.StatusNotFound, "Wallet not found")
	ErrUserNotFound    = common.NewAPIError(http.StatusNotFound, "User not found")
	ErrClaimNotFound   = common.NewAPIError(http.StatusNotFound, "Dispute not found")
	ErrTrxNotFound     = common.NewAPIError(http.StatusNotFound, "Transaction not found")
	ErrScreenshotEmpty = common.NewAPIError(http.StatusNotFound, "Screenshot not found")

	ErrInsufficientBalance = common.NewAPIError(http.StatusBadRequest, "Insufficient balance")
	ErrInsufficientWinning = common.NewAPIError(http.StatusBadRequest, "Insufficient winning balance. You can only withdraw from winning wallet.")
	ErrBetTooSmall         = common.NewAPIError(http.StatusBadRequest, "Bet amount must be at least 10")
	ErrRoomFull            = common.NewAPIError(http.StatusBadRequest, "Room is full")
	ErrAlreadyJoined       = common.NewAPIError(http.StatusBadRequest, "You have already joined this room")
	ErrAlreadyClaimed      = common.NewAPIError(http.StatusBadRequest, "You have already made a claim for this room")
	ErrScreenshotRequired  = common.NewAPIError(http.StatusBadRequest, "Screenshot is required to claim win")
	ErrGameNotStarted      = common.NewAPIError(http.StatusBadRequest, "Game has not started yet. Cannot claim result.")
	ErrGameAlreadyOver     = common.NewAPIError(http.StatusBadRequest, "Game is already finished or resolved. Cannot claim result.")
	ErrRoomNotLive         = common.NewAPIError(http.StatusBadRequest, "Room is not live yet.")
	ErrResultNotReady      = common.NewAPIError(http.StatusBadRequest, "Game result not declared yet. Please wait.")
	ErrNotDisputed         = common.NewAPIError(http.StatusBadRequest, "This room is not in dispute status")
	ErrInvalidWinner       = common.NewAPIError(http.StatusBadRequest, "Selected winner must have claimed win for this room")
	ErrWinnerNotPlayer     = common.NewAPIError(http.StatusBadRequest, "Winner must be one of the room players")
	ErrWinnerAlreadySet    = common.NewAPIError(http.StatusBadRequest, "Winner already declared for this room")
	ErrRoomCodeSet         = common.NewAPIError(http.StatusBadRequest, "Room code already provided for this room")
	ErrRoomCodeMissing     = common.NewAPIError(http.StatusBadRequest, "Room code not provided yet. Please wait.")
	ErrCannotCancel        = common.NewAPIError(http.StatusBadRequest, "Room can no longer be cancelled")
	ErrPendingPlayerGone   = common.NewAPIError(http.StatusNotFound, "Pending player not found in this room")
	ErrInvalidOTP          = common.NewAPIError(http.StatusBadRequest, "Invalid or expired OTP")
	ErrInvalidMobile       = common.NewAPIError(http.StatusBadRequest, "Please enter a valid mobile number")
	ErrUnexpectedClaims    = common.NewAPIError(http.StatusBadRequest, "Room has an unexpected claim state")

	ErrNotRoomPlayer  = common.NewAPIError(http.StatusForbidden, "You are not a player in this room")
	ErrNotRoomCreator = common.NewAPIError(http.StatusForbidden, "Only room creator can approve or reject join requests")
)
