package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"ludo-service/internal/models"
	"ludo-service/pkg/common"
)

// 5 MB cap on claim screenshots.
const maxScreenshotBytes = 5 << 20

type CreateRoomRequest struct {
	BetAmount    int64  `json:"betAmount" binding:"required"`
	LudoUsername string `json:"ludoUsername" binding:"required"`
}

func (s *Server) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	room, err := s.Rooms.CreateRoom(currentUserId(c), req.BetAmount, req.LudoUsername)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, room, "Room created successfully")
}

type JoinRoomRequest struct {
	LudoUsername string `json:"ludoUsername" binding:"required"`
}

func (s *Server) JoinRoom(c *gin.Context) {
	var req JoinRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	room, err := s.Rooms.JoinRoom(currentUserId(c), c.Param("roomId"), req.LudoUsername)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, room, "Join request submitted, waiting for approval")
}

type JoinRequestAction struct {
	UserId int    `json:"userId" binding:"required"`
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

func (s *Server) HandleJoinRequest(c *gin.Context) {
	var req JoinRequestAction
	if !bindJSON(c, &req) {
		return
	}
	room, err := s.Rooms.HandleJoinRequest(currentUserId(c), c.Param("roomId"), req.UserId, req.Action)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, room, "Join request "+req.Action+"d")
}

func (s *Server) GetRoomCode(c *gin.Context) {
	room, err := s.Rooms.GetRoomCode(currentUserId(c), c.Param("roomId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"ludoRoomCode": room.LudoRoomCode}, "Room code fetched")
}

type SetRoomCodeRequest struct {
	LudoRoomCode string `json:"ludoRoomCode" binding:"required"`
}

func (s *Server) SetRoomCode(c *gin.Context) {
	var req SetRoomCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := s.Rooms.SetRoomCodeByCreator(currentUserId(c), c.Param("roomId"), req.LudoRoomCode); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Room code updated")
}

func (s *Server) CancelRoom(c *gin.Context) {
	refund, err := s.Rooms.CancelRoom(currentUserId(c), c.Param("roomId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"refundAmount": refund}, "Room cancelled and stakes refunded")
}

func (s *Server) RequestMutualCancellation(c *gin.Context) {
	cancelled, err := s.Rooms.RequestMutualCancellation(currentUserId(c), c.Param("roomId"))
	if err != nil {
		fail(c, err)
		return
	}
	if cancelled {
		respond(c, http.StatusOK, gin.H{"cancelled": true}, "Room cancelled by mutual agreement")
		return
	}
	respond(c, http.StatusOK, gin.H{"cancelled": false}, "Cancellation requested, waiting for the other player")
}

func (s *Server) GetUserRooms(c *gin.Context) {
	rooms, err := s.Rooms.UserRooms(currentUserId(c), c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, rooms, "Rooms fetched")
}

func (s *Server) GetFinishedGames(c *gin.Context) {
	rooms, err := s.Rooms.FinishedGames(currentUserId(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, rooms, "Finished games fetched")
}

func (s *Server) GetPendingJoinRequests(c *gin.Context) {
	rooms, err := s.Rooms.PendingJoinRequests(currentUserId(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, rooms, "Pending join requests fetched")
}

// ClaimResult accepts multipart form data: claimType, ludoUsername and an
// optional screenshot file (required for win claims).
func (s *Server) ClaimResult(c *gin.Context) {
	claimType := c.PostForm("claimType")
	ludoUsername := c.PostForm("ludoUsername")

	var screenshot []byte
	screenshotType := ""
	file, err := c.FormFile("screenshot")
	if err == nil {
		if file.Size > maxScreenshotBytes {
			fail(c, common.NewAPIError(http.StatusBadRequest, "Screenshot must be under 5MB"))
			return
		}
		f, err := file.Open()
		if err != nil {
			fail(c, err)
			return
		}
		defer f.Close()
		screenshot, err = io.ReadAll(f)
		if err != nil {
			fail(c, err)
			return
		}
		screenshotType = file.Header.Get("Content-Type")
	}

	outcome, err := s.Claims.ClaimResult(currentUserId(c), c.Param("roomId"), claimType, ludoUsername, screenshot, screenshotType)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, outcome, outcome.Message)
}

func (s *Server) CheckResult(c *gin.Context) {
	result, err := s.Claims.CheckResult(currentUserId(c), c.Param("roomId"))
	if err != nil {
		fail(c, err)
		return
	}
	message := "Result fetched"
	if result.RoomStatus == models.RoomStatusFinished {
		message = "Game result declared"
	}
	respond(c, http.StatusOK, result, message)
}
