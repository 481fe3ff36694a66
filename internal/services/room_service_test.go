package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ludo-service/internal/models"
)

func newTestRoomService() *RoomService {
	wallet := NewWalletService(testDB)
	return NewRoomService(testDB, wallet)
}

// createLiveRoom seats both players and approves the joiner so the room goes
// live, the common starting point for claim and cancel tests.
func createLiveRoom(t *testing.T, svc *RoomService, creator, joiner *models.User, bet int64) *models.Room {
	t.Helper()
	room, err := svc.CreateRoom(creator.ID, bet, "creator_ludo")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, err := svc.JoinRoom(joiner.ID, room.RoomId, "joiner_ludo"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	room, err = svc.HandleJoinRequest(creator.ID, room.RoomId, joiner.ID, "approve")
	if err != nil {
		t.Fatalf("HandleJoinRequest: %v", err)
	}
	return room
}

func TestCreateRoomDebitsStake(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := newTestRoomService()
	creator := createTestUser(t, "9000000001", "REF00001", "", 500)

	room, err := svc.CreateRoom(creator.ID, 100, "creator_ludo")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	assert.Equal(t, models.RoomStatusPending, room.Status)
	assert.Equal(t, int64(100), room.TotalPrizePool)
	assert.Len(t, room.Players, 1)
	assert.Equal(t, models.PlayerStatusApproved, room.Players[0].Status)

	wallet := walletOf(t, creator.ID)
	assert.Equal(t, int64(400), wallet.TotalBalance)
}

func TestCreateRoomRejectsSmallBet(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := newTestRoomService()
	creator := createTestUser(t, "9000000002", "REF00002", "", 500)

	_, err := svc.CreateRoom(creator.ID, 5, "creator_ludo")
	assert.ErrorIs(t, err, ErrBetTooSmall)
}

func TestCreateRoomInsufficientBalance(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := newTestRoomService()
	creator := createTestUser(t, "9000000003", "REF00003", "", 50)

	_, err := svc.CreateRoom(creator.ID, 100, "creator_ludo")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// failed create must not move money
	wallet := walletOf(t, creator.ID)
	assert.Equal(t, int64(50), wallet.TotalBalance)
}

func TestJoinAndApproveGoesLive(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := newTestRoomService()
	creator := createTestUser(t, "9000000004", "REF00004", "", 500)
	joiner := createTestUser(t, "9000000005", "REF00005", "", 500)

	room := createLiveRoom(t, svc, creator, joiner, 100)

	assert.Equal(t, models.RoomStatusLive, room.Status)
	assert.NotNil(t, room.GameStartedAt)
	assert.Equal(t, int64(200), room.TotalPrizePool)

	assert.Equal(t, int64(400), walletOf(t, creator.ID).TotalBalance)
	assert.Equal(t, int64(400), walletOf(t, joiner.ID).TotalBalance)
}

func TestJoinRoomFull(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := newTestRoomService()
	creator := createTestUser(t, "9000000006", "REF00006", "", 500)
	joiner := createTestUser(t, "9000000007", "REF00007", "", 500)
	third := createTestUser(t, "9000000008", "REF00008", "", 500)

	room := createLiveRoom(t, svc, creator, joiner, 100)

	_, err := svc.JoinRoom(third.ID, room.RoomId, "third_ludo")
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Equal(t, int64(500), walletOf(t, third.ID).TotalBalance)
}

func TestRejectJoinRefunds(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := newTestRoomService()
	creator := createTestUser(t, "9000000009", "REF00009", "", 500)
	joiner := createTestUser(t, "9000000010", "REF00010", "", 500)

	room, err := svc.CreateRoom(creator.ID, 100, "creator_ludo")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, err := svc.JoinRoom(joiner.ID, room.RoomId, "joiner_ludo"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}

	room, err = svc.HandleJoinRequest(creator.ID, room.RoomId, joiner.ID, "reject")
	if err != nil {
		t.Fatalf("HandleJoinRequest: %v", err)
	}

	assert.Len(t, room.Players, 1)
	assert.Equal(t, int64(100), room.TotalPrizePool)
	assert.Equal(t, int64(500), walletOf(t, joiner.ID).TotalBalance)
}

func TestHandleJoinRequestCreatorOnly(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := newTestRoomService()
	creator := createTestUser(t, "9000000011", "REF00011", "", 500)
	joiner := createTestUser(t, "9000000012", "REF00012", "", 500)

	room, err := svc.CreateRoom(creator.ID, 100, "creator_ludo")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, err := svc.JoinRoom(joiner.ID, room.RoomId, "joiner_ludo"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}

	_, err = svc.HandleJoinRequest(joiner.ID, room.RoomId, joiner.ID, "approve")
	assert.ErrorIs(t, err, ErrNotRoomCreator)
}

func TestRoomCodeAsymmetry(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := newTestRoomService()
	creator := createTestUser(t, "9000000013", "REF00013", "", 500)
	joiner := createTestUser(t, "9000000014", "REF00014", "", 500)

	room := createLiveRoom(t, svc, creator, joiner, 100)

	assert.NoError(t, svc.SetRoomCodeByCreator(creator.ID, room.RoomId, "11112222"))
	// creator may overwrite a mistyped code
	assert.NoError(t, svc.SetRoomCodeByCreator(creator.ID, room.RoomId, "33334444"))
	// admin path refuses once a code exists
	assert.ErrorIs(t, svc.SetRoomCodeByAdmin(room.RoomId, "55556666"), ErrRoomCodeSet)

	got, err := svc.GetRoomCode(joiner.ID, room.RoomId)
	if err != nil {
		t.Fatalf("GetRoomCode: %v", err)
	}
	assert.Equal(t, "33334444", got.LudoRoomCode)
}

func TestGetRoomCodeBeforeSet(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := newTestRoomService()
	creator := createTestUser(t, "9000000015", "REF00015", "", 500)
	joiner := createTestUser(t, "9000000016", "REF00016", "", 500)

	room := createLiveRoom(t, svc, creator, joiner, 100)

	_, err := svc.GetRoomCode(joiner.ID, room.RoomId)
	assert.ErrorIs(t, err, ErrRoomCodeMissing)
}

func TestCancelRoomRefundsBoth(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := newTestRoomService()
	creator := createTestUser(t, "9000000017", "REF00017", "", 500)
	joiner := createTestUser(t, "9000000018", "REF00018", "", 500)

	room := createLiveRoom(t, svc, creator, joiner, 100)

	refund, err := svc.CancelRoom(joiner.ID, room.RoomId)
	if err != nil {
		t.Fatalf("CancelRoom: %v", err)
	}
	assert.Equal(t, int64(100), refund)

	assert.Equal(t, int64(500), walletOf(t, creator.ID).TotalBalance)
	assert.Equal(t, int64(500), walletOf(t, joiner.ID).TotalBalance)

	_, err = svc.FindRoom(room.RoomId)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestMutualCancellation(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := newTestRoomService()
	creator := createTestUser(t, "9000000019", "REF00019", "", 500)
	joiner := createTestUser(t, "9000000020", "REF00020", "", 500)

	room := createLiveRoom(t, svc, creator, joiner, 100)

	cancelled, err := svc.RequestMutualCancellation(creator.ID, room.RoomId)
	assert.NoError(t, err)
	assert.False(t, cancelled)

	// repeating the request is a no-op
	cancelled, err = svc.RequestMutualCancellation(creator.ID, room.RoomId)
	assert.NoError(t, err)
	assert.False(t, cancelled)

	cancelled, err = svc.RequestMutualCancellation(joiner.ID, room.RoomId)
	assert.NoError(t, err)
	assert.True(t, cancelled)

	assert.Equal(t, int64(500), walletOf(t, creator.ID).TotalBalance)
	assert.Equal(t, int64(500), walletOf(t, joiner.ID).TotalBalance)
}

func TestCancelRoomNonPlayer(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := newTestRoomService()
	creator := createTestUser(t, "9000000021", "REF00021", "", 500)
	joiner := createTestUser(t, "9000000022", "REF00022", "", 500)
	outsider := createTestUser(t, "9000000023", "REF00023", "", 500)

	room := createLiveRoom(t, svc, creator, joiner, 100)

	_, err := svc.CancelRoom(outsider.ID, room.RoomId)
	assert.ErrorIs(t, err, ErrNotRoomPlayer)
}
