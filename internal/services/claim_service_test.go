package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ludo-service/internal/models"
)

func newTestClaimService() (*RoomService, *ClaimService) {
	wallet := NewWalletService(testDB)
	return NewRoomService(testDB, wallet), NewClaimService(testDB, wallet)
}

var fakeScreenshot = []byte("png-bytes")

func TestClaimWinThenLossSettles(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	rooms, claims := newTestClaimService()
	creator := createTestUser(t, "9100000001", "REF10001", "", 500)
	joiner := createTestUser(t, "9100000002", "REF10002", "", 500)

	room := createLiveRoom(t, rooms, creator, joiner, 100)

	outcome, err := claims.ClaimResult(creator.ID, room.RoomId, models.ClaimTypeWin, "creator_ludo", fakeScreenshot, "image/png")
	if err != nil {
		t.Fatalf("win claim: %v", err)
	}
	assert.Equal(t, models.DisputeStatusSingleClaim, outcome.DisputeStatus)

	outcome, err = claims.ClaimResult(joiner.ID, room.RoomId, models.ClaimTypeLoss, "joiner_ludo", nil, "")
	if err != nil {
		t.Fatalf("loss claim: %v", err)
	}
	assert.Equal(t, models.RoomStatusFinished, outcome.RoomStatus)
	assert.Equal(t, creator.ID, *outcome.WinnerUserId)
	assert.Equal(t, int64(190), outcome.AmountWon)

	// 400 held + 190 winnings
	wallet := walletOf(t, creator.ID)
	assert.Equal(t, int64(590), wallet.TotalBalance)
	assert.Equal(t, int64(190), wallet.WinningBalance)
	assert.Equal(t, int64(400), walletOf(t, joiner.ID).TotalBalance)
}

func TestSingleLossForfeitsToOpponent(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	rooms, claims := newTestClaimService()
	creator := createTestUser(t, "9100000003", "REF10003", "", 500)
	joiner := createTestUser(t, "9100000004", "REF10004", "", 500)

	room := createLiveRoom(t, rooms, creator, joiner, 100)

	outcome, err := claims.ClaimResult(joiner.ID, room.RoomId, models.ClaimTypeLoss, "joiner_ludo", nil, "")
	if err != nil {
		t.Fatalf("loss claim: %v", err)
	}
	assert.Equal(t, models.RoomStatusFinished, outcome.RoomStatus)
	assert.Equal(t, creator.ID, *outcome.WinnerUserId)
	assert.Equal(t, int64(190), walletOf(t, creator.ID).WinningBalance)
}

func TestBothClaimWinDisputes(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	rooms, claims := newTestClaimService()
	creator := createTestUser(t, "9100000005", "REF10005", "", 500)
	joiner := createTestUser(t, "9100000006", "REF10006", "", 500)

	room := createLiveRoom(t, rooms, creator, joiner, 100)

	if _, err := claims.ClaimResult(creator.ID, room.RoomId, models.ClaimTypeWin, "creator_ludo", fakeScreenshot, "image/png"); err != nil {
		t.Fatalf("first win claim: %v", err)
	}
	outcome, err := claims.ClaimResult(joiner.ID, room.RoomId, models.ClaimTypeWin, "joiner_ludo", fakeScreenshot, "image/png")
	if err != nil {
		t.Fatalf("second win claim: %v", err)
	}

	assert.Equal(t, models.RoomStatusEnded, outcome.RoomStatus)
	assert.Equal(t, models.DisputeStatusDisputed, outcome.DisputeStatus)

	// nobody paid until the admin resolves
	assert.Equal(t, int64(400), walletOf(t, creator.ID).TotalBalance)
	assert.Equal(t, int64(400), walletOf(t, joiner.ID).TotalBalance)
}

func TestDoubleLossForfeitsPool(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	rooms, claims := newTestClaimService()
	creator := createTestUser(t, "9100000007", "REF10007", "", 500)
	joiner := createTestUser(t, "9100000008", "REF10008", "", 500)

	room := createLiveRoom(t, rooms, creator, joiner, 100)

	// a lone loss claim settles immediately, so seed the first one directly
	// to exercise the concurrent double-loss state
	testDB.Create(&models.RoomClaim{
		RoomId:    room.RoomId,
		ClaimedBy: creator.ID,
		ClaimType: models.ClaimTypeLoss,
		Status:    models.ClaimStatusPending,
	})

	outcome, err := claims.ClaimResult(joiner.ID, room.RoomId, models.ClaimTypeLoss, "joiner_ludo", nil, "")
	if err != nil {
		t.Fatalf("second loss claim: %v", err)
	}
	assert.Equal(t, models.RoomStatusFinished, outcome.RoomStatus)
	assert.Nil(t, outcome.WinnerUserId)

	// stakes stay forfeited
	assert.Equal(t, int64(400), walletOf(t, creator.ID).TotalBalance)
	assert.Equal(t, int64(400), walletOf(t, joiner.ID).TotalBalance)

	// both concession claims end up rejected in the audit record
	var roomClaims []models.RoomClaim
	if err := testDB.Where("room_id = ?", room.RoomId).Find(&roomClaims).Error; err != nil {
		t.Fatalf("load claims: %v", err)
	}
	assert.Len(t, roomClaims, 2)
	for _, c := range roomClaims {
		assert.Equal(t, models.ClaimStatusRejected, c.Status)
		assert.NotNil(t, c.VerifiedAt)
	}
}

func TestClaimValidation(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	rooms, claims := newTestClaimService()
	creator := createTestUser(t, "9100000009", "REF10009", "", 500)
	joiner := createTestUser(t, "9100000010", "REF10010", "", 500)
	outsider := createTestUser(t, "9100000011", "REF10011", "", 500)

	room, err := rooms.CreateRoom(creator.ID, 100, "creator_ludo")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	// pending room: nothing to claim yet
	_, err = claims.ClaimResult(creator.ID, room.RoomId, models.ClaimTypeWin, "creator_ludo", fakeScreenshot, "image/png")
	assert.ErrorIs(t, err, ErrGameNotStarted)

	if _, err := rooms.JoinRoom(joiner.ID, room.RoomId, "joiner_ludo"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if _, err := rooms.HandleJoinRequest(creator.ID, room.RoomId, joiner.ID, "approve"); err != nil {
		t.Fatalf("HandleJoinRequest: %v", err)
	}

	// win without screenshot
	_, err = claims.ClaimResult(creator.ID, room.RoomId, models.ClaimTypeWin, "creator_ludo", nil, "")
	assert.ErrorIs(t, err, ErrScreenshotRequired)

	// non-player
	_, err = claims.ClaimResult(outsider.ID, room.RoomId, models.ClaimTypeWin, "x", fakeScreenshot, "image/png")
	assert.ErrorIs(t, err, ErrNotRoomPlayer)

	// duplicate claim
	if _, err := claims.ClaimResult(creator.ID, room.RoomId, models.ClaimTypeWin, "creator_ludo", fakeScreenshot, "image/png"); err != nil {
		t.Fatalf("win claim: %v", err)
	}
	_, err = claims.ClaimResult(creator.ID, room.RoomId, models.ClaimTypeLoss, "creator_ludo", nil, "")
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
}

func TestReferralBonusCarvedFromHouse(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	rooms, claims := newTestClaimService()
	referrer := createTestUser(t, "9100000012", "REF10012", "", 0)
	creator := createTestUser(t, "9100000013", "REF10013", "REF10012", 500)
	joiner := createTestUser(t, "9100000014", "REF10014", "", 500)

	room := createLiveRoom(t, rooms, creator, joiner, 100)

	if _, err := claims.ClaimResult(creator.ID, room.RoomId, models.ClaimTypeWin, "creator_ludo", fakeScreenshot, "image/png"); err != nil {
		t.Fatalf("win claim: %v", err)
	}
	if _, err := claims.ClaimResult(joiner.ID, room.RoomId, models.ClaimTypeLoss, "joiner_ludo", nil, ""); err != nil {
		t.Fatalf("loss claim: %v", err)
	}

	// winner still gets the full 95%; the 2% bonus comes out of the house cut
	assert.Equal(t, int64(190), walletOf(t, creator.ID).WinningBalance)
	assert.Equal(t, int64(4), walletOf(t, referrer.ID).WinningBalance)

	var settled models.Room
	if err := testDB.Where("room_id = ?", room.RoomId).First(&settled).Error; err != nil {
		t.Fatalf("load room: %v", err)
	}
	assert.Equal(t, int64(6), settled.ServiceCharge)
}

func TestResolveDisputePaysChosenWinner(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	rooms, claims := newTestClaimService()
	creator := createTestUser(t, "9100000015", "REF10015", "", 500)
	joiner := createTestUser(t, "9100000016", "REF10016", "", 500)
	admin := createTestUser(t, "9100000017", "REF10017", "", 0)

	room := createLiveRoom(t, rooms, creator, joiner, 100)

	claims.ClaimResult(creator.ID, room.RoomId, models.ClaimTypeWin, "creator_ludo", fakeScreenshot, "image/png")
	claims.ClaimResult(joiner.ID, room.RoomId, models.ClaimTypeWin, "joiner_ludo", fakeScreenshot, "image/png")

	// winner must have a win claim
	_, err := claims.ResolveDispute(admin.ID, room.RoomId, admin.ID, "")
	assert.ErrorIs(t, err, ErrWinnerNotPlayer)

	outcome, err := claims.ResolveDispute(admin.ID, room.RoomId, joiner.ID, "screenshot checks out")
	if err != nil {
		t.Fatalf("ResolveDispute: %v", err)
	}
	assert.Equal(t, joiner.ID, *outcome.WinnerUserId)
	assert.Equal(t, int64(190), walletOf(t, joiner.ID).WinningBalance)

	// settled rooms cannot be re-resolved
	_, err = claims.ResolveDispute(admin.ID, room.RoomId, creator.ID, "")
	assert.ErrorIs(t, err, ErrWinnerAlreadySet)

	var losing models.RoomClaim
	if err := testDB.Where("room_id = ? AND claimed_by = ?", room.RoomId, creator.ID).First(&losing).Error; err != nil {
		t.Fatalf("load losing claim: %v", err)
	}
	assert.Equal(t, models.ClaimStatusRejected, losing.Status)
}

func TestResolveDisputeRequiresWinClaim(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	rooms, claims := newTestClaimService()
	creator := createTestUser(t, "9100000027", "REF10027", "", 500)
	joiner := createTestUser(t, "9100000028", "REF10028", "", 500)
	admin := createTestUser(t, "9100000029", "REF10029", "", 0)

	room := createLiveRoom(t, rooms, creator, joiner, 100)

	// only the creator has a win claim on file
	if _, err := claims.ClaimResult(creator.ID, room.RoomId, models.ClaimTypeWin, "creator_ludo", fakeScreenshot, "image/png"); err != nil {
		t.Fatalf("win claim: %v", err)
	}

	// the joiner is seated but never claimed win; the admin cannot crown them
	_, err := claims.ResolveDispute(admin.ID, room.RoomId, joiner.ID, "")
	assert.ErrorIs(t, err, ErrInvalidWinner)

	// the claimed player remains a valid choice
	outcome, err := claims.ResolveDispute(admin.ID, room.RoomId, creator.ID, "")
	if err != nil {
		t.Fatalf("ResolveDispute: %v", err)
	}
	assert.Equal(t, creator.ID, *outcome.WinnerUserId)
}

func TestDeclareWinnerWithoutClaims(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	rooms, claims := newTestClaimService()
	creator := createTestUser(t, "9100000018", "REF10018", "", 500)
	joiner := createTestUser(t, "9100000019", "REF10019", "", 500)
	admin := createTestUser(t, "9100000020", "REF10020", "", 0)

	room := createLiveRoom(t, rooms, creator, joiner, 100)

	outcome, err := claims.DeclareWinner(admin.ID, room.RoomId, joiner.ID, "support ticket 4821")
	if err != nil {
		t.Fatalf("DeclareWinner: %v", err)
	}
	assert.Equal(t, joiner.ID, *outcome.WinnerUserId)
	assert.Equal(t, int64(190), walletOf(t, joiner.ID).WinningBalance)
}

func TestDeclareWinnerOnlyWhileLive(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	rooms, claims := newTestClaimService()
	creator := createTestUser(t, "9100000024", "REF10024", "", 500)
	joiner := createTestUser(t, "9100000025", "REF10025", "", 500)
	admin := createTestUser(t, "9100000026", "REF10026", "", 0)

	room := createLiveRoom(t, rooms, creator, joiner, 100)

	claims.ClaimResult(creator.ID, room.RoomId, models.ClaimTypeWin, "creator_ludo", fakeScreenshot, "image/png")
	claims.ClaimResult(joiner.ID, room.RoomId, models.ClaimTypeWin, "joiner_ludo", fakeScreenshot, "image/png")

	// the room is ended and disputed; only ResolveDispute may settle it
	_, err := claims.DeclareWinner(admin.ID, room.RoomId, joiner.ID, "")
	assert.ErrorIs(t, err, ErrRoomNotLive)
}

func TestCheckResult(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	rooms, claims := newTestClaimService()
	creator := createTestUser(t, "9100000021", "REF10021", "", 500)
	joiner := createTestUser(t, "9100000022", "REF10022", "", 500)

	outsider := createTestUser(t, "9100000023", "REF10023", "", 0)

	room := createLiveRoom(t, rooms, creator, joiner, 100)

	_, err := claims.CheckResult(creator.ID, room.RoomId)
	assert.ErrorIs(t, err, ErrResultNotReady)

	// only seated players may poll the result
	_, err = claims.CheckResult(outsider.ID, room.RoomId)
	assert.ErrorIs(t, err, ErrNotRoomPlayer)

	claims.ClaimResult(creator.ID, room.RoomId, models.ClaimTypeWin, "creator_ludo", fakeScreenshot, "image/png")
	claims.ClaimResult(joiner.ID, room.RoomId, models.ClaimTypeLoss, "joiner_ludo", nil, "")

	result, err := claims.CheckResult(joiner.ID, room.RoomId)
	if err != nil {
		t.Fatalf("CheckResult: %v", err)
	}
	assert.Equal(t, models.RoomStatusFinished, result.RoomStatus)
	assert.Equal(t, creator.ID, *result.WinnerUserId)
	assert.Equal(t, int64(190), result.NetAmount)
}
