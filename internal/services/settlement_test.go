package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSettlement(t *testing.T) {
	st := ComputeSettlement(200, false)
	assert.Equal(t, int64(190), st.NetWinning)
	assert.Equal(t, int64(0), st.ReferralBonus)
	assert.Equal(t, int64(10), st.ServiceCharge)

	st = ComputeSettlement(200, true)
	assert.Equal(t, int64(190), st.NetWinning)
	assert.Equal(t, int64(4), st.ReferralBonus)
	assert.Equal(t, int64(6), st.ServiceCharge)
}

func TestComputeSettlementTruncates(t *testing.T) {
	// pools that don't divide evenly still floor, never round up
	st := ComputeSettlement(101, true)
	assert.Equal(t, int64(95), st.NetWinning)
	assert.Equal(t, int64(2), st.ReferralBonus)
	assert.Equal(t, int64(4), st.ServiceCharge)
}

func TestComputeSettlementConservation(t *testing.T) {
	for pool := int64(1); pool <= 5000; pool++ {
		for _, referred := range []bool{false, true} {
			st := ComputeSettlement(pool, referred)
			sum := st.NetWinning + st.ReferralBonus + st.ServiceCharge
			if sum != pool {
				t.Fatalf("pool %d referred=%v: split sums to %d", pool, referred, sum)
			}
			if st.NetWinning < 0 || st.ReferralBonus < 0 || st.ServiceCharge < 0 {
				t.Fatalf("pool %d referred=%v: negative component %+v", pool, referred, st)
			}
		}
	}
}

func TestResolveClaims(t *testing.T) {
	cases := []struct {
		wins, losses int
		want         ClaimVerdict
	}{
		{1, 0, VerdictAwaitOpponent},
		{0, 1, VerdictWinnerByForfeit},
		{1, 1, VerdictClearWinner},
		{2, 0, VerdictDisputed},
		{0, 2, VerdictDoubleForfeit},
		{0, 0, VerdictInvalid},
		{2, 1, VerdictInvalid},
		{1, 2, VerdictInvalid},
		{3, 0, VerdictInvalid},
	}
	for _, tc := range cases {
		got := ResolveClaims(tc.wins, tc.losses)
		assert.Equal(t, tc.want, got, "wins=%d losses=%d", tc.wins, tc.losses)
	}
}
