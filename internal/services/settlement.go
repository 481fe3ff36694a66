package services

// Settlement splits a prize pool between the winner, the winner's referrer and
// the house. All percentages truncate (integer division), so the split is
// reproducible to the unit: NetWinning + ReferralBonus + ServiceCharge always
// equals Pool.
type Settlement struct {
	Pool          int64
	NetWinning    int64
	ReferralBonus int64
	ServiceCharge int64
}

// ComputeSettlement gives the winner 95% of the pool. When the winner was
// referred, 2% goes to the referrer and the referral cost comes out of the
// house's share, never the winner's.
func ComputeSettlement(pool int64, referred bool) Settlement {
	net := pool * 95 / 100
	var bonus int64
	if referred {
		bonus = pool * 2 / 100
	}
	return Settlement{
		Pool:          pool,
		NetWinning:    net,
		ReferralBonus: bonus,
		ServiceCharge: pool - net - bonus,
	}
}

// ClaimVerdict is the outcome of inspecting the full claim set for a room.
type ClaimVerdict int

const (
	// VerdictAwaitOpponent: one win claim filed, opponent yet to respond.
	VerdictAwaitOpponent ClaimVerdict = iota
	// VerdictWinnerByForfeit: one loss claim filed, the other player wins.
	VerdictWinnerByForfeit
	// VerdictClearWinner: win + loss, the win-claimant wins.
	VerdictClearWinner
	// VerdictDisputed: both claimed win, admin must resolve.
	VerdictDisputed
	// VerdictDoubleForfeit: both claimed loss, nobody is paid.
	VerdictDoubleForfeit
	// VerdictInvalid: a claim set the two-player cap should make impossible.
	VerdictInvalid
)

// ResolveClaims maps the claim-set composition onto a verdict. The five valid
// combinations are enumerated; anything else (three or more claims) is
// rejected rather than assumed unreachable.
func ResolveClaims(winClaims, lossClaims int) ClaimVerdict {
	switch {
	case winClaims == 1 && lossClaims == 0:
		return VerdictAwaitOpponent
	case winClaims == 0 && lossClaims == 1:
		return VerdictWinnerByForfeit
	case winClaims == 1 && lossClaims == 1:
		return VerdictClearWinner
	case winClaims == 2 && lossClaims == 0:
		return VerdictDisputed
	case winClaims == 0 && lossClaims == 2:
		return VerdictDoubleForfeit
	default:
		return VerdictInvalid
	}
}
