package common

import (
	"crypto/rand"
	"math/big"
)

const codeCharacters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomCode(length int) string {
	result := make([]byte, length)
	max := big.NewInt(int64(len(codeCharacters)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			result[i] = codeCharacters[0]
			continue
		}
		result[i] = codeCharacters[n.Int64()]
	}
	return string(result)
}

// GenerateRoomCode returns a candidate room id. Uniqueness is the caller's
// problem: the room service re-rolls until the code is unused.
func GenerateRoomCode() string {
	return "ROOM" + randomCode(8)
}

// GenerateReferCode returns an 8-character referral code.
func GenerateReferCode() string {
	return randomCode(8)
}

// GenerateTrxNo returns a 7-character transaction reference.
func GenerateTrxNo() string {
	return randomCode(7)
}

// GenerateOTP returns a 6-digit one-time password.
func GenerateOTP() string {
	digits := make([]byte, 6)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			digits[i] = '0'
			continue
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits)
}
