package common

import (
	"strings"
	"testing"
)

func TestGenerateRoomCode(t *testing.T) {
	code := GenerateRoomCode()
	if !strings.HasPrefix(code, "ROOM") {
		t.Errorf("Expected ROOM prefix, got %s", code)
	}
	if len(code) != 12 {
		t.Errorf("Expected length 12, got %d", len(code))
	}
}

func TestGenerateTrxNoUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		no := GenerateTrxNo()
		if seen[no] {
			t.Fatalf("Duplicate transaction number %s", no)
		}
		seen[no] = true
	}
}

func TestGenerateOTP(t *testing.T) {
	otp := GenerateOTP()
	if len(otp) != 6 {
		t.Errorf("Expected 6 digits, got %d", len(otp))
	}
	for _, ch := range otp {
		if ch < '0' || ch > '9' {
			t.Errorf("Non-digit character %q in OTP %s", ch, otp)
		}
	}
}

func TestNormalizePage(t *testing.T) {
	page, limit, offset := NormalizePage(0, 0, 10)
	if page != 1 || limit != 10 || offset != 0 {
		t.Errorf("Defaults wrong: page=%d limit=%d offset=%d", page, limit, offset)
	}

	page, limit, offset = NormalizePage(3, 20, 10)
	if page != 3 || limit != 20 || offset != 40 {
		t.Errorf("Got page=%d limit=%d offset=%d", page, limit, offset)
	}
}
