package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)

func TestNewVoucherCodeFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := NewVoucherCode()
		if err != nil {
			t.Fatalf("NewVoucherCode failed: %v", err)
		}
		if !codePattern.MatchString(code) {
			t.Fatalf("Code %q is not 8 alphanumeric characters", code)
		}
		seen[code] = true
	}
	if len(seen) < 190 {
		t.Errorf("Expected codes to be effectively unique, got %d distinct of 200", len(seen))
	}
}

func TestCheckAndIssueThresholdCrossings(t *testing.T) {
	tests := []struct {
		before, after int64
		want          int
	}{
		{90, 100, 1},
		{100, 100, 0},
		{50, 600, 2},
		{600, 600, 0},
		{99, 499, 1},
		{100, 101, 0},
		{499, 500, 1},
		{600, 0, 0},
		{0, 99, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d->%d", tt.before, tt.after), func(t *testing.T) {
			s := seededStore(t)
			engine := NewVoucherEngine(s, 30*24*time.Hour, 4, fixedClock)

			n, err := engine.CheckAndIssue(context.Background(), userAna, tt.before, tt.after)
			if err != nil {
				t.Fatalf("CheckAndIssue failed: %v", err)
			}
			if n != tt.want {
				t.Errorf("Expected %d voucher(s), got %d", tt.want, n)
			}
			if len(s.st.vouchers) != tt.want {
				t.Errorf("Expected %d stored voucher(s), got %d", tt.want, len(s.st.vouchers))
			}
		})
	}
}

func TestIssuedVouchersStartUnredeemedWithExpiry(t *testing.T) {
	s := seededStore(t)
	validity := 30 * 24 * time.Hour
	engine := NewVoucherEngine(s, validity, 4, fixedClock)

	issued, err := engine.issue(context.Background(), userAna, 0, 500)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if len(issued) != 2 {
		t.Fatalf("Expected 2 vouchers, got %d", len(issued))
	}
	if issued[0].VoucherType.ThresholdPoints != 100 || issued[1].VoucherType.ThresholdPoints != 500 {
		t.Errorf("Expected vouchers in threshold order, got %d then %d",
			issued[0].VoucherType.ThresholdPoints, issued[1].VoucherType.ThresholdPoints)
	}
	for _, v := range issued {
		if v.Redeemed || v.RedeemedAt != nil {
			t.Errorf("Voucher %s should start unredeemed", v.UniqueCode)
		}
		if !v.ExpiresAt.Equal(testNow.Add(validity)) {
			t.Errorf("Expected expiry %v, got %v", testNow.Add(validity), v.ExpiresAt)
		}
		if !codePattern.MatchString(v.UniqueCode) {
			t.Errorf("Bad code %q", v.UniqueCode)
		}
	}
	if issued[0].UniqueCode == issued[1].UniqueCode {
		t.Errorf("Codes must differ")
	}
}

func TestCodeCollisionIsRetried(t *testing.T) {
	s := seededStore(t)
	s.collisions = 2
	engine := NewVoucherEngine(s, time.Hour, 4, fixedClock)
	calls := 0
	engine.newCode = func() (string, error) {
		calls++
		return fmt.Sprintf("CODE%04d", calls), nil
	}

	n, err := engine.CheckAndIssue(context.Background(), userAna, 0, 100)
	if err != nil {
		t.Fatalf("CheckAndIssue failed: %v", err)
	}
	if n != 1 || calls != 3 {
		t.Errorf("Expected 1 voucher after 3 draws, got %d after %d", n, calls)
	}
	if _, ok, _ := s.Vouchers().FindByCode(context.Background(), "CODE0003"); !ok {
		t.Errorf("Expected the third code to be stored")
	}
}

func TestCodeCollisionExhaustion(t *testing.T) {
	s := seededStore(t)
	s.collisions = 100
	engine := NewVoucherEngine(s, time.Hour, 3, fixedClock)
	calls := 0
	engine.newCode = func() (string, error) {
		calls++
		return "SAMECODE", nil
	}

	_, err := engine.CheckAndIssue(context.Background(), userAna, 0, 100)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict after exhausting attempts, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
}

func TestStorageErrorIsNotRetried(t *testing.T) {
	s := seededStore(t)
	s.fail["vouchers.insert"] = errInjected
	engine := NewVoucherEngine(s, time.Hour, 5, fixedClock)
	calls := 0
	engine.newCode = func() (string, error) {
		calls++
		return "ABCDEFGH", nil
	}

	_, err := engine.CheckAndIssue(context.Background(), userAna, 0, 100)
	if !errors.Is(err, ErrStorage) {
		t.Errorf("Expected ErrStorage, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected a single attempt, got %d", calls)
	}
}
