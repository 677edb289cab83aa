package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newClockedService(t *testing.T, accessTTL, refreshTTL time.Duration) (*TokenService, *time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc, err := NewTokenService(testSecret, accessTTL, refreshTTL, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc, &now
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc, _ := newClockedService(t, 15*time.Minute, 7*24*time.Hour)

	token, err := svc.Issue(42, "alice", "a@x.com", TokenAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.ID != 42 || claims.Username != "alice" || claims.Email != "a@x.com" {
		t.Fatalf("claims not recovered: %+v", claims)
	}
	if claims.RegisteredClaims.ID == "" {
		t.Fatalf("expected a jti claim")
	}
}

func TestVerifyExpiredAccessToken(t *testing.T) {
	svc, now := newClockedService(t, 15*time.Minute, 7*24*time.Hour)

	token, err := svc.Issue(42, "alice", "a@x.com", TokenAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	*now = now.Add(16 * time.Minute)
	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestRefreshTokenOutlivesAccessToken(t *testing.T) {
	svc, now := newClockedService(t, 15*time.Minute, 7*24*time.Hour)

	refresh, err := svc.Issue(42, "alice", "a@x.com", TokenRefresh)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	*now = now.Add(24 * time.Hour)
	if _, err := svc.Verify(refresh); err != nil {
		t.Fatalf("refresh token must still verify after access TTL: %v", err)
	}

	*now = now.Add(7 * 24 * time.Hour)
	if _, err := svc.Verify(refresh); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc, _ := newClockedService(t, 15*time.Minute, time.Hour)

	token, err := svc.Issue(42, "alice", "a@x.com", TokenAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.Verify(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	if _, err := svc.Verify("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for malformed input, got %v", err)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	svc, _ := newClockedService(t, 15*time.Minute, time.Hour)
	other, err := NewTokenService(strings.Repeat("z", 32), 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := other.Issue(42, "alice", "a@x.com", TokenAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestNewTokenServiceValidation(t *testing.T) {
	if _, err := NewTokenService("", time.Minute, time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokenService(testSecret, 0, time.Hour); err == nil {
		t.Fatalf("expected error for non-positive access TTL")
	}
}
