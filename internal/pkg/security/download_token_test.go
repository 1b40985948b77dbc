package security

import (
	"testing"
	"time"
)

func TestDownloadTokenRoundTrip(t *testing.T) {
	token, err := GenerateDownloadToken(42, "abc-123", time.Minute, "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := VerifyDownloadToken(token, "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 42 || claims.DocumentID != "abc-123" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestDownloadTokenWrongSecret(t *testing.T) {
	token, err := GenerateDownloadToken(42, "abc-123", time.Minute, "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := VerifyDownloadToken(token, "other"); err == nil {
		t.Fatalf("expected verification to fail with wrong secret")
	}
}

func TestDownloadTokenExpired(t *testing.T) {
	token, err := GenerateDownloadToken(42, "abc-123", -time.Minute, "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := VerifyDownloadToken(token, "s3cret"); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestDownloadTokenMalformed(t *testing.T) {
	for _, token := range []string{"", "nodot", "bad.!!", "!!.bad"} {
		if _, err := VerifyDownloadToken(token, "s3cret"); err == nil {
			t.Fatalf("expected malformed token %q to be rejected", token)
		}
	}
}

func TestDownloadTokenRequiresSecret(t *testing.T) {
	if _, err := GenerateDownloadToken(1, "x", time.Minute, ""); err == nil {
		t.Fatalf("expected generation without secret to fail")
	}
	if _, err := VerifyDownloadToken("a.b", ""); err == nil {
		t.Fatalf("expected verification without secret to fail")
	}
}
