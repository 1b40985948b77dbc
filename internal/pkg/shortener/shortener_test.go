package shortener

import (
	"strings"
	"testing"
)

func TestGenerateSecureSlug_InvalidLength(t *testing.T) {
	t.Parallel()

	if _, err := GenerateSecureSlug(0); err == nil {
		t.Fatalf("expected error for invalid length")
	}
}

func TestGenerateSecureSlug_LengthAndAlphabet(t *testing.T) {
	t.Parallel()

	slug, err := GenerateSecureSlug(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slug) != 10 {
		t.Fatalf("expected slug length 10, got %d", len(slug))
	}

	for i := 0; i < len(slug); i++ {
		if strings.IndexByte(alphabet, slug[i]) == -1 {
			t.Fatalf("slug contains invalid character %q", slug[i])
		}
	}
}

func TestGenerateSecureSlug_UniqueWithinSmallBatch(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		slug, err := GenerateSecureSlug(10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, exists := seen[slug]; exists {
			t.Fatalf("duplicate slug generated in small batch: %s", slug)
		}
		seen[slug] = struct{}{}
	}
}

func TestEncodeID(t *testing.T) {
	t.Parallel()

	cases := map[uint]string{
		0:  "0",
		1:  "1",
		61: "Z",
		62: "10",
	}
	for id, want := range cases {
		if got := EncodeID(id); got != want {
			t.Errorf("EncodeID(%d) = %q, want %q", id, got, want)
		}
	}
}

func TestDecodeID_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, id := range []uint{0, 1, 61, 62, 12345, 987654321} {
		if got := DecodeID(EncodeID(id)); got != id {
			t.Errorf("round trip for %d returned %d", id, got)
		}
	}
}

func TestDecodeID_IgnoresInvalidCharacters(t *testing.T) {
	t.Parallel()

	if got, want := DecodeID("1-0"), DecodeID("10"); got != want {
		t.Errorf("expected invalid characters to be skipped, got %d want %d", got, want)
	}
}
