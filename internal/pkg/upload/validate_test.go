package upload

import (
	"strings"
	"testing"
)

// Minimal PNG header bytes
var pngHead = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestValidateImageBySniff_AcceptsPNG(t *testing.T) {
	mime, err := ValidateImageBySniff("floorplan.png", pngHead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("expected image/png, got %s", mime)
	}
}

func TestValidateImageBySniff_RejectsBadExtension(t *testing.T) {
	if _, err := ValidateImageBySniff("exploit.svg", pngHead); err == nil {
		t.Fatalf("expected svg extension to be rejected")
	}
	if _, err := ValidateImageBySniff("report.pdf", pngHead); err == nil {
		t.Fatalf("expected pdf extension to be rejected for images")
	}
}

func TestValidateImageBySniff_RejectsHTMLContent(t *testing.T) {
	if _, err := ValidateImageBySniff("image.png", []byte("<html><body>x</body></html>")); err == nil {
		t.Fatalf("expected html content to be rejected")
	}
}

func TestValidateDocument_AcceptsPDF(t *testing.T) {
	if _, err := ValidateDocument("prospectus.pdf", []byte("%PDF-1.7 ...")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDocument_RejectsUnknownExtension(t *testing.T) {
	if _, err := ValidateDocument("script.exe", []byte{0x4D, 0x5A}); err == nil {
		t.Fatalf("expected exe to be rejected")
	}
}

func TestValidateDocument_RejectsHTML(t *testing.T) {
	if _, err := ValidateDocument("contract.pdf", []byte(strings.Repeat("<html>", 10))); err == nil {
		t.Fatalf("expected html content to be rejected")
	}
}
