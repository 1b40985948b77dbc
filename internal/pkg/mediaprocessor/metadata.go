package mediaprocessor

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"github.com/immofund/ImmoFund/app/models"
)

func init() {
	// Register Nikon and Canon maker notes
	exif.RegisterParsers(mknote.All...)
}

// ExtractMetadata extracts EXIF capture metadata from a photo file
func ExtractMetadata(image *models.ProjectImage, filePath string) error {
	// Open the image file
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("error opening image file: %w", err)
	}
	defer f.Close()

	// Try to decode EXIF data
	x, err := exif.Decode(f)
	if err != nil {
		// Many listing photos don't carry EXIF data, this is not a critical error
		log.Info(fmt.Sprintf("No EXIF data found for photo %s: %v", image.UUID, err))
		return nil
	}

	// 1. Camera Model (strip quotes)
	if m, err := x.Get(exif.Model); err == nil {
		s := strings.Trim(m.String(), `"`)
		trimmed := strings.TrimSpace(s)
		image.CameraModel = &trimmed
	}

	// 2. Date and Time
	if dt, err := x.DateTime(); err == nil {
		image.TakenAt = &dt
	}

	// 3. GPS Coordinates
	if lat, long, err := x.LatLong(); err == nil {
		image.Latitude = &lat
		image.Longitude = &long
	}

	return nil
}
