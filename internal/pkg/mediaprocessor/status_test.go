package mediaprocessor_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/internal/pkg/mediaprocessor"
)

func TestIsPhotoProcessingFailed(t *testing.T) {
	originalGet := mediaprocessor.GetCacheImplementation
	t.Cleanup(func() {
		mediaprocessor.GetCacheImplementation = originalGet
	})

	t.Run("returns true for failed status", func(t *testing.T) {
		mediaprocessor.GetCacheImplementation = func(key string) (string, error) {
			return mediaprocessor.STATUS_FAILED, nil
		}

		assert.True(t, mediaprocessor.IsPhotoProcessingFailed("photo-123"))
	})

	t.Run("returns false for non-failed status", func(t *testing.T) {
		mediaprocessor.GetCacheImplementation = func(key string) (string, error) {
			return mediaprocessor.STATUS_COMPLETED, nil
		}

		assert.False(t, mediaprocessor.IsPhotoProcessingFailed("photo-123"))
	})

	t.Run("returns false on cache error", func(t *testing.T) {
		mediaprocessor.GetCacheImplementation = func(key string) (string, error) {
			return "", fmt.Errorf("cache miss")
		}

		assert.False(t, mediaprocessor.IsPhotoProcessingFailed("photo-123"))
	})

	t.Run("returns false and skips cache for empty uuid", func(t *testing.T) {
		called := false
		mediaprocessor.GetCacheImplementation = func(key string) (string, error) {
			called = true
			return mediaprocessor.STATUS_FAILED, nil
		}

		assert.False(t, mediaprocessor.IsPhotoProcessingFailed(""))
		assert.False(t, called)
	})
}

func TestGetPhotoPath(t *testing.T) {
	img := &models.ProjectImage{
		UUID:     "abc",
		FilePath: "uploads/original/2026/08",
		FileName: "photo.jpg",
	}

	assert.Equal(t, "uploads/thumbnails/card/2026/08/abc.jpg", mediaprocessor.GetPhotoPath(img, "card"))
	assert.Equal(t, "uploads/thumbnails/gallery/2026/08/abc.jpg", mediaprocessor.GetPhotoPath(img, "gallery"))
	assert.Equal(t, "uploads/original/2026/08/photo.jpg", mediaprocessor.GetPhotoPath(img, ""))
}
