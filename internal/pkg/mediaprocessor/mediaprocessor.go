package mediaprocessor

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/internal/pkg/database"
)

// Thumbnail sizes
const (
	CardThumbnailWidth    = 400
	GalleryThumbnailWidth = 1200
)

// Directory paths
const (
	OriginalDir   = "uploads/original"
	ThumbnailsDir = "uploads/thumbnails"
	MaxWorkers    = 3
)

// MediaProcessor handles listing photo processing with a worker pool
type MediaProcessor struct {
	jobs            chan *ProcessJob
	wg              sync.WaitGroup
	started         bool
	mutex           sync.Mutex
	activeProcesses int32
	memoryThrottle  chan struct{} // semaphore bounding concurrent decodes
}

// ProcessJob represents a single photo processing job
type ProcessJob struct {
	Image        *models.ProjectImage
	OriginalPath string
}

// Global processor instance
var processor *MediaProcessor
var once sync.Once

// GetProcessor returns the singleton media processor instance
func GetProcessor() *MediaProcessor {
	once.Do(func() {
		processor = &MediaProcessor{
			jobs:           make(chan *ProcessJob, 100),
			memoryThrottle: make(chan struct{}, MaxWorkers),
		}
		processor.Start()
	})
	return processor
}

// Start initializes the worker pool
func (p *MediaProcessor) Start() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.started {
		return
	}

	p.started = true
	for i := 0; i < MaxWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	log.Info("[MediaProcessor] Started worker pool with ", MaxWorkers, " workers")
}

// Stop gracefully shuts down the worker pool
func (p *MediaProcessor) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.started {
		return
	}

	close(p.jobs)
	p.wg.Wait()
	p.started = false
	log.Info("[MediaProcessor] Worker pool stopped")
}

// worker processes jobs from the queue
func (p *MediaProcessor) worker(id int) {
	defer p.wg.Done()
	log.Info(fmt.Sprintf("[MediaProcessor] Worker %d started", id))

	for job := range p.jobs {
		p.memoryThrottle <- struct{}{}
		atomic.AddInt32(&p.activeProcesses, 1)

		log.Info(fmt.Sprintf("[MediaProcessor] Worker %d processing photo %s (Active: %d)",
			id, job.Image.UUID, atomic.LoadInt32(&p.activeProcesses)))

		err := processPhoto(job.Image, job.OriginalPath)

		<-p.memoryThrottle
		atomic.AddInt32(&p.activeProcesses, -1)

		if err != nil {
			log.Error(fmt.Sprintf("[MediaProcessor] Worker %d failed to process photo %s: %v", id, job.Image.UUID, err))
			SetPhotoStatus(job.Image.UUID, STATUS_FAILED)
		} else {
			log.Info(fmt.Sprintf("[MediaProcessor] Worker %d completed processing photo %s", id, job.Image.UUID))
		}

		// Give the GC a moment between large decodes
		time.Sleep(100 * time.Millisecond)
	}

	log.Info(fmt.Sprintf("[MediaProcessor] Worker %d stopped", id))
}

// EnqueuePhoto adds a photo to the processing queue
func (p *MediaProcessor) EnqueuePhoto(image *models.ProjectImage, originalPath string) {
	if !p.started {
		p.Start()
	}

	p.jobs <- &ProcessJob{
		Image:        image,
		OriginalPath: originalPath,
	}
	log.Info(fmt.Sprintf("[MediaProcessor] Enqueued photo %s for processing", image.UUID))
}

// ProcessPhoto queues a photo for processing
func ProcessPhoto(image *models.ProjectImage, originalPath string) error {
	SetPhotoStatus(image.UUID, STATUS_PENDING)
	GetProcessor().EnqueuePhoto(image, originalPath)
	return nil
}

// processPhoto handles the actual photo processing
func processPhoto(image *models.ProjectImage, originalPath string) error {
	log.Info(fmt.Sprintf("[MediaProcessor] Processing photo %s", image.UUID))

	SetPhotoStatus(image.UUID, STATUS_PROCESSING)

	// Extract EXIF capture metadata first; failures here are non-fatal.
	if err := ExtractMetadata(image, originalPath); err != nil {
		log.Warn(fmt.Sprintf("[MediaProcessor] Metadata extraction failed for %s: %v", image.UUID, err))
	}

	originalDir := filepath.Dir(originalPath)

	// Remove "uploads/original/" from path
	relativePath := strings.Replace(originalDir, OriginalDir+"/", "", 1)
	relativePath = strings.Replace(relativePath, "./"+OriginalDir+"/", "", 1)

	// Use the UUID as the base for generated file names to avoid problems
	// with special characters in the original name.
	fileNameWithoutExt := image.UUID

	hasThumbnail := true
	width := 0
	height := 0

	{
		img, err := imaging.Open(originalPath, imaging.AutoOrientation(true))
		if err != nil {
			return fmt.Errorf("error opening original photo: %w", err)
		}

		width = img.Bounds().Dx()
		height = img.Bounds().Dy()
		log.Info(fmt.Sprintf("[MediaProcessor] Photo dimensions: %dx%d", width, height))

		// Card thumbnail for the listing grid
		cardThumb := imaging.Resize(img, CardThumbnailWidth, 0, imaging.Lanczos)
		cardPath := filepath.Join(ThumbnailsDir, "card", relativePath, fileNameWithoutExt+".jpg")
		if err := saveJPEG(cardThumb, cardPath); err != nil {
			log.Error(fmt.Sprintf("Error saving card thumbnail: %v", err))
			hasThumbnail = false
		} else {
			log.Info(fmt.Sprintf("[MediaProcessor] Card thumbnail created: %s", cardPath))
		}
		cardThumb = nil

		// Gallery thumbnail for the detail page
		if width > GalleryThumbnailWidth {
			galleryThumb := imaging.Resize(img, GalleryThumbnailWidth, 0, imaging.Lanczos)
			galleryPath := filepath.Join(ThumbnailsDir, "gallery", relativePath, fileNameWithoutExt+".jpg")
			if err := saveJPEG(galleryThumb, galleryPath); err != nil {
				log.Error(fmt.Sprintf("Error saving gallery thumbnail: %v", err))
			} else {
				log.Info(fmt.Sprintf("[MediaProcessor] Gallery thumbnail created: %s", galleryPath))
			}
			galleryThumb = nil
		}

		img = nil
	}

	runtime.GC()

	// Update database
	db := database.GetDB()
	db.Model(image).Updates(map[string]interface{}{
		"has_thumbnail": hasThumbnail,
		"width":         width,
		"height":        height,
		"camera_model":  image.CameraModel,
		"taken_at":      image.TakenAt,
		"latitude":      image.Latitude,
		"longitude":     image.Longitude,
	})

	log.Info(fmt.Sprintf("[MediaProcessor] Photo processing completed for %s", image.UUID))

	SetPhotoStatus(image.UUID, STATUS_COMPLETED)
	return nil
}

// saveJPEG saves an image as JPEG, creating parent directories as needed
func saveJPEG(img image.Image, outputPath string) error {
	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	if err := imaging.Save(img, outputPath, imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("error encoding JPEG image: %w", err)
	}

	return nil
}

// GetPhotoPath returns the path to a specific photo version
func GetPhotoPath(image *models.ProjectImage, size string) string {
	// Remove the "uploads/original/" part from the path
	relativePath := strings.Replace(image.FilePath, OriginalDir+"/", "", 1)
	relativePath = strings.Replace(relativePath, "./"+OriginalDir+"/", "", 1)
	fileNameWithoutExt := image.UUID

	switch size {
	case "card":
		return filepath.Join(ThumbnailsDir, "card", relativePath, fileNameWithoutExt+".jpg")
	case "gallery":
		return filepath.Join(ThumbnailsDir, "gallery", relativePath, fileNameWithoutExt+".jpg")
	default:
		// Fallback to original
		return filepath.Join(image.FilePath, image.FileName)
	}
}
