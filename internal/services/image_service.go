// internal/services/image_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/javajoker/catalog-admin/internal/apperr"
	"github.com/javajoker/catalog-admin/internal/metrics"
)

const defaultBatchSize = 3

// ImageHost stores image files and serves them from public URLs.
type ImageHost interface {
	Upload(ctx context.Context, file UploadFile) (string, error)
	Delete(ctx context.Context, url string) error
}

type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// BatchResult is one settled wave of uploads. URLs is indexed like the files of
// the wave; a failed upload leaves "" at its index.
type BatchResult struct {
	Batch   int
	Batches int
	Offset  int
	URLs    []string
	Failed  int
}

type UploadResult struct {
	URLs   []string `json:"urls"`
	Total  int      `json:"total"`
	Failed int      `json:"failed"`
}

// Partial reports the dropped uploads as a PartialUpload error, or nil.
func (r *UploadResult) Partial() error {
	if r.Failed == 0 {
		return nil
	}
	return apperr.PartialUploadErr(r.Failed, r.Total)
}

// ProgressFunc is told after every wave how many waves have settled.
type ProgressFunc func(done, total int)

type ImageService struct {
	host      ImageHost
	batchSize int
	maxSize   int64
}

func NewImageService(host ImageHost, batchSize int, maxSizeMB int) *ImageService {
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	return &ImageService{
		host:      host,
		batchSize: batchSize,
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
	}
}

// Batches uploads files in waves of batchSize. The files of a wave upload
// concurrently and the next wave starts only after every upload of the current
// one has settled. Iteration is lazy: stopping early skips the remaining waves.
func (s *ImageService) Batches(ctx context.Context, files []UploadFile) iter.Seq[BatchResult] {
	return func(yield func(BatchResult) bool) {
		batches := (len(files) + s.batchSize - 1) / s.batchSize
		for b := 0; b < batches; b++ {
			start := b * s.batchSize
			end := min(start+s.batchSize, len(files))

			result := s.uploadWave(ctx, files[start:end])
			result.Batch = b + 1
			result.Batches = batches
			result.Offset = start
			if !yield(result) {
				return
			}
		}
	}
}

// UploadMany drains Batches and returns the URLs of the uploads that succeeded,
// in input order. Failed files are dropped and counted, never retried.
func (s *ImageService) UploadMany(ctx context.Context, files []UploadFile, progress ProgressFunc) *UploadResult {
	result := &UploadResult{URLs: []string{}, Total: len(files)}

	for batch := range s.Batches(ctx, files) {
		for _, url := range batch.URLs {
			if url != "" {
				result.URLs = append(result.URLs, url)
			}
		}
		result.Failed += batch.Failed
		if progress != nil {
			progress(batch.Batch, batch.Batches)
		}
	}

	metrics.RecordUploads(len(result.URLs), result.Failed)
	if result.Failed > 0 {
		logrus.WithError(result.Partial()).Warn("Some images were not uploaded")
	}
	return result
}

func (s *ImageService) uploadWave(ctx context.Context, files []UploadFile) BatchResult {
	urls := make([]string, len(files))

	var g errgroup.Group
	for i, file := range files {
		g.Go(func() error {
			url, err := s.uploadOne(ctx, file)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"file": file.Name,
				}).WithError(err).Warn("Image upload failed, dropping file")
				return nil
			}
			urls[i] = url
			return nil
		})
	}
	// Every goroutine returns nil so Wait is a barrier for the whole wave.
	_ = g.Wait()

	failed := 0
	for _, url := range urls {
		if url == "" {
			failed++
		}
	}
	return BatchResult{URLs: urls, Failed: failed}
}

func (s *ImageService) uploadOne(ctx context.Context, file UploadFile) (string, error) {
	if s.maxSize > 0 && int64(len(file.Data)) > s.maxSize {
		return "", fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", len(file.Data), s.maxSize)
	}
	if !isValidImageType(file.Data) {
		return "", fmt.Errorf("file %s is not a supported image", file.Name)
	}
	if file.ContentType == "" || file.ContentType == "application/octet-stream" {
		file.ContentType = contentTypeFor(file.Name)
	}
	return s.host.Upload(ctx, file)
}

// Delete removes an image from the host. It fails open: false means the image
// may still exist on the host and the caller should carry on regardless.
func (s *ImageService) Delete(ctx context.Context, url string) bool {
	err := s.host.Delete(ctx, url)
	metrics.RecordDelete(err == nil)
	if err != nil {
		logrus.WithError(apperr.RemoteDeleteUnconfirmedErr(url, err)).Warn("Image delete not confirmed, image may be orphaned")
		return false
	}
	return true
}

func isValidImageType(buffer []byte) bool {
	switch {
	case len(buffer) >= 3 && bytes.Equal(buffer[:3], []byte{0xFF, 0xD8, 0xFF}):
		return true
	case len(buffer) >= 8 && bytes.Equal(buffer[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return true
	case len(buffer) >= 6 && (string(buffer[:6]) == "GIF87a" || string(buffer[:6]) == "GIF89a"):
		return true
	case len(buffer) >= 12 && string(buffer[:4]) == "RIFF" && string(buffer[8:12]) == "WEBP":
		return true
	}
	return false
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
