package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/contargo/s3sync/internal/core/domain"
	"github.com/contargo/s3sync/internal/core/ports/driven"
	"github.com/contargo/s3sync/internal/logger"
)

// maxUploadAttempts bounds the retry loop for a single object upload.
const maxUploadAttempts = 3

const csvContentType = "text/csv"

// Date layouts used in object keys.
const (
	dateFolderLayout    = "2006-01-02"
	fileTimestampLayout = "20060102_150405"
)

// Uploader stores a serialized batch and returns the object key used.
// Implemented by StorageUploader; mocked in orchestrator tests.
type Uploader interface {
	Store(ctx context.Context, tableName, country string, generationTime time.Time, content string) (string, error)
}

// Ensure StorageUploader implements the interface.
var _ Uploader = (*StorageUploader)(nil)

// StorageUploader writes CSV exports to the object store.
// It ensures the bucket exists, builds deterministic keys, and retries
// transient upload failures with a linearly increasing delay.
type StorageUploader struct {
	objects    driven.ObjectStore
	retryDelay time.Duration
}

// NewStorageUploader creates an uploader. retryDelay is the base delay
// between attempts; attempt N waits N times this value. A non-positive
// value defaults to one second.
func NewStorageUploader(objects driven.ObjectStore, retryDelay time.Duration) *StorageUploader {
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &StorageUploader{objects: objects, retryDelay: retryDelay}
}

// Store uploads content as a CSV object and returns the key used.
// The key is a pure function of table name, normalized country and the
// calendar date of generationTime, so a re-export of the same window
// overwrites the previous object instead of duplicating it.
func (u *StorageUploader) Store(
	ctx context.Context,
	tableName, country string,
	generationTime time.Time,
	content string,
) (string, error) {
	if err := u.objects.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	key := BuildObjectKey(tableName, country, generationTime)
	data := []byte(content)

	var lastErr error
	for attempt := 1; attempt <= maxUploadAttempts; attempt++ {
		if err := u.objects.Put(ctx, key, data, csvContentType); err != nil {
			lastErr = err
			logger.Error("Failed to upload data for %s:%s to %s (attempt %d/%d): %v",
				tableName, country, key, attempt, maxUploadAttempts, err)
			if attempt < maxUploadAttempts {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(time.Duration(attempt) * u.retryDelay):
				}
			}
			continue
		}

		logger.Info("Uploaded %d records for %s:%s to %s (attempt %d/%d)",
			countLines(content), tableName, country, key, attempt, maxUploadAttempts)
		return key, nil
	}

	return "", fmt.Errorf("upload %s after %d attempts: %w", key, maxUploadAttempts, lastErr)
}

// BuildObjectKey builds a deterministic object key from table name,
// country and generation time. Blank countries map to "unknown". The
// known tables get a stable display-name file prefix keyed by date;
// other tables fall back to a full timestamp to avoid key collisions.
func BuildObjectKey(tableName, country string, generationTime time.Time) string {
	normalized := strings.TrimSpace(country)
	if normalized == "" {
		normalized = domain.CountryUnknown
	}
	dateFolder := generationTime.Format(dateFolderLayout)

	switch tableName {
	case domain.TableCustomers:
		return fmt.Sprintf("%s/%s/%s/customers_%s_%s.csv", tableName, dateFolder, normalized, normalized, dateFolder)
	case domain.TableOrders:
		return fmt.Sprintf("%s/%s/%s/orders_%s_%s.csv", tableName, dateFolder, normalized, normalized, dateFolder)
	default:
		timestamp := generationTime.Format(fileTimestampLayout)
		return fmt.Sprintf("%s/%s/%s/%s_%s.csv", tableName, dateFolder, normalized, tableName, timestamp)
	}
}

// countLines counts non-blank lines to aid logging.
func countLines(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
