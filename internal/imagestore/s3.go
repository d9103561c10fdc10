package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sony/gobreaker/v2"

	"github.com/foodgram/backend/internal/metrics"
)

// ErrIncompleteS3Config is returned when a required S3 setting is missing.
var ErrIncompleteS3Config = errors.New("incomplete S3 configuration")

// S3Config selects the bucket and credentials. Endpoint is optional for AWS
// and required for S3-compatible servers such as MinIO.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	KeyID     string
	AccessKey string
	// PublicURL prefixes object keys in returned references. Defaults to
	// Endpoint/Bucket.
	PublicURL string
	Timeout   time.Duration
}

// uploader is the subset of *manager.Uploader the store needs.
type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Store uploads images to a bucket through a circuit breaker so an S3 outage
// fails recipe writes fast instead of tying up request goroutines.
type S3Store struct {
	up        uploader
	bucket    string
	publicURL string
	timeout   time.Duration
	cb        *gobreaker.CircuitBreaker[*manager.UploadOutput]
}

const breakerName = "s3-images"

// NewS3Store builds a path-style S3 client from static credentials.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" || strings.TrimSpace(cfg.Region) == "" ||
		strings.TrimSpace(cfg.KeyID) == "" || strings.TrimSpace(cfg.AccessKey) == "" {
		return nil, ErrIncompleteS3Config
	}

	opts := s3.Options{
		UsePathStyle: true,
		Region:       cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.KeyID, cfg.AccessKey, ""),
		),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	client := s3.New(opts)

	publicURL := cfg.PublicURL
	if publicURL == "" {
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
		}
		publicURL = joinURL(endpoint, cfg.Bucket)
	}

	return newS3Store(manager.NewUploader(client), cfg.Bucket, publicURL, cfg.Timeout), nil
}

func newS3Store(up uploader, bucket, publicURL string, timeout time.Duration) *S3Store {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*manager.UploadOutput](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return &S3Store{up: up, bucket: bucket, publicURL: publicURL, timeout: timeout, cb: cb}
}

// Save uploads img under its content key and returns the public URL.
func (s *S3Store) Save(ctx context.Context, img Image) (string, error) {
	key := img.Key()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.cb.Execute(func() (*manager.UploadOutput, error) {
		return s.up.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(img.Data),
			ContentType: aws.String(img.ContentType),
		})
	})
	if err != nil {
		result := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "rejected"
		}
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, result).Inc()

		var mu manager.MultiUploadFailure
		if errors.As(err, &mu) {
			return "", fmt.Errorf("imagestore.S3Store.Save: multi-upload failure (upload_id: %s): %w", mu.UploadID(), err)
		}
		return "", fmt.Errorf("imagestore.S3Store.Save: %w", err)
	}

	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	metrics.ImageBytesStored.WithLabelValues("s3").Add(float64(len(img.Data)))
	return joinURL(s.publicURL, key), nil
}
