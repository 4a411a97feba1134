package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pageza/recettes/backend/config"
	"go.uber.org/zap"
)

// DefaultMaxImageBytes caps uploaded recipe images.
const DefaultMaxImageBytes = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageService stores recipe images in S3 and hands back their public URL.
type ImageService struct {
	client        ObjectPutter
	bucket        string
	publicBaseURL string
	maxBytes      int64
	now           func() time.Time
	logger        *zap.Logger
}

// NewImageService creates an ImageService from the S3 configuration.
func NewImageService(s3Config *config.S3Config, logger *zap.Logger) *ImageService {
	return NewImageServiceWithClient(s3Config.Client, s3Config.BucketName, s3Config.PublicBaseURL, logger)
}

// NewImageServiceWithClient creates an ImageService around any ObjectPutter.
func NewImageServiceWithClient(client ObjectPutter, bucket, publicBaseURL string, logger *zap.Logger) *ImageService {
	return &ImageService{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		maxBytes:      DefaultMaxImageBytes,
		now:           time.Now,
		logger:        logger,
	}
}

// Upload stores the image read from r under recipes/<unix-ms>_<name> and
// returns its public URL.
func (s *ImageService) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageUploadFailed, err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrImageTooLarge
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}

	key := ImageObjectKey(s.now(), filename)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("image upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrImageUploadFailed, err)
	}

	s.logger.Info("image uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return s.publicBaseURL + "/" + key, nil
}

// ImageObjectKey builds the object key for an upload made at t.
func ImageObjectKey(t time.Time, filename string) string {
	return fmt.Sprintf("recipes/%d_%s", t.UnixMilli(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "image"
	}
	return out
}
