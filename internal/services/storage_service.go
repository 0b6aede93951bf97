// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/gearguard-backend/internal/config"
)

// MaxImageSize bounds uploaded asset images.
const MaxImageSize = 5 * 1024 * 1024

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, data []byte, filename string) (string, error)
	UploadBase64(ctx context.Context, encoded string) (string, error)
}

// StorageService uploads to S3 when credentials are configured and to a
// local directory otherwise.
type StorageService struct {
	s3Client  s3iface.S3API
	bucket    string
	region    string
	publicURL string
	localDir  string
	localURL  string
}

var _ ImageUploader = (*StorageService)(nil)

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{
		bucket:    cfg.AWS.S3Bucket,
		region:    cfg.AWS.Region,
		publicURL: strings.TrimRight(cfg.AWS.CloudFrontURL, "/"),
		localDir:  cfg.AWS.LocalUploadDir,
		localURL:  "/uploads",
	}

	if cfg.AWS.AccessKeyID == "" || cfg.AWS.S3Bucket == "" {
		// Local storage for development
		logrus.WithField("dir", s.localDir).Info("S3 not configured, storing uploads locally")
		return s, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	s.s3Client = s3.New(sess)
	return s, nil
}

// NewS3StorageService wraps an existing S3 client.
func NewS3StorageService(client s3iface.S3API, bucket, region, publicURL string) *StorageService {
	return &StorageService{
		s3Client:  client,
		bucket:    bucket,
		region:    region,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// LocalDir is where uploads land when S3 is not configured.
func (s *StorageService) LocalDir() string {
	if s.s3Client != nil {
		return ""
	}
	return s.localDir
}

// UploadImage stores data under a generated key. The extension follows the
// sniffed content type; the client's filename is only logged.
func (s *StorageService) UploadImage(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidImage)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrInvalidImage, MaxImageSize)
	}

	contentType, ok := detectImageType(data)
	if !ok {
		return "", fmt.Errorf("%w: unsupported type", ErrInvalidImage)
	}

	key := generateFileName(contentType, "assets")
	logrus.WithFields(logrus.Fields{
		"key":      key,
		"filename": filename,
	}).Debug("Uploading image")
	if s.s3Client != nil {
		return s.uploadToS3(ctx, data, key, contentType)
	}
	return s.uploadToLocal(data, key)
}

// UploadBase64 accepts raw base64 or a data URL such as
// "data:image/png;base64,....".
func (s *StorageService) UploadBase64(ctx context.Context, encoded string) (string, error) {
	if i := strings.Index(encoded, ","); strings.HasPrefix(encoded, "data:") && i > 0 {
		encoded = encoded[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", ErrInvalidImage, err)
	}
	return s.UploadImage(ctx, data, "")
}

func (s *StorageService) uploadToS3(ctx context.Context, data []byte, key, contentType string) (string, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}

	if _, err := s.s3Client.PutObjectWithContext(ctx, params); err != nil {
		return "", fmt.Errorf("%w: failed to upload to S3: %v", ErrUpload, err)
	}
	return s.getS3URL(key), nil
}

func (s *StorageService) uploadToLocal(data []byte, key string) (string, error) {
	path := filepath.Join(s.localDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	return s.localURL + "/" + key, nil
}

func (s *StorageService) getS3URL(key string) string {
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", s.publicURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func generateFileName(contentType, folder string) string {
	ext := imageExtensions[contentType]
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s/%s_%s%s", folder, timestamp, uuid.New().String()[:8], ext)
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// detectImageType sniffs the content and admits the common web image formats.
func detectImageType(data []byte) (string, bool) {
	contentType := http.DetectContentType(data)
	_, ok := imageExtensions[contentType]
	return contentType, ok
}
