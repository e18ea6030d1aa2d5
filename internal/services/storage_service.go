// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/zksub/zksub-backend/internal/config"
)

// StorageService stores uploaded assets. By default assets live in the local
// public directory and are served from the same process; when AWS credentials
// are configured they go to S3 instead.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		// Local public directory backend
		if err := os.MkdirAll(cfg.Storage.PublicDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create public directory: %w", err)
		}
		return &StorageService{config: cfg}, nil
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

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

// Save stores the asset under "{id}-{filename}" and returns the public path
// recorded in content metadata.
func (s *StorageService) Save(id, filename string, file io.Reader) (string, error) {
	name := fmt.Sprintf("%s-%s", id, sanitizeFilename(filename))

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if s.s3Client != nil {
		return s.saveToS3(name, data)
	}
	return s.saveToLocal(name, data)
}

func (s *StorageService) saveToLocal(name string, data []byte) (string, error) {
	target := filepath.Join(s.config.Storage.PublicDir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write asset: %w", err)
	}
	return "/public/" + name, nil
}

func (s *StorageService) saveToS3(name string, data []byte) (string, error) {
	key := "content/" + name
	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.getS3URL(key), nil
}

// Delete removes the asset behind a public path recorded at upload time.
// A missing local file is not an error; the metadata is already gone and
// there is nothing left to remove.
func (s *StorageService) Delete(filePath string) error {
	if s.s3Client != nil && !strings.HasPrefix(filePath, "/public/") {
		key := s.s3KeyFromURL(filePath)
		if _, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(s.config.AWS.S3Bucket),
			Key:    aws.String(key),
		}); err != nil {
			return fmt.Errorf("failed to delete from S3: %w", err)
		}
		return nil
	}

	name := strings.TrimPrefix(filePath, "/public/")
	target := filepath.Join(s.config.Storage.PublicDir, filepath.Base(name))
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			logrus.WithField("path", target).Warn("Asset already missing on delete")
			return nil
		}
		return fmt.Errorf("failed to remove asset: %w", err)
	}
	return nil
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

func (s *StorageService) s3KeyFromURL(url string) string {
	if idx := strings.Index(url, "/content/"); idx >= 0 {
		return url[idx+1:]
	}
	return url
}

// sanitizeFilename strips any path components from a client-supplied name.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == ".." || base == "/" {
		return "upload"
	}
	return base
}
