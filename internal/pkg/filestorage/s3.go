package filestorage

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Nicole-tabby/study-share-oasis/internal/pkg/logger"
)

// S3Config holds the settings for an S3-compatible object store (AWS S3,
// Cloudflare R2, MinIO).
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string // custom endpoint, empty for stock AWS
	Region    string
	Bucket    string
	PublicURL string // base URL for public object access
}

// S3Storage stores files in an S3-compatible bucket and resolves presigned
// GET URLs for time-limited access.
type S3Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	publicURL string
}

// NewS3Storage creates an S3Storage from config.
func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 storage requires a bucket name")
	}

	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	logger.Info().Str("bucket", cfg.Bucket).Msg("S3 storage initialized")
	return &S3Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

// SaveFileWithPath stores the upload under subPath with a UUID-based key.
func (st *S3Storage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	ext := filepath.Ext(fileHeader.Filename)
	return st.SaveFileAs(fileHeader, subPath, uuid.New().String()+ext)
}

// SaveFileAs stores the upload at subPath/filename. S3 puts are overwrites by
// nature, so retrying a fixed-name upload is safe.
func (st *S3Storage) SaveFileAs(fileHeader *multipart.FileHeader, subPath, filename string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	key := path.Join(subPath, filename)
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = st.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:        aws.String(st.bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentLength: aws.Int64(fileHeader.Size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to upload object")
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	fileURL := st.publicURL + "/" + key
	logger.Info().Str("key", key).Str("url", fileURL).Msg("Object uploaded")
	return fileURL, nil
}

// SignedURL resolves a presigned GET URL for the stored object.
func (st *S3Storage) SignedURL(ctx context.Context, fileURL string, expiry time.Duration) (string, error) {
	key := st.keyFromURL(fileURL)
	if key == "" {
		return "", fmt.Errorf("invalid object URL: %s", fileURL)
	}

	req, err := st.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(st.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %w", key, err)
	}
	return req.URL, nil
}

// DeleteFile removes the object a stored URL points at. S3 deletes are
// idempotent.
func (st *S3Storage) DeleteFile(fileURL string) error {
	if fileURL == "" {
		return nil
	}
	key := st.keyFromURL(fileURL)
	if key == "" {
		return fmt.Errorf("invalid object URL: %s", fileURL)
	}

	_, err := st.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(st.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to delete object")
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (st *S3Storage) keyFromURL(fileURL string) string {
	if strings.HasPrefix(fileURL, st.publicURL) {
		return strings.TrimLeft(strings.TrimPrefix(fileURL, st.publicURL), "/")
	}
	// Accept bare keys too, for rows written before a publicURL change.
	if fileURL != "" && !strings.Contains(fileURL, "://") {
		return strings.TrimLeft(fileURL, "/")
	}
	return ""
}
