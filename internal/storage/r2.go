package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	PublicURL       string
}

// Client wraps the S3 API against a Cloudflare R2 bucket. It holds the entry
// images and the nightly database backups.
type Client struct {
	client *s3.Client
	config R2Config
}

func NewClient(cfg R2Config) (*Client, error) {
	if cfg.AccountID == "" || cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" || cfg.BucketName == "" {
		return nil, fmt.Errorf("missing required R2 configuration parameters")
	}

	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID),
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.AccessKeySecret,
			"",
		)),
		config.WithRetryer(func() aws.Retryer {
			return aws.NopRetryer{}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	// Verify bucket exists and we have permissions
	_, err = client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: aws.String(cfg.BucketName),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") {
			return nil, fmt.Errorf("bucket %s not found or you don't have permission to access it", cfg.BucketName)
		}
		return nil, fmt.Errorf("failed to access bucket: %w", err)
	}

	return &Client{
		client: client,
		config: cfg,
	}, nil
}

// Upload writes an object to the bucket.
func (c *Client) Upload(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to R2: %w", err)
	}
	return nil
}

// UploadEntryImage stores an entry attachment under the user's prefix and
// returns its public URL.
func (c *Client) UploadEntryImage(ctx context.Context, file io.Reader, contentType, userID string) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file reader cannot be nil")
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	ext := extensionFor(contentType)
	if ext == "" {
		return "", fmt.Errorf("unsupported content type %s", contentType)
	}

	randomID := make([]byte, 8)
	if _, err := rand.Read(randomID); err != nil {
		return "", fmt.Errorf("failed to generate filename: %w", err)
	}
	key := fmt.Sprintf("%s/%d-%s.%s", userID, time.Now().UnixMilli(), hex.EncodeToString(randomID), ext)

	if err := c.Upload(ctx, key, content, contentType); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", c.config.PublicURL, key), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/heic":
		return "heic"
	default:
		return ""
	}
}
