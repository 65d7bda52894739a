package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/infrastructure/session"
)

const defaultUploadContentType = "application/octet-stream"

type s3Locator struct {
	client      *s3.Client
	presigner   *s3.PresignClient
	bucket      string
	expiry      time.Duration
	credentials Credentials
	logger      *zap.Logger
	now         func() time.Time
}

// NewS3Locator presigns directly against the bucket with the gateway's own
// AWS credentials. The session is still checked so that anonymous callers
// never receive URLs.
func NewS3Locator(ctx context.Context, cfg *config.Config, creds Credentials, logger *zap.Logger) (Locator, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Storage.Region),
	}
	if cfg.Storage.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Storage.AccessKeyID, cfg.Storage.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("S3 locator initialized",
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("region", cfg.Storage.Region),
		zap.String("endpoint", cfg.Storage.Endpoint),
	)

	return &s3Locator{
		client:      client,
		presigner:   s3.NewPresignClient(client),
		bucket:      cfg.Storage.Bucket,
		expiry:      cfg.Storage.PresignExpiry,
		credentials: creds,
		logger:      logger,
		now:         time.Now,
	}, nil
}

func (l *s3Locator) DownloadURL(ctx context.Context, sess *session.Session, path string) (string, error) {
	if err := l.authorize(ctx, sess); err != nil {
		return "", err
	}

	_, err := l.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%w: object %q", errs.ErrNotFound, path)
		}
		return "", fmt.Errorf("%w: head object %q: %v", errs.ErrUpstream, path, err)
	}

	req, err := l.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(l.expiry))
	if err != nil {
		return "", fmt.Errorf("%w: failed to presign get object: %v", errs.ErrUpstream, err)
	}

	return req.URL, nil
}

// UploadTarget pins contentType as an exact policy condition so the stored
// object keeps the type it is later classified by.
func (l *s3Locator) UploadTarget(ctx context.Context, sess *session.Session, path, contentType string) (*UploadTarget, error) {
	if err := l.authorize(ctx, sess); err != nil {
		return nil, err
	}

	key := path
	if key == "" {
		key = NewObjectKey(l.now())
	}
	if contentType == "" {
		contentType = defaultUploadContentType
	}

	req, err := l.presigner.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = l.expiry
		o.Conditions = []interface{}{
			map[string]string{"Content-Type": contentType},
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to presign post object: %v", errs.ErrUpstream, err)
	}

	fields := make(map[string]string, len(req.Values)+1)
	for k, v := range req.Values {
		fields[k] = v
	}
	fields["Content-Type"] = contentType
	if _, ok := fields["key"]; !ok {
		fields["key"] = key
	}

	l.logger.Debug("Presigned upload target",
		zap.String("key", key),
		zap.String("content_type", contentType),
	)
	return &UploadTarget{URL: req.URL, Fields: fields}, nil
}

func (l *s3Locator) authorize(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return errs.ErrAuth
	}
	_, err := l.credentials.AccessToken(ctx, sess)
	return err
}

// NewObjectKey builds the key for a freshly uploaded document:
// <uuid>_<UTC yyyymmddhhmmss>
func NewObjectKey(now time.Time) string {
	return fmt.Sprintf("%s_%s", uuid.NewString(), now.UTC().Format("20060102150405"))
}
