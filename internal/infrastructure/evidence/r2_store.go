package evidence

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	crerr "github.com/cockroachdb/errors"
	"github.com/tonpuu/riichi-league/internal/platform/logging"
)

type R2StoreConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
}

// R2Store holds submission evidence (score sheet photos, client logs)
// in a Cloudflare R2 bucket. The service only ever releases objects;
// uploads happen client-side against presigned URLs issued elsewhere.
type R2Store struct {
	client *s3.Client
	bucket string
	logger *logging.Logger
}

func NewR2Store(ctx context.Context, cfg R2StoreConfig, logger *logging.Logger) (*R2Store, error) {
	if cfg.AccountID == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.BucketName == "" {
		return nil, crerr.New("invalid R2 configuration: all fields are required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	sdkCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "load AWS SDK config for R2")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &R2Store{
		client: client,
		bucket: cfg.BucketName,
		logger: logger,
	}, nil
}

// Release deletes the evidence object once the submission it backs has
// reached a terminal state. A blank ref is a no-op; deleting an object
// that is already gone succeeds.
func (s *R2Store) Release(ctx context.Context, ref string) error {
	key := strings.TrimSpace(ref)
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return crerr.Wrapf(err, "delete evidence object %q", key)
	}

	s.logger.DebugContext(ctx, "evidence object released", "key", key)
	return nil
}

// NopStore is the evidence store used when no bucket is configured.
type NopStore struct{}

func (NopStore) Release(context.Context, string) error { return nil }
