package upload

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/ffdata/pkg/utils"
)

const (
	LatestKey          = "projections.json"
	latestCacheControl = "max-age=7200,public"
	historyLayout      = "2006-01-02_15-04-05"
)

// S3API is the subset of the S3 client the publisher uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads the projections artifact as the public latest copy and
// as a timestamped history entry.
type S3Publisher struct {
	client S3API
	bucket string
	logger *logrus.Logger
	now    func() time.Time
}

func NewS3Publisher(client S3API, bucket string, logger *logrus.Logger) *S3Publisher {
	return &S3Publisher{client: client, bucket: bucket, logger: logger, now: time.Now}
}

// NewS3PublisherFromRegion builds a publisher with the default AWS
// credential chain.
func NewS3PublisherFromRegion(ctx context.Context, region, bucket string, logger *logrus.Logger) (*S3Publisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewS3Publisher(s3.NewFromConfig(cfg), bucket, logger), nil
}

// HistoryKey is the object key of the history copy written at t.
func HistoryKey(t time.Time) string {
	return "history/" + t.Format(historyLayout) + ".json"
}

// Publish uploads the file at path and returns the object keys written.
func (p *S3Publisher) Publish(ctx context.Context, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUploadFailed, err)
	}

	p.logger.WithFields(logrus.Fields{
		"bucket": p.bucket,
		"file":   path,
	}).Info("Uploading projections to S3")

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(LatestKey),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("application/json"),
		ACL:          types.ObjectCannedACLPublicRead,
		CacheControl: aws.String(latestCacheControl),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", utils.ErrUploadFailed, LatestKey, err)
	}

	historyKey := HistoryKey(p.now())
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(historyKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return []string{LatestKey}, fmt.Errorf("%w: %s: %v", utils.ErrUploadFailed, historyKey, err)
	}

	p.logger.WithField("bucket", p.bucket).Info("Upload completed successfully")
	return []string{LatestKey, historyKey}, nil
}
