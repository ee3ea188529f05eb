package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/ffdata/pkg/logger"
	"github.com/stitts-dev/ffdata/pkg/utils"
)

type mockS3 struct {
	mock.Mock
	bodies map[string]string
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(aws.ToString(params.Key))
	if m.bodies == nil {
		m.bodies = make(map[string]string)
	}
	body, _ := io.ReadAll(params.Body)
	m.bodies[aws.ToString(params.Key)] = string(body)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return &s3.PutObjectOutput{}, nil
}

type mockSNS struct {
	mock.Mock
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(params)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return &sns.PublishOutput{}, nil
}

func writeArtifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Projections-2025.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"key":"allen_qb_buf"}]`), 0o644))
	return path
}

func TestS3PublisherPublish(t *testing.T) {
	client := &mockS3{}
	client.On("PutObject", LatestKey).Return(nil).Once()
	client.On("PutObject", "history/2025-09-01_08-30-00.json").Return(nil).Once()

	pub := NewS3Publisher(client, "ff-bucket", logger.Discard())
	pub.now = func() time.Time { return time.Date(2025, 9, 1, 8, 30, 0, 0, time.UTC) }

	keys, err := pub.Publish(context.Background(), writeArtifact(t))

	require.NoError(t, err)
	assert.Equal(t, []string{"projections.json", "history/2025-09-01_08-30-00.json"}, keys)
	assert.Equal(t, `[{"key":"allen_qb_buf"}]`, client.bodies[LatestKey])
	client.AssertExpectations(t)
}

func TestS3PublisherSetsPublicCaching(t *testing.T) {
	var latest *s3.PutObjectInput
	client := &captureS3{onPut: func(in *s3.PutObjectInput) {
		if aws.ToString(in.Key) == LatestKey {
			latest = in
		}
	}}

	_, err := NewS3Publisher(client, "ff-bucket", logger.Discard()).Publish(context.Background(), writeArtifact(t))
	require.NoError(t, err)

	require.NotNil(t, latest)
	assert.Equal(t, "ff-bucket", aws.ToString(latest.Bucket))
	assert.Equal(t, types.ObjectCannedACLPublicRead, latest.ACL)
	assert.Equal(t, "max-age=7200,public", aws.ToString(latest.CacheControl))
}

type captureS3 struct {
	onPut func(*s3.PutObjectInput)
}

func (c *captureS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	c.onPut(params)
	return &s3.PutObjectOutput{}, nil
}

func TestS3PublisherErrors(t *testing.T) {
	client := &mockS3{}
	client.On("PutObject", LatestKey).Return(errors.New("access denied"))

	pub := NewS3Publisher(client, "ff-bucket", logger.Discard())

	_, err := pub.Publish(context.Background(), writeArtifact(t))
	assert.ErrorIs(t, err, utils.ErrUploadFailed)

	_, err = pub.Publish(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, utils.ErrUploadFailed)
}

func TestSNSNotifier(t *testing.T) {
	client := &mockSNS{}
	client.On("Publish", mock.MatchedBy(func(in *sns.PublishInput) bool {
		var summary RunSummary
		if err := json.Unmarshal([]byte(aws.ToString(in.Message)), &summary); err != nil {
			return false
		}
		return aws.ToString(in.TopicArn) == "arn:aws:sns:us-east-1:123:ffdata" &&
			summary.RunID == "run-1" && summary.Players == 240
	})).Return(nil).Once()

	n := NewSNSNotifier(client, "arn:aws:sns:us-east-1:123:ffdata")
	err := n.Notify(context.Background(), RunSummary{RunID: "run-1", Season: 2025, Players: 240, Sources: []string{"ESPN"}})

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestSNSNotifierError(t *testing.T) {
	client := &mockSNS{}
	client.On("Publish", mock.Anything).Return(errors.New("throttled"))

	err := NewSNSNotifier(client, "arn").Notify(context.Background(), RunSummary{})
	assert.Error(t, err)
}
