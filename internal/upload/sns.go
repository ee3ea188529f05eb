package upload

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSAPI is the subset of the SNS client the notifier uses.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// RunSummary is the message published after a successful run.
type RunSummary struct {
	RunID      string   `json:"run_id"`
	Season     int      `json:"season"`
	Players    int      `json:"players"`
	Sources    []string `json:"sources"`
	Warnings   int      `json:"warnings"`
	OutputPath string   `json:"output_path"`
	Objects    []string `json:"objects,omitempty"`
}

type SNSNotifier struct {
	client   SNSAPI
	topicARN string
}

func NewSNSNotifier(client SNSAPI, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

func NewSNSNotifierFromRegion(ctx context.Context, region, topicARN string) (*SNSNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewSNSNotifier(sns.NewFromConfig(cfg), topicARN), nil
}

// Notify publishes the run summary as JSON.
func (n *SNSNotifier) Notify(ctx context.Context, summary RunSummary) error {
	body, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(fmt.Sprintf("ffdata %d projections: %d players", summary.Season, summary.Players)),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to publish run summary: %w", err)
	}
	return nil
}
