// Package awsclient builds AWS SDK clients from the service configuration.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/person-service/backend/internal/infrastructure/config"
)

// Factory creates SDK clients sharing one aws.Config.
// Endpoint overrides the S3 and EventBridge clients; DynamoDB has its own
// so sam local can reach DynamoDB Local while events still go to AWS.
type Factory struct {
	cfg            aws.Config
	endpoint       string
	dynamoEndpoint string
}

// NewFactory loads the default AWS configuration chain, applying the region
// and, when both keys are set, static credentials.
func NewFactory(ctx context.Context, cfg config.AWSConfig) (*Factory, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Factory{
		cfg:            awsCfg,
		endpoint:       cfg.Endpoint,
		dynamoEndpoint: cfg.DynamoDBEndpoint(),
	}, nil
}

// Config returns the loaded aws.Config.
func (f *Factory) Config() aws.Config {
	return f.cfg
}

// Endpoint returns the endpoint override, empty when the SDK resolves it.
func (f *Factory) Endpoint() string {
	return f.endpoint
}

// DynamoDBEndpoint returns the DynamoDB endpoint override.
func (f *Factory) DynamoDBEndpoint() string {
	return f.dynamoEndpoint
}

// DynamoDB returns a DynamoDB client honoring its endpoint override.
func (f *Factory) DynamoDB() *dynamodb.Client {
	return dynamodb.NewFromConfig(f.cfg, func(o *dynamodb.Options) {
		if f.dynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(f.dynamoEndpoint)
		}
	})
}

// S3 returns an S3 client. Path-style addressing is used with a custom
// endpoint so S3-compatible servers (MinIO, LocalStack) work.
func (f *Factory) S3() *s3.Client {
	return s3.NewFromConfig(f.cfg, func(o *s3.Options) {
		if f.endpoint != "" {
			o.BaseEndpoint = aws.String(f.endpoint)
			o.UsePathStyle = true
		}
	})
}

// EventBridge returns an EventBridge client honoring the endpoint override.
func (f *Factory) EventBridge() *eventbridge.Client {
	return eventbridge.NewFromConfig(f.cfg, func(o *eventbridge.Options) {
		if f.endpoint != "" {
			o.BaseEndpoint = aws.String(f.endpoint)
		}
	})
}
