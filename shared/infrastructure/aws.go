package infrastructure

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/pkg/errors"
)

// AWSOptions selects region, credentials and endpoint overrides. Empty
// endpoints use the SDK defaults; LocalStack setups point both at it.
type AWSOptions struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	EndpointSNS     string
	EndpointSQS     string
}

// LoadAWSConfig loads the default AWS configuration, applying the region and
// static credentials when they are set.
func LoadAWSConfig(ctx context.Context, opts AWSOptions) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error

	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "failed to load AWS config")
	}

	return cfg, nil
}
