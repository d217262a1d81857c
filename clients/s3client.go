package clients

import (
	"context"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emzola/bookshelf/config"
)

// NewS3Client builds the S3 client used for cover image and profile picture
// uploads. Credentials come from the application config rather than the
// ambient AWS environment.
func NewS3Client(cfg config.Config) (*s3.Client, error) {
	provider := credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, "")
	awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(),
		awsConfig.WithCredentialsProvider(provider),
		awsConfig.WithRegion(cfg.S3.Region),
	)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg), nil
}
