package media

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type S3Uploader struct { // implements Uploader
	client *s3.Client

	bucket        string
	publicBaseURL string
}

func NewS3Uploader(accessKeyID, accessKeySecret, baseEndpoint, bucket, publicBaseURL string) *S3Uploader {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		mediaLogger.Fatal().Err(err).Msg("Error initializing S3 client")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(baseEndpoint)
	})

	return &S3Uploader{
		client: client,

		bucket:        bucket,
		publicBaseURL: publicBaseURL,
	}
}

func (u *S3Uploader) UploadImage(ctx context.Context, file io.Reader, contextHint string) (string, error) {
	key := contextHint + "/" + uuid.New().String()

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		mediaLogger.Error().Err(err).Str("key", key).Msg("S3 upload failed")
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return u.publicBaseURL + key, nil
}
