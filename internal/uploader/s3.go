package uploader

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/pulsekeeper/internal/common"
	"github.com/dmitrijs2005/pulsekeeper/internal/models"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// S3Options carries the bucket coordinates and credentials for the S3
// target. BaseEndpoint points the client at an S3-compatible server such
// as MinIO.
type S3Options struct {
	Region       string
	RootUser     string // MINIO_ROOT_USER
	RootPassword string // MINIO_ROOT_PASSWORD
	Bucket       string
	BaseEndpoint string
}

// S3 puts each reading into a bucket under readings/<ownerId>/<id>.json.
// The key is deterministic, so a retried upload overwrites its own object.
type S3 struct {
	opts S3Options
	seal []byte
}

// NewS3 returns an uploader for the given bucket coordinates. A non-nil
// sealKey turns on payload sealing.
func NewS3(opts S3Options, sealKey []byte) *S3 {
	return &S3{opts: opts, seal: sealKey}
}

func (u *S3) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(u.opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.opts.RootUser,
			u.opts.RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(u.opts.BaseEndpoint)
	})

	return client, nil
}

func (u *S3) Upload(ctx context.Context, r models.Reading) error {
	client, err := u.getClient(ctx)
	if err != nil {
		return err
	}

	body, err := encodeBody(r, u.seal)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("readings/%s/%s.json", r.OwnerId, r.Id)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &u.opts.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", common.ErrUnreachable, err)
	}

	return nil
}
