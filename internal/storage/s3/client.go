package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"viewtuber/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Client wraps the S3 service for one bucket.
type Client struct {
	bucketName string
	region     string
	svc        *s3.S3
}

func NewClient(cfg *config.AWSConfig) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		bucketName: cfg.BucketName,
		region:     cfg.Region,
		svc:        s3.New(sess),
	}, nil
}

// ObjectURL returns the canonical https location of a key in the bucket.
func (c *Client) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucketName, c.region, key)
}

// GetObject streams an object's body. The caller closes the reader.
func (c *Client) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := c.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}

	return result.Body, nil
}

func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	return err
}

// DeletePrefix deletes every object under the prefix, page by page. Used when
// a project is deleted to drop its raw and edited footage.
func (c *Client) DeletePrefix(ctx context.Context, prefix string) error {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var continuationToken *string
	for {
		resp, err := c.svc.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(c.bucketName),
			Prefix:            aws.String(prefix),
			MaxKeys:           aws.Int64(1000),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return err
		}

		for _, obj := range resp.Contents {
			if err := c.DeleteObject(ctx, *obj.Key); err != nil {
				return err
			}
		}

		if resp.IsTruncated == nil || !*resp.IsTruncated {
			return nil
		}
		continuationToken = resp.NextContinuationToken
	}
}
