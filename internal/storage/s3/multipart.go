package s3

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
)

// PresignedPart is one part-number/URL pair of a multipart upload session.
type PresignedPart struct {
	PartNumber int    `json:"partNumber"`
	SignedURL  string `json:"signedUrl"`
}

// CompletedPart identifies an uploaded part by number and ETag when
// finalizing a multipart upload.
type CompletedPart struct {
	PartNumber int    `json:"partNumber"`
	ETag       string `json:"eTag"`
}

// InitiateMultipartUpload opens a provider-side multipart upload and returns
// its upload id.
func (c *Client) InitiateMultipartUpload(ctx context.Context, key, contentType string) (string, error) {
	resp, err := c.svc.CreateMultipartUploadWithContext(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return aws.StringValue(resp.UploadId), nil
}

// PresignUploadParts signs one upload URL per part number 1..partCount. Parts
// are signed concurrently since each presign is independent; the returned
// slice is ordered by part number with no gaps.
func (c *Client) PresignUploadParts(ctx context.Context, key, uploadID string, partCount int, ttl time.Duration) ([]PresignedPart, error) {
	if partCount <= 0 {
		return nil, fmt.Errorf("partCount must be positive, got %d", partCount)
	}

	parts := make([]PresignedPart, partCount)
	errs := make([]error, partCount)

	var wg sync.WaitGroup
	for i := 0; i < partCount; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()

			partNumber := index + 1
			req, _ := c.svc.UploadPartRequest(&s3.UploadPartInput{
				Bucket:     aws.String(c.bucketName),
				Key:        aws.String(key),
				UploadId:   aws.String(uploadID),
				PartNumber: aws.Int64(int64(partNumber)),
			})

			url, err := req.Presign(ttl)
			if err != nil {
				errs[index] = fmt.Errorf("failed to presign part %d: %w", partNumber, err)
				return
			}

			parts[index] = PresignedPart{PartNumber: partNumber, SignedURL: url}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return parts, nil
}

// CompleteMultipartUpload finalizes the object from the listed parts.
func (c *Client) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []CompletedPart) error {
	completed := make([]*s3.CompletedPart, len(parts))
	for i, p := range parts {
		completed[i] = &s3.CompletedPart{
			PartNumber: aws.Int64(int64(p.PartNumber)),
			ETag:       aws.String(p.ETag),
		}
	}

	_, err := c.svc.CompleteMultipartUploadWithContext(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(c.bucketName),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &s3.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	return err
}

// AbortMultipartUpload discards an in-flight multipart upload so the provider
// can reclaim stored parts.
func (c *Client) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	_, err := c.svc.AbortMultipartUploadWithContext(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(c.bucketName),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	return err
}
