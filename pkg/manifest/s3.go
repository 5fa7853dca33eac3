package manifest

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the slice of the S3 client Publisher needs. *s3.Client
// satisfies it.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher ships manifests to an S3 bucket.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	pub := manifest.NewPublisher(s3.NewFromConfig(cfg), "my-bucket", "routes/manifest.json")
//	err := pub.Publish(ctx, manifest.Export(tree))
type Publisher struct {
	client      PutObjectAPI
	bucket      string
	key         string
	contentType string
}

// NewPublisher creates a publisher writing to the given bucket and key.
func NewPublisher(client PutObjectAPI, bucket, key string) *Publisher {
	return &Publisher{
		client:      client,
		bucket:      bucket,
		key:         key,
		contentType: "application/json",
	}
}

// WithContentType overrides the Content-Type written with the object.
func (p *Publisher) WithContentType(ct string) *Publisher {
	p.contentType = ct
	return p
}

// Publish encodes the manifest and uploads it. The object carries the
// publish time and entry count as metadata so consumers can check
// freshness without fetching the body.
func (p *Publisher) Publish(ctx context.Context, m *Manifest) error {
	data, err := m.Encode()
	if err != nil {
		return fmt.Errorf("manifest: encode for publish: %w", err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(p.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(p.contentType),
		Metadata: map[string]string{
			"publish-time": time.Now().UTC().Format(time.RFC3339),
			"route-count":  fmt.Sprintf("%d", m.Routes()),
		},
	})
	if err != nil {
		return fmt.Errorf("manifest: publish to s3://%s/%s: %w", p.bucket, p.key, err)
	}
	return nil
}
