package manifest

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type mockS3 struct {
	putErr error
	inputs []*s3.PutObjectInput
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.putErr != nil {
		return nil, m.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func TestPublisherPublish(t *testing.T) {
	mock := &mockS3{}
	pub := NewPublisher(mock, "routes-bucket", "app/manifest.json")

	m := Export(declTree(t))
	if err := pub.Publish(context.Background(), m); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(mock.inputs) != 1 {
		t.Fatalf("PutObject called %d times, want 1", len(mock.inputs))
	}
	in := mock.inputs[0]

	if got := *in.Bucket; got != "routes-bucket" {
		t.Errorf("Bucket = %q, want routes-bucket", got)
	}
	if got := *in.Key; got != "app/manifest.json" {
		t.Errorf("Key = %q, want app/manifest.json", got)
	}
	if got := *in.ContentType; got != "application/json" {
		t.Errorf("ContentType = %q, want application/json", got)
	}
	if got := in.Metadata["route-count"]; got != "6" {
		t.Errorf("route-count metadata = %q, want 6", got)
	}
	if in.Metadata["publish-time"] == "" {
		t.Error("publish-time metadata missing")
	}

	body, err := io.ReadAll(in.Body)
	if err != nil {
		t.Fatalf("reading uploaded body: %v", err)
	}
	decoded, err := Decode(body)
	if err != nil {
		t.Fatalf("uploaded body does not decode: %v", err)
	}
	if decoded.Routes() != m.Routes() {
		t.Errorf("uploaded manifest has %d routes, want %d", decoded.Routes(), m.Routes())
	}
}

func TestPublisherWithContentType(t *testing.T) {
	mock := &mockS3{}
	pub := NewPublisher(mock, "b", "k").WithContentType("text/json")

	if err := pub.Publish(context.Background(), Export(declTree(t))); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if got := *mock.inputs[0].ContentType; got != "text/json" {
		t.Errorf("ContentType = %q, want text/json", got)
	}
}

func TestPublisherWrapsUploadError(t *testing.T) {
	cause := errors.New("access denied")
	pub := NewPublisher(&mockS3{putErr: cause}, "b", "k")

	err := pub.Publish(context.Background(), Export(declTree(t)))
	if !errors.Is(err, cause) {
		t.Errorf("Publish() error = %v, want wrapped %v", err, cause)
	}
	if !strings.Contains(err.Error(), "s3://b/k") {
		t.Errorf("Publish() error %q should name the destination", err)
	}
}
