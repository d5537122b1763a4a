// Package storage provides the S3 object storage client shared by the audit
// sidecar and the asset uploader. It wraps the AWS SDK v2. Against AWS it
// uses virtual-hosted addressing; when a custom endpoint is configured
// (MinIO, Ceph, LocalStack) it switches to path-style access.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hristiyandudev55/flipcards-learner/internal/config"
)

// Client wraps an S3 client bound to a single bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	region    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
}

// Option tweaks the underlying SDK options.
type Option func(*s3.Options)

// WithHTTPClient overrides the HTTP client used by the SDK.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *s3.Options) { o.HTTPClient = hc }
}

// New creates a storage client from cfg. It returns (nil, nil) when the
// bucket or credentials are missing, allowing the app to start without
// object storage.
func New(cfg config.S3Config, opts ...Option) (*Client, error) {
	if !cfg.Configured() {
		return nil, nil
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")

	o := s3.Options{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		// Only send checksums the operation requires; many S3-compatible
		// services reject the newer default trailers.
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	}
	if endpoint != "" {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		s3:        s3.New(o),
		bucket:    cfg.Bucket,
		region:    region,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string { return c.bucket }

// Upload stores an object under key. body should be seekable (for example a
// *bytes.Reader) so the SDK can sign the payload over plain HTTP.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// Delete removes an object. Deleting a missing key is not an error in S3.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL for key. The configured public URL wins,
// then the path-style endpoint URL, then the AWS virtual-hosted form.
func (c *Client) FileURL(key string) string {
	switch {
	case c.publicURL != "":
		return c.publicURL + "/" + key
	case c.endpoint != "":
		return c.endpoint + "/" + c.bucket + "/" + key
	default:
		return "https://" + c.bucket + ".s3.amazonaws.com/" + key
	}
}

// ExtractKey recovers the object key from a URL produced by FileURL. As a
// last resort it accepts anything after ".com/", which covers regional AWS
// hostnames. It returns ("", false) when no key can be found.
func (c *Client) ExtractKey(rawURL string) (string, bool) {
	if c.publicURL != "" {
		if key, ok := strings.CutPrefix(rawURL, c.publicURL+"/"); ok && key != "" {
			return key, true
		}
	}
	if c.endpoint != "" {
		if key, ok := strings.CutPrefix(rawURL, c.endpoint+"/"+c.bucket+"/"); ok && key != "" {
			return key, true
		}
	}
	if _, key, ok := strings.Cut(rawURL, ".com/"); ok && key != "" {
		return key, true
	}
	return "", false
}
