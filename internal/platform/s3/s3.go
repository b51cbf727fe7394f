// Package s3 hosts category images in an S3-compatible bucket. It is the
// self-hosted alternative to Cloudinary (MinIO, Ceph, AWS).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"fastcart-api/internal/app"
	"fastcart-api/internal/config"
	"fastcart-api/internal/imaging"
)

const maxDimension = 500

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Client struct {
	api       objectAPI
	bucket    string
	endpoint  string
	publicURL string
	folder    string
}

// New builds a path-style client with static credentials.
func New(cfg config.S3Config, folder string) (*Client, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 configuration is incomplete")
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")

	api := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	})
	return newClient(api, cfg.Bucket, endpoint, cfg.PublicURL, folder), nil
}

func newClient(api objectAPI, bucket, endpoint, publicURL, folder string) *Client {
	return &Client{
		api:       api,
		bucket:    bucket,
		endpoint:  strings.TrimRight(endpoint, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
		folder:    strings.Trim(folder, "/"),
	}
}

// Upload stores the image bounded to the same 500x500 box the Cloudinary
// provider requests.
func (c *Client) Upload(ctx context.Context, file app.MediaFile) (string, error) {
	data, err := io.ReadAll(file.Body)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	data, _, err = imaging.Fit(data, file.ContentType, maxDimension, maxDimension)
	if err != nil {
		return "", fmt.Errorf("prepare upload: %w", err)
	}

	key := c.objectKey(file.Filename)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(file.ContentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	}

	if _, err := c.api.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return c.fileURL(key), nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// PublicID returns the object key for URLs served from this bucket.
func (c *Client) PublicID(imageURL string) (string, bool) {
	prefixes := []string{c.endpoint + "/" + c.bucket + "/"}
	if c.publicURL != "" {
		prefixes = append([]string{c.publicURL + "/"}, prefixes...)
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(imageURL, prefix) && len(imageURL) > len(prefix) {
			return imageURL[len(prefix):], true
		}
	}
	return "", false
}

func (c *Client) fileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

func (c *Client) objectKey(filename string) string {
	name := uuid.NewString() + strings.ToLower(path.Ext(filename))
	if c.folder == "" {
		return name
	}
	return c.folder + "/" + name
}
