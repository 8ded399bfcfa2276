package storage

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// Uploader hands out presigned upload URLs for task media. Only admin task
// authoring uses it; learners stream media straight from the bucket.
type Uploader interface {
	SignatureURL(fileName, method, contentType string) (string, error)
	ObjectURL(fileName string) string
}

const signatureExpirySeconds = 600

type ossUploader struct {
	bucket     *oss.Bucket
	bucketName string
	endpoint   string
}

// NewOSSUploader connects to the configured Aliyun OSS bucket.
func NewOSSUploader(endpoint, bucketName, accessKeyID, accessKeySecret string) (Uploader, error) {
	client, err := oss.New(endpoint, accessKeyID, accessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to open OSS bucket %s: %w", bucketName, err)
	}

	return &ossUploader{
		bucket:     bucket,
		bucketName: bucketName,
		endpoint:   endpoint,
	}, nil
}

// SignatureURL returns a short-lived presigned URL for the given method.
func (u *ossUploader) SignatureURL(fileName, method, contentType string) (string, error) {
	var options []oss.Option
	if contentType != "" {
		options = append(options, oss.ContentType(contentType))
	}

	signed, err := u.bucket.SignURL(fileName, oss.HTTPMethod(strings.ToUpper(method)), signatureExpirySeconds, options...)
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %w", fileName, err)
	}
	return signed, nil
}

// ObjectURL returns the canonical public URL of an uploaded object.
func (u *ossUploader) ObjectURL(fileName string) string {
	return fmt.Sprintf("https://%s.%s/%s", u.bucketName, u.endpoint, url.PathEscape(fileName))
}
