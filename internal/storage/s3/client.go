package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"stuf-api/internal/config"
	"stuf-api/internal/domain/file"
	"stuf-api/internal/storage"
)

const (
	emptyAWSSessionToken = ""

	defaultListContentType  = "application/octet-stream"
	metadataKeyLastModified = "last_modified"

	errCodeNotFound = "NotFound"

	errFailedCreateAWSSessionFmt = "failed to create AWS session: %w"
	errFailedStoreObjectFmt      = "failed to store object %s: %w"
	errFailedRetrieveObjectFmt   = "failed to retrieve object %s: %w"
	errFailedReadObjectFmt       = "failed to read object %s: %w"
	errFailedListObjectsFmt      = "failed to list objects for collection %s: %w"
	errFailedDeleteObjectFmt     = "failed to delete object %s: %w"
	errFailedStatObjectFmt       = "failed to stat object %s: %w"
	errObjectNotFoundFmt         = "object %s: %w"
)

// Client is the S3-compatible implementation of the storage
// repository. It works against AWS S3 proper or MinIO via a custom
// endpoint with path-style addressing.
type Client struct {
	svc    *s3.S3
	bucket string
}

func NewClient(cfg *config.S3Config) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Endpoint: aws.String(cfg.Endpoint),
		Region:   aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	})

	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	return &Client{
		svc:    s3.New(sess),
		bucket: cfg.Bucket,
	}, nil
}

// Store uploads content under the file's storage key with its
// flattened metadata and content type.
func (c *Client) Store(ctx context.Context, content io.Reader, f *file.File) error {
	body, err := seekableBody(content)
	if err != nil {
		return fmt.Errorf(errFailedReadObjectFmt, f.ObjectName, err)
	}

	metadata := make(map[string]*string, len(f.Metadata))
	for key, value := range f.Metadata {
		metadata[key] = aws.String(value)
	}

	_, err = c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(f.ObjectName),
		Body:        body,
		ContentType: aws.String(f.ContentType),
		Metadata:    metadata,
	})

	if err != nil {
		return fmt.Errorf(errFailedStoreObjectFmt, f.ObjectName, err)
	}

	return nil
}

// seekableBody adapts upload content to the signer's io.ReadSeeker
// requirement. Content that can already seek, such as the use-case
// layer's bytes.Reader, passes through without another copy.
func seekableBody(content io.Reader) (io.ReadSeeker, error) {
	if seeker, ok := content.(io.ReadSeeker); ok {
		return seeker, nil
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// Retrieve fetches an object and reconstructs its File record from the
// storage key and the object's stored metadata.
func (c *Client) Retrieve(ctx context.Context, objectName string) ([]byte, *file.File, error) {
	out, err := c.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectName),
	})

	if err != nil {
		if isNotFound(err) {
			return nil, nil, fmt.Errorf(errObjectNotFoundFmt, objectName, storage.ErrObjectNotFound)
		}
		return nil, nil, fmt.Errorf(errFailedRetrieveObjectFmt, objectName, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, nil, fmt.Errorf(errFailedReadObjectFmt, objectName, err)
	}

	metadata := make(map[string]string, len(out.Metadata))
	for key, value := range out.Metadata {
		metadata[strings.ToLower(key)] = aws.StringValue(value)
	}

	size := int64(len(content))
	record := file.FromStoragePath(objectName, aws.StringValue(out.ContentType), &size, metadata)

	return content, record, nil
}

// ListCollection lists every object under the collection prefix. The
// store's listing carries no content type or user metadata, so records
// come back with the listing defaults.
func (c *Client) ListCollection(ctx context.Context, collection string) ([]*file.File, error) {
	prefix := file.CollectionPrefix(collection)

	var files []*file.File
	err := c.svc.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			metadata := map[string]string{}
			if obj.LastModified != nil {
				metadata[metadataKeyLastModified] = obj.LastModified.UTC().Format(time.RFC3339)
			}
			files = append(files, file.FromStoragePath(
				aws.StringValue(obj.Key),
				defaultListContentType,
				obj.Size,
				metadata,
			))
		}
		return true
	})

	if err != nil {
		return nil, fmt.Errorf(errFailedListObjectsFmt, collection, err)
	}

	return files, nil
}

// Delete removes an object, reporting ErrObjectNotFound when the key
// does not exist. S3 deletes are silently idempotent, so existence is
// checked first to surface the missing-object case.
func (c *Client) Delete(ctx context.Context, objectName string) error {
	exists, err := c.Exists(ctx, objectName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf(errObjectNotFoundFmt, objectName, storage.ErrObjectNotFound)
	}

	_, err = c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectName),
	})

	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, objectName, err)
	}

	return nil
}

// Exists reports whether the storage key is present.
func (c *Client) Exists(ctx context.Context, objectName string) (bool, error) {
	_, err := c.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectName),
	})

	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf(errFailedStatObjectFmt, objectName, err)
	}

	return true, nil
}

func isNotFound(err error) bool {
	var awsErr awserr.Error
	if errors.As(err, &awsErr) {
		switch awsErr.Code() {
		case s3.ErrCodeNoSuchKey, errCodeNotFound:
			return true
		}
	}
	return false
}
