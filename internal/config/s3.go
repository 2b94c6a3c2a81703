package config

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/routesync/internal/errors"
)

const s3Scheme = "s3://"

// ObjectGetter is the part of *s3.Client used to fetch route files.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// IsS3 reports whether source is an s3:// URI.
func IsS3(source string) bool {
	return strings.HasPrefix(source, s3Scheme)
}

// ParseS3URI splits s3://bucket/key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, s3Scheme)
	if !ok {
		return "", "", errors.Newf(errors.CodeConfigFile, "%q is not an s3:// URI", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", errors.Newf(errors.CodeConfigFile, "%q must name a bucket and a key", uri)
	}
	return bucket, key, nil
}

// LoadS3 fetches and parses a route file stored in S3. The format follows
// the key extension.
func LoadS3(ctx context.Context, client ObjectGetter, uri string) (*File, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New(errors.CodeConfigFile).
			WithDetail("Failed to fetch " + uri + ": " + err.Error()).
			Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New(errors.CodeConfigFile).Wrap(err)
	}

	f, err := Parse(data, FormatOf(key))
	if err != nil {
		return nil, err
	}
	f.source = uri
	return f, nil
}

// Open loads a route file from a local path or an s3:// URI. client may be
// nil for local paths.
func Open(ctx context.Context, source string, client ObjectGetter) (*File, error) {
	if !IsS3(source) {
		return LoadFile(source)
	}
	if client == nil {
		return nil, errors.Newf(errors.CodeConfigFile, "no S3 client configured for %s", source)
	}
	return LoadS3(ctx, client, source)
}
