package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/routesync"
	"github.com/vango-dev/routesync/internal/config"
	"github.com/vango-dev/routesync/pkg/mapper"
)

// loadApp resolves the route file named by the flags and builds an App.
func loadApp(ctx context.Context, flags *globalFlags, cfgFn func(*routesync.Config)) (*routesync.App, error) {
	source := flags.config
	if source == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root, err := config.FindProjectRoot(wd)
		if err != nil {
			return nil, err
		}
		f, err := config.Load(root)
		if err != nil {
			return nil, err
		}
		source = f.Source()
	}

	var client config.ObjectGetter
	if config.IsS3(source) {
		client = newS3Client(flags.region)
	}

	cfg, err := routesync.LoadConfig(ctx, source, client)
	if err != nil {
		return nil, err
	}
	if cfgFn != nil {
		cfgFn(&cfg)
	}
	return routesync.New(cfg)
}

// newS3Client builds an S3 client from the standard AWS environment
// variables.
func newS3Client(region string) *s3.Client {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}

	creds := aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
		}
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}, nil
	})

	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(creds),
	})
}

// parsePairs turns key=value arguments into a payload. Values use the
// URL codec, so ":42" is a number and ":true" a boolean.
func parsePairs(args []string) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q, expected key=value", arg)
		}
		out[key] = mapper.DecodeValue(value)
	}
	return out, nil
}
