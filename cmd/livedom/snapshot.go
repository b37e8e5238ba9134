package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/vango-dev/livedom/internal/config"
	"github.com/vango-dev/livedom/pkg/snapshot"
)

func snapshotCmd(opts *rootOptions) *cobra.Command {
	var (
		key    string
		dir    string
		bucket string
		prefix string
		region string
	)

	cmd := &cobra.Command{
		Use:   "snapshot [todo...]",
		Short: "Store a rendered snapshot of the todo app",
		Long: `Render the todo app and store the page in a directory or an S3 bucket.

S3 is used when a bucket is configured. Credentials are read from
AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.

Examples:
  livedom snapshot --dir=./snapshots
  livedom snapshot --bucket=pages --prefix=todo/ --region=eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.Snapshot.Dir = dir
			}
			if bucket != "" {
				cfg.Snapshot.S3.Bucket = bucket
			}
			if prefix != "" {
				cfg.Snapshot.S3.Prefix = prefix
			}
			if region != "" {
				cfg.Snapshot.S3.Region = region
			}

			store, where, err := openStore(cfg.Snapshot)
			if err != nil {
				return err
			}
			page, err := demoPage(cfg.Server.Title, cfg.Server.Lang, args)
			if err != nil {
				return err
			}
			if key == "" {
				key = snapshot.Key(cfg.Name, time.Now())
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			if err := snapshot.Capture(ctx, store, key, page); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Stored %s in %s", key, where)
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "Snapshot key (default: timestamped)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Snapshot directory (default from livedom.json)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket")
	cmd.Flags().StringVar(&prefix, "prefix", "", "S3 key prefix")
	cmd.Flags().StringVar(&region, "region", "", "S3 region (default: $AWS_REGION)")

	return cmd
}

// openStore returns the configured snapshot store and a description of
// where it writes.
func openStore(cfg config.SnapshotConfig) (snapshot.Store, string, error) {
	if !cfg.UsesS3() {
		store, err := snapshot.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	}

	region := cfg.S3.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	s3opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(envCredentials()),
	}
	if cfg.S3.Endpoint != "" {
		s3opts.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		s3opts.UsePathStyle = true
	}
	store := snapshot.NewS3Store(s3.New(s3opts), cfg.S3.Bucket, cfg.S3.Prefix)
	return store, "s3://" + cfg.S3.Bucket + "/" + cfg.S3.Prefix, nil
}

// envCredentials reads static credentials from the standard AWS variables.
func envCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, errors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
		}
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "Environment",
		}, nil
	})
}
