package main

import (
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/wayfind-dev/wayfind/internal/diag"
	"github.com/wayfind-dev/wayfind/internal/project"
	"github.com/wayfind-dev/wayfind/pkg/manifest"
)

func publishCmd() *cobra.Command {
	var (
		manifestPath string
		bucket       string
		key          string
		region       string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the route manifest to S3",
		Long: `Validate the route manifest and upload it to an S3 bucket, where
other tooling (edge configs, documentation, dashboards) can consume
it.

Credentials come from the default AWS chain: environment, shared
config, or instance role.

Examples:
  wayfind publish --bucket my-app-config
  wayfind publish --bucket my-app-config --key routes/prod.json --region eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags win over wayfind.json, which wins over defaults.
			cfg := projectConfig()
			if !cmd.Flags().Changed("manifest") {
				manifestPath = cfg.Manifest
			}
			if !cmd.Flags().Changed("bucket") && cfg.Publish.Bucket != "" {
				bucket = cfg.Publish.Bucket
			}
			if !cmd.Flags().Changed("key") {
				key = cfg.Publish.Key
			}
			if !cmd.Flags().Changed("region") && cfg.Publish.Region != "" {
				region = cfg.Publish.Region
			}
			if bucket == "" {
				return diag.Newf(diag.CategoryUsage,
					"no bucket: pass --bucket or set publish.bucket in %s", project.FileName)
			}
			return runPublish(cmd, manifestPath, bucket, key, region)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", defaultManifest, "Route manifest file")
	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket")
	cmd.Flags().StringVarP(&key, "key", "k", project.DefaultPublishKey, "S3 object key")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default from the AWS config chain)")

	return cmd
}

func runPublish(cmd *cobra.Command, manifestPath, bucket, key, region string) error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return classifyManifestError(manifestPath, err)
	}

	// Never publish a manifest the router would refuse to build.
	if err := m.Validate(); err != nil {
		return fmt.Errorf("manifest %s is invalid: %w", manifestPath, err)
	}

	ctx := cmd.Context()

	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("loading AWS config: %w", err)
	}

	pub := manifest.NewPublisher(s3.NewFromConfig(cfg), bucket, key)
	if err := pub.Publish(ctx, m); err != nil {
		return err
	}

	success("published %d routes to s3://%s/%s", m.Routes(), bucket, key)
	return nil
}
