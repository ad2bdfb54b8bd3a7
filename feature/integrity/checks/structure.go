package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"showtime-manager/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// RequiredFolders returns the folders the ingestion run reads from and archives to.
func RequiredFolders(cfg storage.Config) []string {
	return []string{
		strings.TrimSuffix(cfg.BatchPrefix, "/"),
		strings.TrimSuffix(cfg.ArchivePrefix, "/"),
	}
}

// CheckStructure returns the folders missing from the bucket. When the bucket itself
// is absent every folder is reported.
func CheckStructure(ctx context.Context, client storage.Client, bucket string, folders []string) ([]string, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return append([]string{}, folders...), nil
	}

	var missing []string
	for _, folder := range folders {
		opts := minio.ListObjectsOptions{
			Prefix:    folder + "/",
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for obj := range client.ListObjects(ctx, bucket, opts) {
			found = obj.Err == nil
			break
		}

		if !found {
			missing = append(missing, folder)
		}
	}

	return missing, nil
}

// FixStructure creates the bucket if needed and a marker object for every missing folder.
func FixStructure(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger, missing []string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		logger.Info("Created bucket", zap.String("bucket", bucket))
	}

	for _, folder := range missing {
		_, err := client.PutObject(ctx, bucket, folder+"/", bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create folder", zap.String("folder", folder), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", folder))
	}
	return nil
}
