package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/util/files"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/config"
)

// MinioArtifactStore implements ArtifactStore using MinIO.
type MinioArtifactStore struct {
	client       *minio.Client
	bucket       string
	endpoint     string
	useSSL       bool
	showProgress bool
}

// NewMinioArtifactStore creates a MinIO-backed store from the environment
// and makes sure the target bucket exists.
func NewMinioArtifactStore() (*MinioArtifactStore, error) {
	endpoint := config.GetEnvOrDefault("MINIO_ENDPOINT", "localhost:9000")
	accessKey := config.GetEnvOrDefault("MINIO_ACCESS_KEY", "minioadmin")
	secretKey := config.GetEnvOrDefault("MINIO_SECRET_KEY", "minioadmin")
	bucket := config.GetEnvOrDefault("MINIO_BUCKET", "asr-model-artifacts")
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	store := &MinioArtifactStore{
		client:       client,
		bucket:       bucket,
		endpoint:     endpoint,
		useSSL:       useSSL,
		showProgress: isTTY(os.Stderr),
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return store, nil
}

// UploadArtifact uploads the local file under the given object key.
func (s *MinioArtifactStore) UploadArtifact(ctx context.Context, localPath, key string) (*UploadResult, error) {
	size, err := files.GetFileSize(localPath)
	if err != nil {
		return nil, err
	}
	sha, err := files.CalculateFileHash(localPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	var progress *mpb.Progress
	if s.showProgress {
		progress = mpb.New(mpb.WithOutput(os.Stderr), mpb.WithRefreshRate(120*time.Millisecond))
		bar := progress.AddBar(size,
			mpb.PrependDecorators(
				decor.Name("Uploading "+key+" "),
				decor.CountersKibiByte("% .2f / % .2f"),
			),
			mpb.AppendDecorators(
				decor.NewPercentage("%.1f", decor.WCSyncSpace),
			),
		)
		reader = bar.ProxyReader(f)
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: "application/gzip",
		UserMetadata: map[string]string{
			"sha256":      sha,
			"uploaded-at": time.Now().Format(time.RFC3339),
		},
	})
	if progress != nil {
		progress.Wait()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upload artifact to MinIO: %w", err)
	}

	return &UploadResult{
		Key:        key,
		Location:   s.objectURL(key),
		SHA256:     sha,
		Size:       size,
		UploadedAt: time.Now(),
	}, nil
}

// DownloadArtifact fetches the object into destPath.
func (s *MinioArtifactStore) DownloadArtifact(ctx context.Context, key, destPath string) error {
	if err := files.EnsureParentDir(destPath); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	if err := s.client.FGetObject(ctx, s.bucket, key, destPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("failed to download artifact %s: %w", key, err)
	}
	return nil
}

// ArtifactExists reports whether the object key is present.
func (s *MinioArtifactStore) ArtifactExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat artifact %s: %w", key, err)
	}
	return true, nil
}

func (s *MinioArtifactStore) objectURL(key string) string {
	protocol := "http"
	if s.useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.endpoint, s.bucket, key)
}

func isTTY(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
