// Package storage moves model artifacts in and out of object storage.
package storage

import (
	"context"
	"time"
)

// UploadResult describes an uploaded artifact.
type UploadResult struct {
	Key        string    `json:"key"`
	Location   string    `json:"location"`
	SHA256     string    `json:"sha256"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ArtifactStore handles model artifact storage operations.
type ArtifactStore interface {
	// UploadArtifact uploads the local file under the given object key.
	UploadArtifact(ctx context.Context, localPath, key string) (*UploadResult, error)

	// DownloadArtifact fetches the object into destPath.
	DownloadArtifact(ctx context.Context, key, destPath string) error

	// ArtifactExists reports whether the object key is present.
	ArtifactExists(ctx context.Context, key string) (bool, error)
}
