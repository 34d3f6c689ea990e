// Package artifact packages a pretrained checkpoint into the archive layout
// the hosting platform expects: a tar.gz with the checkpoint stored as
// model.nemo at the archive root.
package artifact

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/app/util/files"
)

// CheckpointMemberName is the archive member the inference handler loads.
const CheckpointMemberName = "model.nemo"

// Pack creates a deterministic model.tar.gz at outTar containing the
// checkpoint at checkpointPath as model.nemo. When a valid archive already
// exists at outTar, packing is skipped and the existing path is returned.
func Pack(checkpointPath, outTar string) (string, error) {
	if HasCheckpoint(outTar) {
		return outTar, nil
	}

	info, err := os.Stat(checkpointPath)
	if err != nil {
		return "", fmt.Errorf("missing checkpoint file %s: %w", checkpointPath, err)
	}
	if info.Size() <= 0 {
		return "", fmt.Errorf("checkpoint file %s is empty", checkpointPath)
	}

	if err := files.EnsureParentDir(outTar); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeArchive(checkpointPath, outTar, info.Size()); err != nil {
		os.Remove(outTar)
		return "", err
	}

	// Post-pack verification catches corrupt archives immediately.
	if err := Verify(outTar); err != nil {
		os.Remove(outTar)
		return "", fmt.Errorf("packed archive failed verification: %w", err)
	}

	return outTar, nil
}

func writeArchive(checkpointPath, outTar string, size int64) error {
	src, err := os.Open(checkpointPath)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint: %w", err)
	}
	defer src.Close()

	out, err := os.Create(outTar)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", outTar, err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	// Fixed ownership, mode, and mtime keep the archive reproducible.
	hdr := &tar.Header{
		Name:     CheckpointMemberName,
		Typeflag: tar.TypeReg,
		Size:     size,
		Mode:     0o644,
		Uid:      0,
		Gid:      0,
		ModTime:  time.Unix(0, 0),
		Format:   tar.FormatPAX,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write tar header: %w", err)
	}
	if _, err := io.Copy(tw, src); err != nil {
		return fmt.Errorf("failed to write checkpoint into archive: %w", err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to finalize gzip stream: %w", err)
	}

	return nil
}

// HasCheckpoint reports whether tarPath is a readable archive containing a
// non-empty model.nemo member.
func HasCheckpoint(tarPath string) bool {
	return Verify(tarPath) == nil
}

// Verify checks that tarPath is a valid tar.gz with a non-empty regular
// model.nemo member at the archive root.
func Verify(tarPath string) error {
	f, err := os.Open(tarPath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("not a gzip archive: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}
		if hdr.Name != CheckpointMemberName {
			continue
		}
		if hdr.Typeflag != tar.TypeReg {
			return fmt.Errorf("%s is not a regular file", CheckpointMemberName)
		}
		if hdr.Size <= 0 {
			return fmt.Errorf("%s is empty", CheckpointMemberName)
		}
		// Drain the member to make sure the stream decompresses cleanly.
		if _, err := io.Copy(io.Discard, tr); err != nil {
			return fmt.Errorf("failed to read %s: %w", CheckpointMemberName, err)
		}
		return nil
	}

	return fmt.Errorf("archive does not contain %s", CheckpointMemberName)
}

// Unpack extracts the model.nemo member into destDir and returns its path.
func Unpack(tarPath, destDir string) (string, error) {
	f, err := os.Open(tarPath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("not a gzip archive: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read archive: %w", err)
		}
		if hdr.Name != CheckpointMemberName || hdr.Typeflag != tar.TypeReg {
			continue
		}

		dest := filepath.Join(destDir, CheckpointMemberName)
		out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return "", fmt.Errorf("failed to create %s: %w", dest, err)
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return "", fmt.Errorf("failed to extract %s: %w", CheckpointMemberName, err)
		}
		if err := out.Close(); err != nil {
			return "", fmt.Errorf("failed to close %s: %w", dest, err)
		}
		return dest, nil
	}

	return "", fmt.Errorf("archive does not contain %s", CheckpointMemberName)
}
