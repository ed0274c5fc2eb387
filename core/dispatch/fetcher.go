package dispatch

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"ml-pipeline/core/models"
)

// ManifestEntry is the file read out of the build artifact
const ManifestEntry = "manifest.json"

// Fetcher downloads a build artifact and extracts its manifest
type Fetcher struct {
	store   ObjectStore
	tempDir string
}

// NewFetcher creates a new fetcher. An empty tempDir uses os.TempDir.
func NewFetcher(store ObjectStore, tempDir string) *Fetcher {
	return &Fetcher{
		store:   store,
		tempDir: tempDir,
	}
}

// Fetch returns the raw bytes of manifest.json from the zipped artifact.
// The downloaded archive is removed before Fetch returns.
func (f *Fetcher) Fetch(ctx context.Context, ref models.ArtifactRef) ([]byte, error) {
	tmp, err := os.CreateTemp(f.tempDir, "artifact-*.zip")
	if err != nil {
		return nil, errorf(DownloadError, "failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := f.store.Download(ctx, ref.Location.Bucket, ref.Location.Key, tmp); err != nil {
		return nil, errorf(DownloadError, "failed to download s3://%s/%s: %w", ref.Location.Bucket, ref.Location.Key, err)
	}

	info, err := tmp.Stat()
	if err != nil {
		return nil, errorf(DownloadError, "failed to stat downloaded artifact: %w", err)
	}

	return extractEntry(tmp, info.Size(), ManifestEntry)
}

func extractEntry(r io.ReaderAt, size int64, name string) ([]byte, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errorf(ExtractionError, "artifact is not a zip archive: %w", err)
	}

	entry, err := zr.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errorf(ExtractionError, "%s not found in artifact", name)
		}
		return nil, errorf(ExtractionError, "failed to open %s: %w", name, err)
	}
	defer entry.Close()

	data, err := io.ReadAll(entry)
	if err != nil {
		return nil, newError(ExtractionError, fmt.Errorf("failed to read %s: %w", name, err))
	}
	return data, nil
}
