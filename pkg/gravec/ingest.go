package gravec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/liliang-cn/gravec/pkg/ingest"
)

// IngestText splits content into chunks, stores one linked node per
// chunk, and returns the resulting chain. See ingest.SplitText for the
// accepted methods.
func (db *DB) IngestText(ctx context.Context, filename, content, method string) (*ingest.Result, error) {
	return db.ingestor.IngestText(ctx, filename, content, method)
}

// IngestFile reads a text file from disk and ingests its content under
// the file's base name.
func (db *DB) IngestFile(ctx context.Context, path, method string) (*ingest.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return db.ingestor.IngestText(ctx, filepath.Base(path), string(content), method)
}
