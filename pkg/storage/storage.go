// Package storage archives generated report files.
package storage

import (
	"context"
	"io"
)

// ReportStore saves named report documents.
type ReportStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
