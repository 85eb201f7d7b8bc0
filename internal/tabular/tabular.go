// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tabular persists records as a single-sheet spreadsheet and reads
// produced spreadsheets back.
package tabular

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/pdiddy/pubmed-export/pkg/types"
)

// Sink is an in-memory table that is flushed to storage exactly once.
type Sink interface {
	// AppendRow adds one row after the rows already appended.
	AppendRow(cells []string) error

	// WriteTo serializes the whole table to w.
	WriteTo(w io.Writer) (int64, error)

	// Close releases the table's resources.
	Close() error
}

// PersistenceError reports that the table could not be written to Path.
type PersistenceError struct {
	Path string
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Writer builds a table through a Sink and saves it to a path.
type Writer struct {
	newSink func() (Sink, error)
}

// NewWriter returns a Writer that produces XLSX files.
func NewWriter() *Writer {
	return &Writer{newSink: func() (Sink, error) { return NewXLSXSink() }}
}

// NewWriterWithSink returns a Writer that builds tables with newSink.
func NewWriterWithSink(newSink func() (Sink, error)) *Writer {
	return &Writer{newSink: newSink}
}

// Write creates or overwrites destination with a header row followed by one
// row per record, in the order rows yields them. Absent keywords render as
// an empty cell.
//
// The table is written to a temp file in the destination directory and
// renamed over destination on success, so a failed run never leaves a
// partial file behind. Storage failures are returned as *PersistenceError.
// It returns the number of data rows written.
func (wr *Writer) Write(rows iter.Seq[types.Record], headers []string, destination string) (int, error) {
	sink, err := wr.newSink()
	if err != nil {
		return 0, fmt.Errorf("creating table: %w", err)
	}
	defer sink.Close()

	if err := sink.AppendRow(headers); err != nil {
		return 0, fmt.Errorf("appending header row: %w", err)
	}
	n := 0
	for rec := range rows {
		if err := sink.AppendRow(rec.Cells()); err != nil {
			return n, fmt.Errorf("appending row %d: %w", n+1, err)
		}
		n++
	}

	if err := save(sink, destination); err != nil {
		return n, err
	}
	return n, nil
}

// Write saves rows to destination as an XLSX file. See Writer.Write.
func Write(rows iter.Seq[types.Record], headers []string, destination string) (int, error) {
	return NewWriter().Write(rows, headers, destination)
}

func save(sink Sink, destination string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destination), ".pubmed-export-*.tmp")
	if err != nil {
		return &PersistenceError{Path: destination, Op: "creating temp file", Err: err}
	}
	tmpPath := tmpFile.Name()

	_, writeErr := sink.WriteTo(tmpFile)
	closeErr := tmpFile.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		os.Remove(tmpPath)
		return &PersistenceError{Path: destination, Op: "writing table", Err: err}
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return &PersistenceError{Path: destination, Op: "setting permissions", Err: err}
	}
	if err := os.Rename(tmpPath, destination); err != nil {
		os.Remove(tmpPath)
		return &PersistenceError{Path: destination, Op: "renaming temp file", Err: err}
	}
	return nil
}

// Slice adapts a record slice to the sequence Write consumes.
func Slice(records []types.Record) iter.Seq[types.Record] {
	return func(yield func(types.Record) bool) {
		for _, r := range records {
			if !yield(r) {
				return
			}
		}
	}
}
