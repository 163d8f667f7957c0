// Package batch imports every report of a directory in one run.
package batch

import (
	"context"
	"path/filepath"

	"contajur/ledger/internal/fileutils"
	"contajur/ledger/internal/importer"
	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"
)

// FileImporter imports a single report file.
type FileImporter interface {
	ImportFile(ctx context.Context, path string) (importer.ImportResult, error)
}

// FileResult is the outcome of one file of a batch.
type FileResult struct {
	File        string
	Period      models.Period
	Diagnostics int
	Err         error
}

// Summary is the outcome of a batch run, in processing order.
type Summary struct {
	Results []FileResult
	// Replaced lists periods imported more than once; the last file wins.
	Replaced []models.Period
}

// Succeeded counts the files that were stored.
func (s Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the results that were not stored.
func (s Summary) Failed() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// BatchImporter runs imports sequentially over a directory.
type BatchImporter struct {
	importer FileImporter
	logger   logging.Logger
}

// NewBatchImporter creates a new BatchImporter instance
func NewBatchImporter(im FileImporter, logger logging.Logger) *BatchImporter {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &BatchImporter{importer: im, logger: logger}
}

// ImportDir imports the report files of dir in name order. A failing file
// is logged and skipped; the others are still imported.
func (b *BatchImporter) ImportDir(ctx context.Context, dir string) (Summary, error) {
	files, err := fileutils.ListReportFiles(dir)
	if err != nil {
		return Summary{}, err
	}
	b.logger.Info("Batch import started",
		logging.Field{Key: logging.FieldInputFile, Value: dir},
		logging.Field{Key: logging.FieldCount, Value: len(files)})
	return b.ImportFiles(ctx, files)
}

// ImportFiles imports files one after the other. It stops early only when
// ctx is cancelled.
func (b *BatchImporter) ImportFiles(ctx context.Context, files []string) (Summary, error) {
	var summary Summary
	seen := make(map[models.Period]string)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res, err := b.importer.ImportFile(ctx, file)
		result := FileResult{File: file, Err: err}
		if err != nil {
			b.logger.WithError(err).Error("Failed to import file",
				logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)})
			summary.Results = append(summary.Results, result)
			continue
		}

		result.Period = res.Period
		result.Diagnostics = len(res.Diagnostics)
		summary.Results = append(summary.Results, result)

		if prev, ok := seen[res.Period]; ok {
			summary.Replaced = append(summary.Replaced, res.Period)
			b.logger.Warn("Period imported twice, keeping the later file",
				logging.Field{Key: logging.FieldPeriod, Value: res.Period.String()},
				logging.Field{Key: "previous_file", Value: filepath.Base(prev)},
				logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)})
		}
		seen[res.Period] = file
	}

	b.logger.Info("Batch import finished",
		logging.Field{Key: "succeeded", Value: summary.Succeeded()},
		logging.Field{Key: "failed", Value: len(summary.Failed())})
	return summary, nil
}
