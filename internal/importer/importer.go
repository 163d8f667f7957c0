// Package importer runs the spreadsheet-to-ledger pipeline and the manual
// withdrawal operations against the ledger store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"contajur/ledger/internal/categorizer"
	"contajur/ledger/internal/common"
	"contajur/ledger/internal/currencyutils"
	"contajur/ledger/internal/dateutils"
	"contajur/ledger/internal/fileutils"
	"contajur/ledger/internal/locator"
	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"
	"contajur/ledger/internal/parsererror"
	"contajur/ledger/internal/reconciler"
	"contajur/ledger/internal/sheet"
	"contajur/ledger/internal/storage"
	"contajur/ledger/internal/validation"
)

// CacheInvalidator drops cached views of a period after a write.
type CacheInvalidator interface {
	Invalidate(period models.Period)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(models.Period) {}

// Options configure an Importer.
type Options struct {
	Strategy  locator.Strategy
	SheetName string
	Policy    reconciler.Policy
	// Now is the clock used when neither the sheet nor the filename carries
	// a period.
	Now func() time.Time
}

// ImportResult describes one successful import.
type ImportResult struct {
	Period       models.Period
	PeriodSource dateutils.PeriodSource
	Strategy     string
	Sheet        string
	Ledger       models.Ledger
	Diagnostics  parsererror.Diagnostics
	DroppedRows  []models.ClassifiedRow
	Stats        models.CategorizationStats
}

// Importer wires the pipeline stages to a ledger store.
type Importer struct {
	store      storage.LedgerStore
	classifier *categorizer.Classifier
	cache      CacheInvalidator
	opts       Options
	logger     logging.Logger
}

// NewImporter creates an importer. A nil cache disables invalidation.
func NewImporter(store storage.LedgerStore, classifier *categorizer.Classifier, cache CacheInvalidator, opts Options, logger logging.Logger) *Importer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if cache == nil {
		cache = noopInvalidator{}
	}
	if opts.Strategy == nil {
		opts.Strategy = locator.DefaultMarkerStrategy()
	}
	if opts.SheetName == "" {
		opts.SheetName = models.DefaultSheetName
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Importer{
		store:      store,
		classifier: classifier,
		cache:      cache,
		opts:       opts,
		logger:     logger,
	}
}

// Import reads one report upload and replaces the ledger of its period.
// Nothing is written unless the sheet was located and reconciled.
func (im *Importer) Import(ctx context.Context, r io.Reader, filename string) (ImportResult, error) {
	start := im.opts.Now()
	logger := im.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filename},
		logging.Field{Key: logging.FieldStrategy, Value: im.opts.Strategy.Name()},
	)
	logger.Info("Importing report")

	if len(im.classifier.Taxonomy().Categories) == 0 {
		err := &parsererror.ValidationError{FilePath: filename, Reason: "taxonomy has no categories, refusing to replace the stored period"}
		logger.WithError(err).Error("Import aborted")
		return ImportResult{}, err
	}

	grid, err := sheet.Open(r, filename, im.opts.SheetName)
	if err != nil {
		logger.WithError(err).Error("Failed to read report")
		return ImportResult{}, err
	}

	located, err := locator.Locate(grid, im.opts.Strategy, locator.Hint{
		Filename: filepath.Base(filename),
		Now:      im.opts.Now,
	})
	if err != nil {
		logger.WithError(err).Error("Report layout not recognized")
		return ImportResult{}, err
	}
	logger = logger.WithField(logging.FieldPeriod, located.Period.String())

	rows, rowDiags, err := im.classifier.ClassifyRows(ctx, located.Items)
	if err != nil {
		return ImportResult{}, fmt.Errorf("error classifying rows: %w", err)
	}

	var stats models.CategorizationStats
	for _, row := range rows {
		stats.Record(row.Classification.Kind)
	}
	stats.LogSummary(logger, located.Period)

	reconciled, err := reconciler.Reconcile(located, rows, im.opts.Policy)
	if err != nil {
		return ImportResult{}, fmt.Errorf("error reconciling %s: %w", located.Period, err)
	}

	if err := im.store.ReplacePeriod(ctx, reconciled.Ledger); err != nil {
		logger.WithError(err).Error("Failed to store ledger")
		return ImportResult{}, err
	}
	im.cache.Invalidate(located.Period)

	var diags parsererror.Diagnostics
	diags = append(diags, located.Diagnostics...)
	diags = append(diags, rowDiags...)
	for _, d := range diags {
		logDiagnostic(logger, d)
	}
	logger.Info("Report imported",
		logging.Field{Key: logging.FieldCount, Value: len(reconciled.Ledger.Expenses)},
		logging.Field{Key: logging.FieldDiagnostics, Value: len(diags)},
		logging.Field{Key: logging.FieldDuration, Value: im.opts.Now().Sub(start).Milliseconds()})

	return ImportResult{
		Period:       located.Period,
		PeriodSource: located.PeriodSource,
		Strategy:     located.Strategy,
		Sheet:        located.Sheet,
		Ledger:       reconciled.Ledger,
		Diagnostics:  diags,
		DroppedRows:  reconciled.Dropped,
		Stats:        stats,
	}, nil
}

// ImportFile validates and imports the report at path.
func (im *Importer) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	if err := validation.IsValidInputFile(path); err != nil {
		return ImportResult{}, err
	}
	f, err := fileutils.OpenFile(path)
	if err != nil {
		return ImportResult{}, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			im.logger.WithError(err).Warn("Failed to close file")
		}
	}()
	return im.Import(ctx, f, path)
}

// AddWithdrawal records a manual withdrawal of person and lowers their share.
func (im *Importer) AddWithdrawal(ctx context.Context, period models.Period, person string, amount string) (models.Withdrawal, error) {
	p, err := validation.IsValidWithdrawalPerson(person)
	if err != nil {
		return models.Withdrawal{}, err
	}
	value, err := currencyutils.ParseAmount(amount)
	if err != nil {
		return models.Withdrawal{}, fmt.Errorf("invalid withdrawal amount %q: %w", amount, err)
	}
	if err := validation.IsValidWithdrawalAmount(value); err != nil {
		return models.Withdrawal{}, err
	}

	w, err := im.store.AddManualWithdrawal(ctx, period, p, value)
	if err != nil {
		return models.Withdrawal{}, err
	}
	im.cache.Invalidate(period)
	im.logger.Info("Manual withdrawal added",
		logging.Field{Key: logging.FieldWithdrawal, Value: w.ID},
		logging.Field{Key: logging.FieldPeriod, Value: period.String()},
		logging.Field{Key: logging.FieldPartner, Value: string(p)},
		logging.Field{Key: logging.FieldAmount, Value: value.String()})
	return w, nil
}

// ImportWithdrawals adds every manual withdrawal listed in a CSV file with
// period, person and amount columns. It stops at the first failing row; rows
// before it stay recorded.
func (im *Importer) ImportWithdrawals(ctx context.Context, path string) ([]models.Withdrawal, error) {
	records, err := common.ReadCSVFile[common.WithdrawalRecord](path, im.logger)
	if err != nil {
		return nil, err
	}

	added := make([]models.Withdrawal, 0, len(records))
	for i, rec := range records {
		period, err := models.ParsePeriod(rec.Period)
		if err != nil {
			return added, fmt.Errorf("line %d: %w", i+2, err)
		}
		w, err := im.AddWithdrawal(ctx, period, rec.Person, rec.Amount)
		if err != nil {
			return added, fmt.Errorf("line %d: %w", i+2, err)
		}
		added = append(added, w)
	}
	return added, nil
}

// DeleteWithdrawal removes a manual withdrawal and gives the amount back to
// the partner's share.
func (im *Importer) DeleteWithdrawal(ctx context.Context, id int64) (models.Withdrawal, error) {
	w, err := im.store.DeleteManualWithdrawal(ctx, id)
	if err != nil {
		return models.Withdrawal{}, err
	}
	im.cache.Invalidate(w.Period)
	im.logger.Info("Manual withdrawal deleted",
		logging.Field{Key: logging.FieldWithdrawal, Value: id},
		logging.Field{Key: logging.FieldPeriod, Value: w.Period.String()})
	return w, nil
}

// DeletePeriod removes everything stored for period.
func (im *Importer) DeletePeriod(ctx context.Context, period models.Period) error {
	if err := im.store.DeletePeriod(ctx, period); err != nil {
		return err
	}
	im.cache.Invalidate(period)
	im.logger.Info("Period deleted", logging.Field{Key: logging.FieldPeriod, Value: period.String()})
	return nil
}

func logDiagnostic(logger logging.Logger, d error) {
	var numeric *parsererror.NumericCoercionFailure
	var uncategorized *parsererror.UncategorizedRow
	switch {
	case errors.As(d, &numeric) && numeric.Cell != "":
		logger.WithField(logging.FieldCell, numeric.Cell).Warn(d.Error())
	case errors.As(d, &uncategorized):
		logger.WithField(logging.FieldRow, uncategorized.Row).Warn(d.Error())
	default:
		logger.Warn(d.Error())
	}
}
