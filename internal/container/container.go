// Package container provides dependency injection for the contajur application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"contajur/ledger/internal/batch"
	"contajur/ledger/internal/categorizer"
	"contajur/ledger/internal/common"
	"contajur/ledger/internal/config"
	"contajur/ledger/internal/importer"
	"contajur/ledger/internal/locator"
	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/reconciler"
	"contajur/ledger/internal/report"
	"contajur/ledger/internal/storage"
	"contajur/ledger/internal/store"

	"github.com/shopspring/decimal"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	taxonomy   *store.TaxonomyStore
	classifier *categorizer.Classifier
	ledger     *storage.SQLiteStore
	reports    *report.Service
	generator  *report.ReportGenerator
	importer   *importer.Importer
	batch      *batch.BatchImporter
}

// NewContainer creates and wires all application dependencies, logging
// through a logrus adapter configured from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	common.SetDelimiter(cfg.DelimiterRune())

	taxonomyStore := store.NewTaxonomyStore(cfg.Taxonomy.File, logger)
	classifier, err := categorizer.NewClassifierFromStore(taxonomyStore, logger)
	if err != nil {
		return nil, err
	}
	classifier.SetParallelism(cfg.Classification.ParallelThreshold, cfg.Classification.Workers)

	strategy, err := LayoutStrategy(cfg)
	if err != nil {
		return nil, err
	}

	opts, err := ReportOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts.CategoryOrder = classifier.Taxonomy().CategoryOrder()

	ledger, err := storage.Open(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("error opening ledger database: %w", err)
	}

	reports := report.NewService(ledger, opts, logger)
	im := importer.NewImporter(ledger, classifier, reports, importer.Options{
		Strategy:  strategy,
		SheetName: cfg.Layout.Sheet,
		Policy:    Policy(cfg),
	}, logger)

	logger.Info("Container initialized successfully",
		logging.Field{Key: logging.FieldStrategy, Value: strategy.Name()},
		logging.Field{Key: logging.FieldRevision, Value: classifier.Taxonomy().Revision},
		logging.Field{Key: logging.FieldFile, Value: cfg.Database.Path})

	return &Container{
		logger:     logger,
		config:     cfg,
		taxonomy:   taxonomyStore,
		classifier: classifier,
		ledger:     ledger,
		reports:    reports,
		generator:  report.NewReportGenerator(logger),
		importer:   im,
		batch:      batch.NewBatchImporter(im, logger),
	}, nil
}

// LayoutStrategy builds the configured layout strategy.
func LayoutStrategy(cfg *config.Config) (locator.Strategy, error) {
	m := cfg.Layout.Marker
	marker := &locator.MarkerStrategy{
		Column:            m.Column,
		ValueColumns:      m.ValueColumns,
		RevenueLabel:      m.RevenueLabel,
		ExpenseLabel:      m.ExpenseLabel,
		HeaderRow:         m.HeaderRow,
		DescriptionHeader: m.DescriptionHeader,
		TotalHeader:       m.TotalHeader,
	}

	var fixed *locator.FixedOffsetStrategy
	if f := cfg.Layout.Fixed; f.RevenueCell != "" && f.ExpenseCell != "" {
		fixed = &locator.FixedOffsetStrategy{
			RevenueCell:       f.RevenueCell,
			ExpenseCell:       f.ExpenseCell,
			DescriptionColumn: f.DescriptionColumn,
			TotalColumn:       f.TotalColumn,
			FirstItemRow:      f.FirstItemRow,
			LastItemRow:       f.LastItemRow,
		}
	}
	return locator.ForName(cfg.Layout.Strategy, marker, fixed)
}

// Policy returns the configured reconciliation policy.
func Policy(cfg *config.Config) reconciler.Policy {
	return reconciler.Policy{
		SubtractEmbeddedWithdrawals: cfg.Reconcile.SubtractWithdrawals,
		AbsoluteAmounts:             cfg.Reconcile.AbsoluteAmounts,
	}
}

// ReportOptions returns the configured dashboard options.
func ReportOptions(cfg *config.Config) (report.Options, error) {
	wage, err := decimal.NewFromString(cfg.Report.MinimumWage)
	if err != nil {
		return report.Options{}, fmt.Errorf("invalid minimum wage %q: %w", cfg.Report.MinimumWage, err)
	}
	return report.Options{MinimumWage: wage, TopN: cfg.Report.TopN}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetClassifier returns the row classifier.
func (c *Container) GetClassifier() *categorizer.Classifier {
	return c.classifier
}

// GetStore returns the taxonomy store.
func (c *Container) GetStore() *store.TaxonomyStore {
	return c.taxonomy
}

// GetLedgerStore returns the ledger database.
func (c *Container) GetLedgerStore() storage.LedgerStore {
	return c.ledger
}

// GetReports returns the report service.
func (c *Container) GetReports() *report.Service {
	return c.reports
}

// GetReportGenerator returns the report renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.generator
}

// GetImporter returns the import pipeline.
func (c *Container) GetImporter() *importer.Importer {
	return c.importer
}

// GetBatchImporter returns the directory importer.
func (c *Container) GetBatchImporter() *batch.BatchImporter {
	return c.batch
}

// Close releases the ledger database.
func (c *Container) Close() error {
	if err := c.ledger.Close(); err != nil {
		return fmt.Errorf("error closing ledger database: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
