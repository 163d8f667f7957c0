package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"contajur/ledger/internal/importer"
	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"
	"contajur/ledger/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImporter struct {
	periods map[string]string
	calls   []string
}

func (f *fakeImporter) ImportFile(_ context.Context, path string) (importer.ImportResult, error) {
	f.calls = append(f.calls, filepath.Base(path))
	p, ok := f.periods[filepath.Base(path)]
	if !ok {
		return importer.ImportResult{}, &parsererror.LayoutError{Strategy: "marker", Marker: "Receitas:", Location: "column K"}
	}
	return importer.ImportResult{
		Period:      models.MustParsePeriod(p),
		Diagnostics: parsererror.Diagnostics{&parsererror.UncategorizedRow{Row: 4, Description: "x"}},
	}, nil
}

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0600))
	}
	return dir
}

func TestBatchImporter_ImportDir(t *testing.T) {
	dir := writeFiles(t, "b.xlsx", "a.csv", "broken.xlsx", "notes.txt", "c.xlsx")
	fake := &fakeImporter{periods: map[string]string{
		"a.csv":  "2024-01",
		"b.xlsx": "2024-02",
		"c.xlsx": "2024-02",
	}}
	logger := logging.NewMockLogger()

	summary, err := NewBatchImporter(fake, logger).ImportDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.csv", "b.xlsx", "broken.xlsx", "c.xlsx"}, fake.calls)
	assert.Equal(t, 3, summary.Succeeded())
	require.Len(t, summary.Failed(), 1)
	assert.Equal(t, "broken.xlsx", filepath.Base(summary.Failed()[0].File))

	var layoutErr *parsererror.LayoutError
	assert.True(t, errors.As(summary.Failed()[0].Err, &layoutErr))

	assert.Equal(t, []models.Period{models.MustParsePeriod("2024-02")}, summary.Replaced)
	assert.Equal(t, 1, summary.Results[0].Diagnostics)
	assert.True(t, logger.HasEntry("WARN", "Period imported twice, keeping the later file"))
}

func TestBatchImporter_MissingDir(t *testing.T) {
	_, err := NewBatchImporter(&fakeImporter{}, logging.NewMockLogger()).ImportDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestBatchImporter_StopsOnCancel(t *testing.T) {
	fake := &fakeImporter{periods: map[string]string{"a.xlsx": "2024-01"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := NewBatchImporter(fake, logging.NewMockLogger()).ImportFiles(ctx, []string{"a.xlsx"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, summary.Results)
	assert.Empty(t, fake.calls)
}
