package compare_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contajur/ledger/cmd/compare"
	"contajur/ledger/internal/config"
	"contajur/ledger/internal/container"
	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/parsererror"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taxonomyYAML = `
revision: "2025"
categories:
  - name: Aluguel
    labels: [Aluguel]
  - name: Impostos
    labels: [ISS]
fees:
  prefix: honorario
withdrawals:
  - person: Lucas
    labels: [Retirada Lucas]
`

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	dir := t.TempDir()
	prevWD, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	t.Setenv("HOME", dir)
	require.NoError(t, os.WriteFile("categories.yaml", []byte(taxonomyYAML), 0600))
	t.Setenv("CONTAJUR_DATABASE_PATH", filepath.Join(dir, "ledger.db"))

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func report(header string) string {
	line := func(cells map[int]string) string {
		out := make([]string, 13)
		for i, v := range cells {
			out[i] = v
		}
		return strings.Join(out, ";")
	}
	return strings.Join([]string{
		line(map[int]string{0: header}),
		line(map[int]string{0: "Descrição", 1: "Total"}),
		line(map[int]string{0: "Aluguel", 1: "2.000,00"}),
		line(map[int]string{0: "ISS", 1: "150,50"}),
		line(map[int]string{0: "Material de escritório", 1: "80,00"}),
		line(map[int]string{10: "Receitas:", 11: "10.000,00"}),
		line(map[int]string{10: "Despesas:", 11: "2.150,50"}),
	}, "\n")
}

func seed(t *testing.T, c *container.Container, header string) {
	t.Helper()
	_, err := c.GetImporter().Import(context.Background(), strings.NewReader(report(header)), "relatorio.csv")
	require.NoError(t, err)
}

func TestCompareCommand_Metadata(t *testing.T) {
	assert.Equal(t, "compare", compare.Cmd.Use)
	assert.NotNil(t, compare.Cmd.Run)
	period := compare.Cmd.Flags().Lookup("period")
	require.NotNil(t, period)
	assert.Equal(t, "stringSlice", period.Value.Type())
}

func TestRun(t *testing.T) {
	c := newContainer(t)
	seed(t, c, "01/06/2025 à 30/06/2025")
	seed(t, c, "01/07/2025 à 31/07/2025")

	var out bytes.Buffer
	require.NoError(t, compare.Run(context.Background(), c, []string{"2025-07", "2025-06", "2025-07"}, "json", &out))
	assert.Contains(t, out.String(), `"periods": [`)
	assert.Contains(t, out.String(), `"2025-06"`)
	assert.Contains(t, out.String(), `"Aluguel"`)
}

func TestRun_NeedsTwoPeriods(t *testing.T) {
	c := newContainer(t)
	seed(t, c, "01/07/2025 à 31/07/2025")

	err := compare.Run(context.Background(), c, []string{"2025-07"}, "text", &bytes.Buffer{})
	var validationErr *parsererror.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	err = compare.Run(context.Background(), c, nil, "text", &bytes.Buffer{})
	assert.ErrorAs(t, err, &validationErr)
}
