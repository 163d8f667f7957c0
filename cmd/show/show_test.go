package show_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contajur/ledger/cmd/show"
	"contajur/ledger/internal/config"
	"contajur/ledger/internal/container"
	"contajur/ledger/internal/logging"

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

func TestShowCommand_Metadata(t *testing.T) {
	assert.Equal(t, "show", show.Cmd.Use)
	assert.NotNil(t, show.Cmd.Run)
	period := show.Cmd.Flags().Lookup("period")
	require.NotNil(t, period)
	assert.Equal(t, "p", period.Shorthand)
}

func TestRun(t *testing.T) {
	c := newContainer(t)
	seed(t, c, "01/07/2025 à 31/07/2025")

	var out bytes.Buffer
	require.NoError(t, show.Run(context.Background(), c, "2025-07", "text", &out))
	assert.Contains(t, out.String(), "R$ 10.000,00")
	assert.Contains(t, out.String(), "Aluguel")
	assert.Contains(t, out.String(), "Impostos")

	out.Reset()
	require.NoError(t, show.Run(context.Background(), c, "2025-07", "json", &out))
	assert.Contains(t, out.String(), `"period": "2025-07"`)
}

func TestRun_Errors(t *testing.T) {
	c := newContainer(t)

	tests := []struct {
		name   string
		period string
		format string
		errMsg string
	}{
		{name: "malformed period", period: "07/2025", format: "text", errMsg: "07/2025"},
		{name: "missing period", period: "2025-01", format: "text", errMsg: "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := show.Run(context.Background(), c, tt.period, tt.format, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
