package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantStart string
		wantOK    bool
	}{
		{name: "report header", text: "CONTAJUR - Fluxo de caixa de 01/07/2025 à 31/07/2025", wantStart: "2025-07-01", wantOK: true},
		{name: "no spaces", text: "01/02/2024à29/02/2024", wantStart: "2024-02-01", wantOK: true},
		{name: "accent dropped", text: "Período 01/03/2025 a 31/03/2025", wantStart: "2025-03-01", wantOK: true},
		{name: "extra whitespace", text: "  01/12/2024    à   31/12/2024 ", wantStart: "2024-12-01", wantOK: true},
		{name: "invalid date", text: "32/13/2025 à 31/07/2025", wantOK: false},
		{name: "no range", text: "Relatório mensal", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _, ok := ParseDateRange(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantStart, start.Format("2006-01-02"))
			}
		})
	}
}

func TestPeriodFromHeader_UsesFirstDate(t *testing.T) {
	p, ok := PeriodFromHeader("de 28/02/2025 à 03/03/2025")
	assert.True(t, ok)
	assert.Equal(t, "2025-02", p.String())
}

func TestPeriodFromFilename(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		want   string
		wantOK bool
	}{
		{name: "year first", file: "/tmp/uploads/relatorio_2025-07.xlsx", want: "2025-07", wantOK: true},
		{name: "month first", file: "fluxo 07_2025.xlsx", want: "2025-07", wantOK: true},
		{name: "month name", file: "Relatorio-Julho-2025.xlsx", want: "2025-07", wantOK: true},
		{name: "abbreviated month", file: "caixa_dez2024.csv", want: "2024-12", wantOK: true},
		{name: "bad month", file: "2025-13.xlsx", wantOK: false},
		{name: "no hint", file: "relatorio.xlsx", wantOK: false},
		{name: "empty", file: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := PeriodFromFilename(tt.file)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, p.String())
			}
		})
	}
}

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)

	p, src := ResolvePeriod("01/05/2025 à 31/05/2025", "relatorio_2025-07.xlsx", now)
	assert.Equal(t, "2025-05", p.String())
	assert.Equal(t, SourceHeader, src)

	p, src = ResolvePeriod("sem datas", "relatorio_2025-07.xlsx", now)
	assert.Equal(t, "2025-07", p.String())
	assert.Equal(t, SourceFilename, src)

	p, src = ResolvePeriod("", "upload.xlsx", now)
	assert.Equal(t, "2026-01", p.String())
	assert.Equal(t, SourceClock, src)
}
