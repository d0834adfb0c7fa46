package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storereport/internal/config"
	"storereport/internal/shared/testutil"
	"storereport/pkg/contracts/domain"
)

func setupTestEnv(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	paths := config.NewPaths(t.TempDir())
	return NewCSVWriter(paths, logger), paths
}

func readCSV(t *testing.T, path string) (bool, [][]string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	hasBOM := bytes.HasPrefix(data, utf8BOM)
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
	require.NoError(t, err)
	return hasBOM, rows
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, paths := setupTestEnv(t)

	tests := []struct {
		name     string
		options  WriteOptions
		wantBOM  bool
		wantRows [][]string
	}{
		{
			name: "headers and records with BOM",
			options: WriteOptions{
				Headers:   []string{"店名", "實收"},
				Records:   [][]string{{"B店", "3000"}, {"C店", "1500"}},
				BOMPrefix: true,
			},
			wantBOM:  true,
			wantRows: [][]string{{"店名", "實收"}, {"B店", "3000"}, {"C店", "1500"}},
		},
		{
			name: "no BOM",
			options: WriteOptions{
				Headers: []string{"a"},
				Records: [][]string{{"1"}},
			},
			wantRows: [][]string{{"a"}, {"1"}},
		},
		{
			name: "quoted fields",
			options: WriteOptions{
				Records: [][]string{{"1,200", "say \"hi\""}},
			},
			wantRows: [][]string{{"1,200", "say \"hi\""}},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := filepath.Join("nested", strings.Repeat("x", i+1)+".csv")
			path, err := writer.WriteCSV(name, tt.options)
			require.NoError(t, err)
			assert.Equal(t, paths.GetExportPath(name), path)

			hasBOM, rows := readCSV(t, path)
			assert.Equal(t, tt.wantBOM, hasBOM)
			assert.Equal(t, tt.wantRows, rows)
		})
	}
}

func TestCSVWriter_Append(t *testing.T) {
	writer, _ := setupTestEnv(t)
	path := filepath.Join(t.TempDir(), "append.csv")

	_, err := writer.WriteCSV(path, WriteOptions{Headers: []string{"h"}, Records: [][]string{{"1"}}, BOMPrefix: true})
	require.NoError(t, err)
	_, err = writer.WriteCSV(path, WriteOptions{Headers: []string{"h"}, Records: [][]string{{"2"}}, Append: true, BOMPrefix: true})
	require.NoError(t, err)

	hasBOM, rows := readCSV(t, path)
	assert.True(t, hasBOM)
	assert.Equal(t, [][]string{{"h"}, {"1"}, {"2"}}, rows)
}

func TestTableExporter_Export(t *testing.T) {
	writer, paths := setupTestEnv(t)
	date := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.Local)

	table := &domain.CanonicalTable{Records: []domain.ShiftRecord{
		{
			Region:    domain.RegionChanghua,
			Store:     "B店",
			Shift:     "早",
			Attendant: "李",
			Date:      date,
			SalesItem: decimal.NewFromInt(1200),
			Collected: decimal.NewFromInt(3000),
			Variance:  decimal.NewFromInt(5),
		},
		{
			Region:    domain.RegionTaichung,
			Store:     "C店",
			SalesItem: decimal.RequireFromString("12.5"),
			Collected: decimal.Zero,
			Variance:  decimal.NewFromInt(-3),
		},
	}}

	path, err := NewTableExporter(paths, writer).Export(table, date, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.ExportsDir, "canonical_20240502.csv"), path)

	hasBOM, rows := readCSV(t, path)
	assert.True(t, hasBOM)
	require.Len(t, rows, 3)
	assert.Equal(t, CanonicalHeaders, rows[0])
	assert.Equal(t, []string{"彰化", "B店", "早", "李", "2024-05-02", "1200", "3000", "5"}, rows[1])
	assert.Equal(t, []string{"台中", "C店", "", "", "", "12.5", "0", "-3"}, rows[2])
}

func TestTableExporter_ExportNilTable(t *testing.T) {
	writer, paths := setupTestEnv(t)
	target := filepath.Join(t.TempDir(), "out.csv")

	path, err := NewTableExporter(paths, writer).Export(nil, time.Now(), target)
	require.NoError(t, err)
	assert.Equal(t, target, path)

	_, rows := readCSV(t, path)
	assert.Equal(t, [][]string{CanonicalHeaders}, rows)
}
