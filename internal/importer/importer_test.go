package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "a,10,20\nb,30,40\n", ','},
		{"semicolon", "a;10;20\nb;30;40\n", ';'},
		{"tab", "a\t10\t20\nb\t30\t40\n", '\t'},
		{"pipe", "a|10|20\nb|30|40\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCSVDelimiter([]byte(tt.data)))
		})
	}
}

func TestDetectColumns_HeaderAliases(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Name", "W", "H", "Qty"})

	require.True(t, ok)
	assert.Equal(t, 0, mapping.Label)
	assert.Equal(t, 1, mapping.Width)
	assert.Equal(t, 2, mapping.Height)
	assert.Equal(t, 3, mapping.Count)
}

func TestDetectColumns_NoHeaderFallsBackToPositional(t *testing.T) {
	mapping, ok := DetectColumns([]string{"sprite1", "10", "20"})

	assert.False(t, ok)
	assert.Equal(t, 0, mapping.Label)
	assert.Equal(t, 1, mapping.Width)
	assert.Equal(t, 2, mapping.Height)
}

func TestImportCSVFromReader_WithHeader(t *testing.T) {
	csv := "label,width,height,count\nicon,32,32,2\nbanner,250,60,1\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	require.Empty(t, result.Errors)
	require.Len(t, result.Areas, 3)
	assert.Equal(t, "icon", result.Areas[0].Label)
	assert.Equal(t, "icon", result.Areas[1].Label)
	assert.Equal(t, 32, result.Areas[0].Width)
	assert.Equal(t, "banner", result.Areas[2].Label)
	assert.Equal(t, 250, result.Areas[2].Width)
	assert.Equal(t, 60, result.Areas[2].Height)
}

func TestImportCSVFromReader_CountOptional(t *testing.T) {
	csv := "label,width,height\nicon,32,32\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	require.Empty(t, result.Errors)
	require.Len(t, result.Areas, 1)
}

func TestImportCSVFromReader_InvalidRows(t *testing.T) {
	csv := "label,width,height\nok,32,32\nbad,notanumber,32\nmissing,,\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	assert.Len(t, result.Areas, 1)
	assert.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "Invalid width")
}

func TestImportCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "areas.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("label;width;height\nicon;32;32\nlogo;64;48\n"), 0644))

	result := ImportCSV(path)

	require.Empty(t, result.Errors)
	assert.Len(t, result.Areas, 2)
	// Semicolon detection is reported as a warning
	assert.Contains(t, strings.Join(result.Warnings, " "), "semicolon")
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))

	result := ImportCSV(path)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "empty")
}

func TestImportCSV_MissingFile(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Cannot open file")
}

func createTestExcel(t *testing.T, rows [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "areas.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cellRef, cell))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestImportExcel_RoundTrip(t *testing.T) {
	path := createTestExcel(t, [][]any{
		{"label", "width", "height", "count"},
		{"icon", 32, 32, 1},
		{"banner", 250, 60, 2},
	})

	result := ImportExcel(path)

	require.Empty(t, result.Errors)
	require.Len(t, result.Areas, 3)
	assert.Equal(t, "banner", result.Areas[1].Label)
	assert.Equal(t, 250, result.Areas[1].Width)
}

func TestImportExcel_MissingFile(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Cannot open Excel file")
}

func TestImportDXF_MissingFile(t *testing.T) {
	result := ImportDXF(filepath.Join(t.TempDir(), "nope.dxf"))
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "Cannot open DXF file")
}
