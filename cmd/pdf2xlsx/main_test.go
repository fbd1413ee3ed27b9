package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pyhub-apps/pdf2xlsx/pkg/pdf/pdftest"
)

func statementFile(t *testing.T) string {
	t.Helper()
	b := pdftest.New()
	b.SetInfo("Title", "March statement")
	b.AddPage(612, 792).Grid(40, 700, []float64{30, 70, 40, 30, 30, 40, 50, 20, 20}, 16, 6, [][]string{
		{"1", "2024-01-05 10:00", "pay", "out", "food", "80.00", "Shop", "a", "b"},
		{"2", "2024-01-06 09:30", "pay", "out", "food", "80.00", "Shop", "a", "b"},
		{"3", "2024-01-03 12:00", "gift", "in", "misc", "6000", "Bank", "a", "b"},
	})
	return b.WriteFile(t, "march.pdf")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env"), "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertCommand(t *testing.T) {
	src := statementFile(t)
	dir := t.TempDir()

	out, err := run(t, "convert", src, "--dir", dir, "--expense-marker", "out")
	require.NoError(t, err)
	saved := filepath.Join(dir, "march_processed.xlsx")
	assert.Contains(t, out, "Saved "+saved)
	assert.Contains(t, out, "3 rows x 6 columns, 2 red rows, 1 orange rows")

	_, err = run(t, "convert", src, "--dir", dir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "march_processed_1.xlsx"))
	assert.NoError(t, err)

	f, err := excelize.OpenFile(saved)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-03 12:00", "gift", "in", "misc", "6000", "Bank"}, rows[0])
}

func TestConvertCommandOut(t *testing.T) {
	src := statementFile(t)
	dst := filepath.Join(t.TempDir(), "result.xlsx")

	_, err := run(t, "convert", src, "-o", dst)
	require.NoError(t, err)
	_, err = os.Stat(dst)
	require.NoError(t, err)

	_, err = run(t, "convert", src, "-o", dst)
	assert.Error(t, err, "an existing workbook is never overwritten")
}

func TestConvertCommandRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := run(t, "convert", path, "--dir", t.TempDir())
	assert.Error(t, err)
}

func TestPreviewCommand(t *testing.T) {
	out, err := run(t, "preview", statementFile(t), "--rows", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "extracted: 3 rows x 9 columns")
	assert.Contains(t, out, "processed: 3 rows x 6 columns")
	assert.Contains(t, out, "... 1 more rows")
}

func TestInfoCommand(t *testing.T) {
	out, err := run(t, "info", statementFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Pages:    1")
	assert.Contains(t, out, "Reader:")
}

func TestTextAndTablesCommands(t *testing.T) {
	src := statementFile(t)

	out, err := run(t, "text", src)
	require.NoError(t, err)
	assert.Contains(t, out, "=== Page 1")
	assert.Contains(t, out, "Shop")

	out, err = run(t, "tables", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Table 1: 3 rows x 9 columns")
}

func TestInvalidConfigFlag(t *testing.T) {
	_, err := run(t, "preview", statementFile(t), "--strategy", "stream")
	assert.Error(t, err)
}
