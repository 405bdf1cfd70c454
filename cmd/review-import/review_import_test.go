package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/review-sdk/modules/review/services"
	"github.com/iota-uz/review-sdk/pkg/configuration"
	"github.com/iota-uz/review-sdk/pkg/excel"
)

func testSettings() settings {
	return settings{Review: configuration.ReviewOptions{
		EncryptionSecret: "cli-secret",
		DefaultCycleYear: 2025,
		MaxUploadSize:    1 << 20,
	}}
}

func writeWorkbook(t *testing.T, sheets []excel.SheetSpec) string {
	t.Helper()
	data, err := excel.Write(sheets)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "review.xlsx")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func profileSheet(rows ...[]string) excel.SheetSpec {
	return excel.SheetSpec{
		Name:    services.SheetProfile,
		Headers: []string{services.HeaderEmail, services.HeaderFullName, services.HeaderUnit, services.HeaderCycleLabel},
		Rows:    rows,
	}
}

func TestRunImport_MemoryPrintsSummary(t *testing.T) {
	logger, _ := test.NewNullLogger()
	path := writeWorkbook(t, []excel.SheetSpec{
		profileSheet([]string{"ana@example.com", "Ana Souza", "Payments", "Ciclo 2024"}),
		{
			Name:    services.SheetSelf,
			Headers: []string{services.HeaderCriterion, services.HeaderScore, services.HeaderJustification},
			Rows:    [][]string{{"Comunicação", "4", "clear writer"}},
		},
	})

	var out bytes.Buffer
	err := runImport(context.Background(), importOptions{file: path, store: storeMemory}, testSettings(), logger, &out)
	require.NoError(t, err)

	var summary services.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, services.ImportCompleted, summary.Status)
	assert.Equal(t, "review.xlsx", summary.FileName)
	assert.Equal(t, 1, summary.SelfReviews.Created)
}

func TestRunImport_IncompleteProfileIsValidationError(t *testing.T) {
	logger, _ := test.NewNullLogger()
	path := writeWorkbook(t, []excel.SheetSpec{profileSheet([]string{"ana@example.com", "", "Payments", "2024"})})

	var out bytes.Buffer
	err := runImport(context.Background(), importOptions{file: path, store: storeMemory}, testSettings(), logger, &out)
	require.Error(t, err)
	assert.Equal(t, exitValidation, exitCode(err))

	var summary services.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, services.ImportAborted, summary.Status)
}

func TestRunImport_UsageErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()

	err := runImport(context.Background(), importOptions{file: filepath.Join(t.TempDir(), "missing.xlsx"), store: storeMemory}, testSettings(), logger, &bytes.Buffer{})
	assert.Equal(t, exitUsage, exitCode(err))

	path := writeWorkbook(t, []excel.SheetSpec{profileSheet([]string{"ana@example.com", "Ana", "Payments", "2024"})})
	err = runImport(context.Background(), importOptions{file: path, store: "sqlite"}, testSettings(), logger, &bytes.Buffer{})
	assert.Equal(t, exitUsage, exitCode(err))
}

func TestRunTemplate_WritesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, runTemplate(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	wb, err := excel.Open(data)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()
	assert.Contains(t, wb.SheetNames(), services.SheetPeer)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, exitDB, exitCode(withCode(exitDB, errors.New("db down"))))
	assert.Nil(t, withCode(exitDB, nil))
}
