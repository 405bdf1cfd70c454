package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTemplateService_HeaderRowsOnly(t *testing.T) {
	data, err := NewTemplateService().Template()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetProfile, SheetSelf, SheetPeer, SheetReferences}, f.GetSheetList())
	for _, sheet := range WorkbookLayout() {
		rows, err := f.GetRows(sheet.Name)
		require.NoError(t, err)
		require.Len(t, rows, 1, sheet.Name)
		assert.Equal(t, sheet.Headers, rows[0])
	}
}
