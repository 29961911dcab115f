package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParseRows(t *testing.T) {
	content := buildWorkbook(t, [][]interface{}{
		{"ID do pedido", "Quantidade", "Nome do Produto"},
		{"2601BRX7K2", "2", "Vela Lavanda"},
		{"2601BRX7K3", "", ""},
	})

	rows, err := ParseRows(content)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2601BRX7K2", rows[0]["ID do pedido"])
	assert.Equal(t, "2", rows[0]["Quantidade"])
	assert.Equal(t, "Vela Lavanda", rows[0]["Nome do Produto"])

	// Short rows fill missing cells with empty strings
	assert.Equal(t, "", rows[1]["Quantidade"])
}

func TestParseRowsSkipsEmptyRows(t *testing.T) {
	content := buildWorkbook(t, [][]interface{}{
		{"ID do pedido", "Quantidade"},
		{"", ""},
		{"X1", "1"},
	})

	rows, err := ParseRows(content)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "X1", rows[0]["ID do pedido"])
}

func TestParseRowsErrors(t *testing.T) {
	_, err := ParseRows([]byte("not a workbook"))
	assert.Error(t, err)

	headerless := buildWorkbook(t, [][]interface{}{{"", ""}})
	_, err = ParseRows(headerless)
	assert.Error(t, err)
}
