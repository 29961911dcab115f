package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected Delimiter
	}{
		{
			name:     "Semicolon",
			content:  "Pedido;Data;Total\n1001;13/01/2026;150,00\n1002;14/01/2026;99,90",
			expected: DelimiterSemicolon,
		},
		{
			name:     "Comma",
			content:  "order,date,total\n1001,2026-01-13,150.00",
			expected: DelimiterComma,
		},
		{
			name:     "Tab",
			content:  "order\tdate\ttotal\n1001\t2026-01-13\t150.00",
			expected: DelimiterTab,
		},
		{
			name:     "Semicolon wins over commas inside values",
			content:  "Pedido;Produto;Total\n1001;Kit vela, pavio e base;150,00\n1002;Vela aromática;99,90",
			expected: DelimiterSemicolon,
		},
		{
			name:     "Empty defaults to comma",
			content:  "",
			expected: DelimiterComma,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectDelimiter(tt.content))
		})
	}
}

func TestDetectDelimiterFromBytes(t *testing.T) {
	// Sampling is capped, so a huge payload still detects from the head
	head := "Pedido;Data;Total\n1001;13/01/2026;150,00\n"
	data := append([]byte(head), make([]byte, 10000)...)
	assert.Equal(t, DelimiterSemicolon, DetectDelimiterFromBytes(data))

	assert.Equal(t, DelimiterComma, DetectDelimiterFromBytes(nil))
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{"Plain", "a;b;c", []string{"a", "b", "c"}},
		{"Quoted delimiter", `a;"b;c";d`, []string{"a", "b;c", "d"}},
		{"Escaped quotes", `"say ""hi""";x`, []string{`say "hi"`, "x"}},
		{"Trailing empty field", "a;b;", []string{"a", "b", ""}},
		{"Accented value", "Cartão de Crédito;Sedex", []string{"Cartão de Crédito", "Sedex"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitLine(tt.line, ';', '"'))
		})
	}
}

func TestParseRows(t *testing.T) {
	content := []byte("Pedido;Data;Total do Pedido\n1001;13/01/2026;150,00\n\n1002;14/01/2026;99,90\n")

	rows, err := ParseRows(content, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1001", rows[0]["Pedido"])
	assert.Equal(t, "13/01/2026", rows[0]["Data"])
	assert.Equal(t, "150,00", rows[0]["Total do Pedido"])
	assert.Equal(t, "99,90", rows[1]["Total do Pedido"])
}

func TestParseRowsShortRow(t *testing.T) {
	content := []byte("a;b;c\n1;2\n")

	rows, err := ParseRows(content, ParserOptions{Delimiter: DelimiterSemicolon})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Missing trailing cells come back as empty strings
	assert.Equal(t, "2", rows[0]["b"])
	assert.Equal(t, "", rows[0]["c"])
}

func TestParseRowsSkipEmptyRows(t *testing.T) {
	content := []byte("a;b\n1;2\n;\n3;4\n")

	rows, err := ParseRows(content, ParserOptions{Delimiter: DelimiterSemicolon, SkipEmptyRows: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "3", rows[1]["a"])
}

func TestParseRowsErrors(t *testing.T) {
	_, err := ParseRows([]byte(""), DefaultOptions())
	assert.Error(t, err)

	_, err = ParseRows([]byte(";;\n1;2;3\n"), ParserOptions{Delimiter: DelimiterSemicolon})
	assert.Error(t, err)
}

func TestParseRowsDuplicateHeaders(t *testing.T) {
	content := []byte("sku;qty;sku\nA-1;2;B-9\n")

	rows, err := ParseRows(content, ParserOptions{Delimiter: DelimiterSemicolon})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// First occurrence wins
	assert.Equal(t, "A-1", rows[0]["sku"])
}
