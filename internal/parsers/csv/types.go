package csv

// Delimiter represents a CSV field delimiter
type Delimiter string

const (
	DelimiterComma     Delimiter = ","
	DelimiterSemicolon Delimiter = ";"
	DelimiterTab       Delimiter = "\t"
)

// ParserOptions represents CSV parser options
type ParserOptions struct {
	// Delimiter overrides automatic detection when non-empty
	Delimiter Delimiter
	// QuoteChar defaults to '"'
	QuoteChar rune
	// SkipEmptyRows drops rows whose cells are all empty
	SkipEmptyRows bool
}

// DefaultOptions returns the default parser options
func DefaultOptions() ParserOptions {
	return ParserOptions{
		QuoteChar:     '"',
		SkipEmptyRows: true,
	}
}
