package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lojista/backoffice-service/internal/channels"
	"github.com/lojista/backoffice-service/internal/parsers/csv"
	"github.com/lojista/backoffice-service/internal/parsers/numfmt"
	"github.com/lojista/backoffice-service/internal/parsers/xlsx"
	"github.com/lojista/backoffice-service/internal/types"
)

var (
	parseChannel string
	parseOutput  string
	parseLimit   int
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Preview a channel export without touching the database",
	Long: `Parse a local export file (CSV or XLSX) with the given channel's
normalizer and print the normalized orders. Nothing is persisted, which makes
this the quickest way to check whether an export's column layout is
understood before importing it.`,
	Example: `  backoffice parse ./exports/pedidos.csv --channel site
  backoffice parse ./exports/Order.toship.xlsx --channel shopee --output json
  backoffice parse ./exports/vendas.xlsx --channel meli --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseChannel, "channel", "", "Sales channel (required)")
	parseCmd.Flags().StringVar(&parseOutput, "output", "table", "Output format: table or json")
	parseCmd.Flags().IntVar(&parseLimit, "limit", 20, "Maximum orders to display (0 = all)")
	parseCmd.MarkFlagRequired("channel")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	if !types.IsValidChannel(parseChannel) {
		return fmt.Errorf("invalid channel: %s\nValid channels: %s", parseChannel, strings.Join(channelSlugs(), ", "))
	}

	normalizer, err := channels.Get(types.ChannelID(parseChannel))
	if err != nil {
		return err
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	logger.Info().Str("file", filePath).Msgf("Read %d bytes", len(content))

	var rows []map[string]string
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xls":
		rows, err = xlsx.ParseRows(content)
	default:
		options := csv.DefaultOptions()
		options.Delimiter = normalizer.Delimiter()
		rows, err = csv.ParseRows(content, options)
	}
	if err != nil {
		return fmt.Errorf("failed to parse file: %w", err)
	}

	orders := make([]types.NormalizedOrder, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		order := normalizer.Normalize(row, i+2)
		if order == nil {
			skipped++
			continue
		}
		orders = append(orders, *order)
	}

	logger.Info().
		Int("rows", len(rows)).
		Int("orders", len(orders)).
		Int("skipped", skipped).
		Msg("Parsed file")

	display := orders
	if parseLimit > 0 && len(display) > parseLimit {
		display = display[:parseLimit]
	}

	if parseOutput == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(display)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ORDER\tDATE\tQTY\tTOTAL\tSTATUS\tITEMS")
	fmt.Fprintln(w, "-----\t----\t---\t-----\t------\t-----")
	for _, o := range display {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%d\n",
			o.OrderCode,
			o.OrderedAt.Format("2006-01-02"),
			o.Quantity,
			numfmt.FormatCents(o.TotalCents),
			o.Status,
			len(o.Items),
		)
	}
	w.Flush()

	if len(display) < len(orders) {
		fmt.Printf("... and %d more\n", len(orders)-len(display))
	}
	return nil
}
