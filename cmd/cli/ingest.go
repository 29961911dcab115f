package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lojista/backoffice-service/internal/database"
	"github.com/lojista/backoffice-service/internal/ingestion"
	"github.com/lojista/backoffice-service/internal/types"
)

var ingestItems bool

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <channel> <file>...",
	Short: "Ingest order export files for a channel",
	Long: `Ingest one or more order export files (CSV or XLSX) for a sales channel.
Rows are normalized into the canonical store; re-ingesting a file updates the
same orders instead of duplicating them.

Use --items for the storefront's secondary items-only export, which attaches
line items to orders ingested from the order-level export.`,
	Example: `  backoffice ingest site ./exports/pedidos.csv
  backoffice ingest shopee ./exports/Order.toship.xlsx
  backoffice ingest site ./exports/itens.csv --items`,
	Args: cobra.MinimumNArgs(2),
	RunE: runIngestCmd,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().BoolVar(&ingestItems, "items", false, "Treat files as the storefront items-only export")
}

func runIngestCmd(cmd *cobra.Command, args []string) error {
	channelSlug := args[0]
	if !types.IsValidChannel(channelSlug) {
		return fmt.Errorf("invalid channel: %s\nValid channels: %s", channelSlug, strings.Join(channelSlugs(), ", "))
	}
	channel := types.ChannelID(channelSlug)

	if ingestItems && channel != types.ChannelSite {
		return fmt.Errorf("--items is only supported for the site channel")
	}

	ctx := context.Background()
	results := make([]ingestRow, 0, len(args)-1)
	failed := false

	for _, path := range args[1:] {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		filename := filepath.Base(path)

		logger.Info().Str("file", filename).Str("channel", channelSlug).Msg("Ingesting")

		var result *types.IngestResult
		if ingestItems {
			result, err = ingestion.IngestSiteItems(ctx, content, filename)
		} else {
			result, err = ingestion.Ingest(ctx, content, filename, channel)
		}
		if err != nil {
			logger.Error().Str("file", filename).Err(err).Msg("Ingestion failed")
			results = append(results, ingestRow{File: filename, Error: err.Error()})
			failed = true
			continue
		}
		results = append(results, ingestRow{File: filename, Accepted: result.Accepted, Rejected: result.Rejected})
	}

	displayIngestResults(results)
	database.Close()

	if failed {
		return fmt.Errorf("some files failed to ingest")
	}
	return nil
}

type ingestRow struct {
	File     string
	Accepted int
	Rejected int
	Error    string
}

func displayIngestResults(results []ingestRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FILE\tSTATUS\tACCEPTED\tREJECTED")
	fmt.Fprintln(w, "----\t------\t--------\t--------")

	for _, r := range results {
		status := "SUCCESS"
		if r.Error != "" {
			status = "FAILED"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", r.File, status, r.Accepted, r.Rejected)
	}

	w.Flush()
}

func channelSlugs() []string {
	slugs := make([]string, len(types.AllChannels))
	for i, c := range types.AllChannels {
		slugs[i] = string(c)
	}
	return slugs
}
