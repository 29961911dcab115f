// Schema Generator
//
// Generates JSON Schema files from Go types for use by the dashboard
// frontend's codegen. Go is the source of truth for the API types.
//
// Usage:
//
//	go run cmd/schema-gen/main.go
//
// Output:
//
//	./schemas/imports.json
//	./schemas/catalog.json
//	./schemas/reports.json
//	./schemas/bills.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/lojista/backoffice-service/internal/handlers"
	"github.com/lojista/backoffice-service/internal/reports"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

func main() {
	outputDir := "./schemas"

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	groups := []SchemaGroup{
		{
			Name: "imports",
			Types: []any{
				handlers.ImportResponse{},
				handlers.ListImportRunsResponse{},
				handlers.ListChannelsResponse{},
				handlers.ListOrdersResponse{},
			},
			Output: "imports.json",
		},
		{
			Name: "catalog",
			Types: []any{
				handlers.ListProductsResponse{},
				handlers.UpdateProductCostRequest{},
				handlers.ProductGroupRequest{},
				handlers.ListProductGroupsResponse{},
				handlers.StockConfigRequest{},
				handlers.OpeningQtyRequest{},
			},
			Output: "catalog.json",
		},
		{
			Name: "reports",
			Types: []any{
				handlers.StockReportResponse{},
				handlers.ProjectionReportResponse{},
				handlers.SimulationRequest{},
				handlers.AdSpendRequest{},
				handlers.PaymentTypeFeeRequest{},
				reports.AdsDashboard{},
				reports.SimulationResult{},
			},
			Output: "reports.json",
		},
		{
			Name: "bills",
			Types: []any{
				handlers.BillRequest{},
				handlers.BillPaymentRequest{},
				handlers.ListBillsResponse{},
			},
			Output: "bills.json",
		},
	}

	for _, group := range groups {
		schema := generateGroupSchema(group)
		outputPath := filepath.Join(outputDir, group.Output)

		if err := writeSchema(schema, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", group.Output, err)
			os.Exit(1)
		}

		fmt.Printf("Generated %s\n", outputPath)
	}

	fmt.Println("Schema generation complete!")
}

// generateGroupSchema creates a combined schema with all types in a group
func generateGroupSchema(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{
		DoNotReference: false,
		ExpandedStruct: false,
	}

	definitions := make(map[string]any)

	for _, t := range group.Types {
		schema := reflector.Reflect(t)

		// Extract type name from $ref like "#/$defs/ImportResponse"
		typeName := ""
		if schema.Ref != "" {
			typeName = filepath.Base(schema.Ref)
		}

		for name, def := range schema.Definitions {
			definitions[name] = def
		}

		if typeName != "" && schema.Definitions[typeName] != nil {
			definitions[typeName] = schema.Definitions[typeName]
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://lojista.dev/schemas/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// writeSchema writes a schema to a JSON file
func writeSchema(schema map[string]any, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
