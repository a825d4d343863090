package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hw-reconciliation/internal/domain"
)

var (
	bankColumns   = []string{"id", "date", "description", "amount"}
	systemColumns = []string{"id", "date", "description", "type", "amount"}
)

// columnAliases maps accepted header names to the canonical column.
var columnAliases = map[string]string{
	"id":                    "id",
	"trxid":                 "id",
	"unique_identifier":     "id",
	"date":                  "date",
	"transactiontime":       "date",
	"description":           "description",
	"amount":                "amount",
	"type":                  "type",
	"category":              "category",
	"document":              "document",
	"external_document_ref": "document",
}

// CSVTransactionRepository reads bank statements and system exports from CSV files.
// Values are kept as strings; parsing is the normalizer's job.
type CSVTransactionRepository struct{}

// NewCSVTransactionRepository creates a new repository instance.
func NewCSVTransactionRepository() *CSVTransactionRepository {
	return &CSVTransactionRepository{}
}

// GetSystemLines reads the system transactions CSV file.
func (r *CSVTransactionRepository) GetSystemLines(ctx context.Context, path string) ([]domain.RawLine, error) {
	return readLines(ctx, path, systemColumns)
}

// GetBankLines reads and concatenates multiple bank statement CSV files.
func (r *CSVTransactionRepository) GetBankLines(ctx context.Context, paths []string) ([]domain.RawLine, error) {
	var all []domain.RawLine
	for _, path := range paths {
		lines, err := readLines(ctx, path, bankColumns)
		if err != nil {
			return nil, err
		}
		all = append(all, lines...)
	}
	return all, nil
}

func readLines(ctx context.Context, path string, required []string) ([]domain.RawLine, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	index, err := headerIndex(header, required)
	if err != nil {
		return nil, fmt.Errorf("invalid header in %s: %w", path, err)
	}

	source := filepath.Base(path)
	var lines []domain.RawLine
	for lineNo := 2; ; lineNo++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", path, err)
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}
		lines = append(lines, domain.RawLine{
			Source:      source,
			Line:        lineNo,
			ID:          field("id"),
			Date:        field("date"),
			Description: field("description"),
			Amount:      field("amount"),
			Type:        field("type"),
			Category:    field("category"),
			Document:    field("document"),
		})
	}
	return lines, nil
}

func headerIndex(header []string, required []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canonical, ok := columnAliases[name]; ok {
			if _, dup := index[canonical]; !dup {
				index[canonical] = i
			}
		}
	}
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing column(s): %s", strings.Join(missing, ", "))
	}
	return index, nil
}
