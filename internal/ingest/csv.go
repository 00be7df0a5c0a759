// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// invoiceColumns and productColumns are the header names recognized for
// the basket identifier and item name, checked case-insensitively.
var (
	invoiceColumns  = []string{"invoiceno", "invoice", "invoiceid", "invoice_no", "invoice_id", "transaction", "transaction_id", "basket_id"}
	productColumns  = []string{"description", "product", "item", "product_name", "item_name"}
	quantityColumns = []string{"quantity", "qty", "units"}
)

// LoadStats summarizes one CSV load.
type LoadStats struct {
	RowsRead          int
	RowsSkipped       int
	CancelledInvoices int
	Baskets           int
}

// CSVLoader reads baskets from a transactional CSV export. It implements
// the engine's TransactionSource.
type CSVLoader struct {
	path   string
	logger zerolog.Logger

	stats LoadStats
}

// NewCSVLoader creates a loader for the given file path.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCSVLoader(path string, logger zerolog.Logger) *CSVLoader {
	return &CSVLoader{
		path:   path,
		logger: logger.With().Str("component", "ingest").Logger(),
	}
}

// Stats returns the counters from the most recent load.
func (l *CSVLoader) Stats() LoadStats {
	return l.stats
}

// Transactions reads the file and returns one item slice per invoice.
// Basket order follows first appearance in the file, and items keep
// their within-invoice order, so repeated loads of the same file produce
// identical output.
func (l *CSVLoader) Transactions(ctx context.Context) ([][]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transactions file: %w", err)
	}
	defer f.Close()

	return l.read(ctx, f)
}

func (l *CSVLoader) read(ctx context.Context, r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("transactions file is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	invoiceCol, err := findColumn(header, invoiceColumns)
	if err != nil {
		return nil, err
	}
	productCol, err := findColumn(header, productColumns)
	if err != nil {
		return nil, err
	}
	// Quantity is optional; -1 means every row counts.
	quantityCol, _ := findColumn(header, quantityColumns)

	stats := LoadStats{}
	baskets := make(map[string][]string)
	seen := make(map[string]map[string]struct{})
	order := make([]string, 0)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed rows are skipped, not fatal. Real exports have them.
			stats.RowsSkipped++
			continue
		}
		stats.RowsRead++

		if invoiceCol >= len(record) || productCol >= len(record) {
			stats.RowsSkipped++
			continue
		}

		invoice := strings.TrimSpace(record[invoiceCol])
		product := strings.TrimSpace(record[productCol])

		if invoice == "" || product == "" {
			stats.RowsSkipped++
			continue
		}
		if strings.HasPrefix(strings.ToUpper(invoice), "C") {
			stats.CancelledInvoices++
			stats.RowsSkipped++
			continue
		}
		if quantityCol >= 0 && quantityCol < len(record) {
			qty, qerr := strconv.ParseFloat(strings.TrimSpace(record[quantityCol]), 64)
			if qerr == nil && qty <= 0 {
				stats.RowsSkipped++
				continue
			}
		}

		if _, ok := baskets[invoice]; !ok {
			order = append(order, invoice)
			seen[invoice] = make(map[string]struct{})
		}
		if _, dup := seen[invoice][product]; dup {
			continue
		}
		seen[invoice][product] = struct{}{}
		baskets[invoice] = append(baskets[invoice], product)
	}

	out := make([][]string, 0, len(order))
	for _, invoice := range order {
		out = append(out, baskets[invoice])
	}
	stats.Baskets = len(out)
	l.stats = stats

	l.logger.Info().
		Int("rows", stats.RowsRead).
		Int("skipped", stats.RowsSkipped).
		Int("cancelled", stats.CancelledInvoices).
		Int("baskets", stats.Baskets).
		Msg("Transactions loaded")

	return out, nil
}

// findColumn returns the index of the first header matching any of the
// candidate names, or -1 and an error when none match.
func findColumn(header []string, candidates []string) (int, error) {
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		for _, want := range candidates {
			if name == want {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("no column matching %v in header %v", candidates, header)
}
