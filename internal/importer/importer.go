package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"qkart/internal/domain"
)

// legacyIDSpace turns non-UUID ids from older exports into stable UUIDs, so
// re-importing the same file updates instead of duplicating.
var legacyIDSpace = uuid.MustParse("5f0f5c1e-7a4b-4e0e-9a51-6b1c7d0e2a11")

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV files with the columns
// id,name,category,cost,rating,image and upserts every row.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

var requiredColumns = []string{"name", "category", "cost"}

// Run parses CSV rows and upserts them. It stops at the first invalid row and
// reports its line.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if err := domain.ValidateProduct(p); err != nil {
			return imported, fmt.Errorf("line %d: invalid product: %w", line, err)
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("line %d: upsert product %q: %w", line, p.Name, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	p := domain.Product{
		ID:       normalizeID(pick(record, index, "id")),
		Name:     pick(record, index, "name"),
		Category: pick(record, index, "category"),
		Image:    pick(record, index, "image"),
	}

	cost, err := decimal.NewFromString(pick(record, index, "cost"))
	if err != nil {
		return domain.Product{}, fmt.Errorf("cost: %w", err)
	}
	p.Cost = cost

	if raw := pick(record, index, "rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Product{}, fmt.Errorf("rating %q: %w", raw, err)
		}
		p.Rating = rating
	}
	return p, nil
}

func normalizeID(id string) string {
	if id == "" {
		return ""
	}
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return uuid.NewSHA1(legacyIDSpace, []byte(id)).String()
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
