package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"qkart/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,name,category,cost,rating,image
00000000-0000-0000-0000-000000000001,UNIFACTOR Mens Running Shoes,Fashion,50,5,https://example.com/images/running-shoes.png
KCRwjF7lN97HnEaY,YONEX Smash Badminton Racquet,Sports,100.50,5,
,,,,,
,Tan Leatherette Weekender Duffle,Fashion,150,,`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 products imported, got %d", count)
	}
	if len(repo.items) != 3 {
		t.Fatalf("expected 3 products saved, got %d", len(repo.items))
	}

	first := repo.items[0]
	if first.ID != "00000000-0000-0000-0000-000000000001" {
		t.Fatalf("expected id to be preserved, got %s", first.ID)
	}
	if first.Name != "UNIFACTOR Mens Running Shoes" || first.Category != "Fashion" || !first.Cost.Equal(decimal.NewFromInt(50)) || first.Rating != 5 {
		t.Fatalf("unexpected product data: %+v", first)
	}

	legacy := repo.items[1]
	if legacy.ID == "" || legacy.ID == "KCRwjF7lN97HnEaY" {
		t.Fatalf("expected legacy id to be mapped to a uuid, got %q", legacy.ID)
	}
	if legacy.ID != normalizeID("KCRwjF7lN97HnEaY") {
		t.Fatalf("expected stable legacy id mapping")
	}
	if !legacy.Cost.Equal(decimal.RequireFromString("100.5")) {
		t.Fatalf("unexpected cost %s", legacy.Cost)
	}

	if repo.items[2].ID != "" || repo.items[2].Rating != 0 {
		t.Fatalf("unexpected third product %+v", repo.items[2])
	}
}

func TestCSVImporter_RejectsInvalidRow(t *testing.T) {
	csvData := `name,category,cost,rating
Good Product,Misc,10,3
Bad Product,Misc,-5,3
Never Reached,Misc,1,1`

	repo := &stubProductRepo{}
	count, err := NewCSVImporter(strings.NewReader(csvData), repo).Run(context.Background())
	if err == nil {
		t.Fatalf("expected error for negative cost")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected line number in error, got %v", err)
	}
	if count != 1 || len(repo.items) != 1 {
		t.Fatalf("expected only the first row imported, got %d", count)
	}
}

func TestCSVImporter_MissingColumns(t *testing.T) {
	_, err := NewCSVImporter(strings.NewReader("id,name\n1,x\n"), &stubProductRepo{}).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), `"category"`) {
		t.Fatalf("expected missing column error, got %v", err)
	}
}
