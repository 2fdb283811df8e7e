package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vnbcrawler/internal/model"
)

// SpecPair is one specification table entry. Specs are kept as an ordered
// list since names repeat and their order is part of the page layout.
type SpecPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Snapshot is the archived form of a product record.
type Snapshot struct {
	Link      string
	Brand     string
	Product   string
	Price     string
	ListPrice string
	Specs     []SpecPair
}

// NewSnapshot splits a record into its header fields and specification
// pairs.
func NewSnapshot(rec *model.ProductRecord) Snapshot {
	s := Snapshot{Brand: rec.Brand, Specs: []SpecPair{}}
	for _, r := range rec.Rows {
		switch r.Field {
		case model.FieldSTT:
		case model.FieldLink:
			s.Link = r.Value
		case model.FieldBrand:
			if r.Value != "" {
				s.Brand = r.Value
			}
		case model.FieldProduct:
			s.Product = r.Value
		case model.FieldPrice:
			s.Price = r.Value
		case model.FieldListPrice:
			s.ListPrice = r.Value
		default:
			if r.IsBlank() {
				continue
			}
			s.Specs = append(s.Specs, SpecPair{Name: r.Field, Value: r.Value})
		}
	}
	return s
}

// Postgres rejects invalid UTF-8 in text columns.
func validUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}

type SnapshotRepository struct {
	DB *pgxpool.Pool
}

// SaveAll upserts the records of one run, keyed by link.
func (r *SnapshotRepository) SaveAll(ctx context.Context, runID string, records []*model.ProductRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		s := NewSnapshot(rec)
		specs, err := json.Marshal(s.Specs)
		if err != nil {
			return fmt.Errorf("failed to encode specs for %s: %w", s.Link, err)
		}
		batch.Queue(`
			INSERT INTO product_snapshot
			(id, run_id, link, brand, product, price, list_price, specs)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (link) DO UPDATE
			SET run_id = EXCLUDED.run_id, brand = EXCLUDED.brand, product = EXCLUDED.product,
			    price = EXCLUDED.price, list_price = EXCLUDED.list_price, specs = EXCLUDED.specs,
			    crawled_at = now()
		`, uuid.New(), runID, s.Link, validUTF8(s.Brand), validUTF8(s.Product), s.Price, s.ListPrice, specs)
	}

	br := r.DB.SendBatch(ctx, batch)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
	}
	return nil
}

// CountByBrand reports how many archived products each brand has.
func (r *SnapshotRepository) CountByBrand(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.Query(ctx, `SELECT brand, count(*) FROM product_snapshot GROUP BY brand`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var brand string
		var n int
		if err := rows.Scan(&brand, &n); err != nil {
			return nil, err
		}
		counts[brand] = n
	}
	return counts, rows.Err()
}
