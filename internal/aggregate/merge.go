package aggregate

import (
	"strconv"
	"strings"

	"vnbcrawler/internal/model"
)

// Merge combines the persisted store with newly extracted records.
//
// Records are bucketed per brand, each followed by a blank separator row.
// Every brand keeps its existing rows ahead of the new ones, brands with no
// new data are carried over, and brands seen for the first time are appended
// after the existing ones in the order their first record appears. STT values
// are assigned while each final sheet is assembled, counting from 1 per
// brand; whatever the rows carried before is discarded. Brand names match
// case-insensitively, as sheet names do.
func Merge(existing *model.Store, records []*model.ProductRecord) *model.Store {
	if existing == nil {
		existing = model.NewStore()
	}

	keys := make(map[string]string, existing.Len())
	for _, brand := range existing.Brands() {
		keys[strings.ToLower(brand)] = brand
	}

	fresh := model.NewStore()
	for _, rec := range records {
		if rec == nil {
			continue
		}
		brand, ok := keys[strings.ToLower(rec.Brand)]
		if !ok {
			brand = rec.Brand
			keys[strings.ToLower(brand)] = brand
		}
		fresh.Append(brand, rec.Rows...)
		fresh.Append(brand, model.Row{})
	}

	out := model.NewStore()
	for _, brand := range existing.Brands() {
		old, _ := existing.Sheet(brand)
		added, _ := fresh.Sheet(brand)
		out.Set(brand, buildSheet(old, added))
	}
	for _, brand := range fresh.Brands() {
		if _, ok := out.Sheet(brand); ok {
			continue
		}
		added, _ := fresh.Sheet(brand)
		out.Set(brand, buildSheet(added))
	}
	return out
}

// buildSheet concatenates parts into a new row slice, numbering STT rows as
// it goes.
func buildSheet(parts ...[]model.Row) []model.Row {
	size := 0
	for _, p := range parts {
		size += len(p)
	}

	rows := make([]model.Row, 0, size)
	stt := 1
	for _, p := range parts {
		for _, r := range p {
			if r.Field == model.FieldSTT {
				r.Value = strconv.Itoa(stt)
				stt++
			}
			rows = append(rows, r)
		}
	}
	return rows
}
