package aggregate

import (
	"vnbcrawler/internal/model"
)

const (
	TotalBrandLabel   = "Total Brand"
	TotalProductLabel = "Total Product"
)

// SummaryHeader is the first row of the summary sheet.
var SummaryHeader = [2]string{"Brand", "Product Count"}

// Summarize counts products per brand, in store order, followed by the
// number of brands and the total product count. Reserved sheets are not
// brands and are ignored.
func Summarize(store *model.Store) []model.SummaryRow {
	var (
		out      []model.SummaryRow
		products int
	)
	for _, brand := range store.Brands() {
		if model.IsReserved(brand) {
			continue
		}
		rows, _ := store.Sheet(brand)
		n := 0
		for _, r := range rows {
			if r.Field == model.FieldProduct {
				n++
			}
		}
		out = append(out, model.SummaryRow{Brand: brand, Count: n})
		products += n
	}
	out = append(out,
		model.SummaryRow{Brand: TotalBrandLabel, Count: len(out)},
		model.SummaryRow{Brand: TotalProductLabel, Count: products},
	)
	return out
}

// Finalize removes reserved sheets from store and computes its summary. The
// returned store holds brand sheets only.
func Finalize(store *model.Store) (*model.Store, []model.SummaryRow) {
	out := model.NewStore()
	for _, brand := range store.Brands() {
		if model.IsReserved(brand) {
			continue
		}
		rows, _ := store.Sheet(brand)
		out.Set(brand, rows)
	}
	return out, Summarize(out)
}
