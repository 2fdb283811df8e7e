package model

// Field names with meaning to the pipeline. Everything else in a record is
// free-form specification data.
const (
	FieldSTT       = "STT"
	FieldLink      = "Link"
	FieldBrand     = "Brand"
	FieldProduct   = "Product"
	FieldPrice     = "Price"
	FieldListPrice = "List price"
)

// Row is one line of a brand sheet: a label cell, a field name and its value.
type Row struct {
	Label string `json:"label"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// IsBlank reports whether r is a separator row.
func (r Row) IsBlank() bool {
	return r.Label == "" && r.Field == "" && r.Value == ""
}

// Cells returns the row as spreadsheet cells.
func (r Row) Cells() []string {
	return []string{r.Label, r.Field, r.Value}
}

// RowFromCells builds a Row from up to three cells; missing cells are empty
// and extra cells are ignored.
func RowFromCells(cells []string) Row {
	var r Row
	if len(cells) > 0 {
		r.Label = cells[0]
	}
	if len(cells) > 1 {
		r.Field = cells[1]
	}
	if len(cells) > 2 {
		r.Value = cells[2]
	}
	return r
}

// ProductRecord is the extracted data of one product page.
type ProductRecord struct {
	Brand string
	Rows  []Row
}

// Link returns the value of the record's Link row.
func (p *ProductRecord) Link() string {
	for _, r := range p.Rows {
		if r.Field == FieldLink {
			return r.Value
		}
	}
	return ""
}

// Title returns the value of the record's Product row.
func (p *ProductRecord) Title() string {
	for _, r := range p.Rows {
		if r.Field == FieldProduct {
			return r.Value
		}
	}
	return ""
}

// SummaryRow is one (label, count) pair of the summary sheet.
type SummaryRow struct {
	Brand string
	Count int
}
