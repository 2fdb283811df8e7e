package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vnbcrawler/internal/aggregate"
	"vnbcrawler/internal/model"
)

func productRows(stt, link, brand, title string) []model.Row {
	return []model.Row{
		{Field: model.FieldSTT, Value: stt},
		{Label: "1", Field: model.FieldLink, Value: link},
		{Label: "2", Field: model.FieldBrand, Value: brand},
		{Label: "3", Field: model.FieldProduct, Value: title},
		{Label: "4", Field: model.FieldPrice, Value: "100"},
		{Label: "5", Field: model.FieldListPrice, Value: "150"},
		{Label: "6", Field: "Weight", Value: "4U; 83g"},
		{},
	}
}

func sampleStore() *model.Store {
	store := model.NewStore()
	store.Set("Yonex", append(
		productRows("1", "https://shopvnb.com/a.html", "Yonex", "AeroX"),
		productRows("2", "https://shopvnb.com/b.html", "Yonex", "Astrox")...,
	))
	store.Set("Lining", productRows("1", "https://shopvnb.com/c.html", "Lining", "Axforce"))
	return store
}

func TestReadMissingWorkbook(t *testing.T) {
	store, err := ReadWorkbook(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.NoError(t, err)
	require.Equal(t, 0, store.Len())
}

func TestReadCorruptWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	_, err := ReadWorkbook(path)
	require.ErrorIs(t, err, ErrStoreRead)
}

func TestWorkbookRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "merged.xlsx")
	store, summary := aggregate.Finalize(sampleStore())
	require.NoError(t, WriteWorkbook(path, store, summary))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Yonex", "Lining", model.SummarySheet}, f.GetSheetList())
	rows, err := f.GetRows(model.SummarySheet)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"Brand", "Product Count"},
		{"Yonex", "2"},
		{"Lining", "1"},
		{"Total Brand", "2"},
		{"Total Product", "3"},
	}, rows)
	require.NoError(t, f.Close())

	read, err := ReadWorkbook(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Yonex", "Lining", model.SummarySheet}, read.Brands())
	for _, brand := range store.Brands() {
		want, _ := store.Sheet(brand)
		got, _ := read.Sheet(brand)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("sheet %s mismatch (-want +got):\n%s", brand, diff)
		}
	}
}

func TestWorkbookReplacesReservedSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged.xlsx")

	// A workbook as another tool might leave it: a default sheet and a stale
	// summary placed first.
	f := excelize.NewFile()
	_, err := f.NewSheet(model.SummarySheet)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(model.SummarySheet, "A1", &[]interface{}{"Brand", "Product Count"}))
	_, err = f.NewSheet("Yonex")
	require.NoError(t, err)
	for i, r := range productRows("9", "https://shopvnb.com/a.html", "Yonex", "AeroX") {
		if r.IsBlank() {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Yonex", cell, &[]interface{}{r.Label, r.Field, r.Value}))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	existing, err := ReadWorkbook(path)
	require.NoError(t, err)
	merged := aggregate.Merge(existing, nil)
	store, summary := aggregate.Finalize(merged)
	require.NoError(t, WriteWorkbook(path, store, summary))

	out, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer out.Close()
	require.Equal(t, []string{"Yonex", model.SummarySheet}, out.GetSheetList())

	yonex, err := out.GetRows("Yonex")
	require.NoError(t, err)
	require.Equal(t, []string{"", "STT", "1"}, yonex[0])
}

func TestWorkbookRestoresTrailingSeparator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged.xlsx")
	store, summary := aggregate.Finalize(sampleStore())
	require.NoError(t, WriteWorkbook(path, store, summary))

	read, err := ReadWorkbook(path)
	require.NoError(t, err)
	lining, _ := read.Sheet("Lining")
	require.True(t, lining[len(lining)-1].IsBlank())
	require.False(t, lining[len(lining)-2].IsBlank())
}

func TestWorkbookAcceptsLongQuotedBrand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged.xlsx")
	brand := model.BrandKey(strings.Repeat("x", 30) + "'y")

	store := model.NewStore()
	store.Set(brand, []model.Row{
		{Field: model.FieldSTT, Value: "1"},
		{Label: "1", Field: model.FieldLink, Value: "https://shopvnb.com/a.html"},
		{},
	})
	store, summary := aggregate.Finalize(store)
	require.NoError(t, WriteWorkbook(path, store, summary))

	read, err := ReadWorkbook(path)
	require.NoError(t, err)
	require.Equal(t, []string{brand, model.SummarySheet}, read.Brands())
}

func TestMirrorJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror", "data.json")
	task := MirrorJSON(path, sampleStore())
	require.NoError(t, task.Wait())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string][][]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded["Yonex"], 16)
	require.Equal(t, []string{"", "STT", "1"}, decoded["Yonex"][0])
	require.Empty(t, decoded["Lining"][7])
}

func TestMirrorJSONFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	task := MirrorJSON(filepath.Join(blocker, "data.json"), sampleStore())
	require.Error(t, task.Wait())
}
