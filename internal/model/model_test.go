package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreOrder(t *testing.T) {
	s := NewStore()
	s.Set("b", nil)
	s.Append("a", Row{Field: FieldProduct, Value: "x"})
	s.Append("b", Row{Field: FieldProduct, Value: "y"})
	s.Set("c", nil)
	require.Equal(t, []string{"b", "a", "c"}, s.Brands())

	s.Delete("a")
	s.Delete("missing")
	require.Equal(t, []string{"b", "c"}, s.Brands())

	rows, ok := s.Sheet("b")
	require.True(t, ok)
	require.Equal(t, []Row{{Field: FieldProduct, Value: "y"}}, rows)
}

func TestSeenLinks(t *testing.T) {
	s := NewStore()
	s.Set("Yonex", []Row{
		{Label: "1", Field: FieldLink, Value: "/a.html"},
		{Label: "2", Field: FieldBrand, Value: "Yonex"},
		{},
		{Label: "1", Field: FieldLink, Value: ""},
	})
	s.Set("Lining", []Row{{Label: "1", Field: FieldLink, Value: "https://x/b.html"}})

	require.Equal(t, map[string]struct{}{"/a.html": {}, "https://x/b.html": {}}, s.SeenLinks(nil))

	upper := func(v string) (string, bool) {
		if strings.HasPrefix(v, "/") {
			return "", false
		}
		return strings.ToUpper(v), true
	}
	require.Equal(t, map[string]struct{}{"HTTPS://X/B.HTML": {}}, s.SeenLinks(upper))
}

func TestStoreJSON(t *testing.T) {
	s := NewStore()
	s.Set("Zeta", []Row{{Field: FieldSTT, Value: "1"}, {}})
	s.Set("Alpha", []Row{{Label: "1", Field: FieldLink, Value: "x"}})

	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.Equal(t, `{"Zeta":[["","STT","1"],[]],"Alpha":[["1","Link","x"]]}`, string(data))
}

func TestRowFromCells(t *testing.T) {
	require.Equal(t, Row{}, RowFromCells(nil))
	require.Equal(t, Row{Label: "1", Field: "Link"}, RowFromCells([]string{"1", "Link"}))
	require.Equal(t, Row{Label: "1", Field: "a", Value: "b"}, RowFromCells([]string{"1", "a", "b", "extra"}))
	require.True(t, RowFromCells([]string{"", "", ""}).IsBlank())
}

func TestBrandKey(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Yonex", "Yonex"},
		{"  ", "Unknown"},
		{"Kumpoo/Kawasaki", "Kumpoo-Kawasaki"},
		{"summary", "Brand summary"},
		{"Sheet1", "Brand Sheet1"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
		{strings.Repeat("x", 30) + "'y", strings.Repeat("x", 30)},
		{"'Victor'", "Victor"},
		{"''", "Unknown"},
		{strings.Repeat("x", 30) + " 'y", strings.Repeat("x", 30)},
	}
	for _, c := range cases {
		require.Equal(t, c.want, BrandKey(c.in), c.in)
	}
	_, truncated := brandKey(strings.Repeat("x", 40))
	require.True(t, truncated)
	_, truncated = brandKey("Yonex")
	require.False(t, truncated)

	require.True(t, IsReserved("SUMMARY"))
	require.False(t, IsReserved("Yonex"))
}
