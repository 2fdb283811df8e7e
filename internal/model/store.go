package model

import (
	"bytes"
	"encoding/json"
)

// Store maps brand names to their sheets. Brands iterate in insertion order,
// which is also the order sheets are written in.
type Store struct {
	order  []string
	sheets map[string][]Row
}

func NewStore() *Store {
	return &Store{sheets: make(map[string][]Row)}
}

// Brands returns the brand names in iteration order.
func (s *Store) Brands() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Store) Len() int {
	return len(s.order)
}

// Sheet returns the rows stored for brand.
func (s *Store) Sheet(brand string) ([]Row, bool) {
	rows, ok := s.sheets[brand]
	return rows, ok
}

// Set replaces the sheet for brand, registering the brand if it is new.
func (s *Store) Set(brand string, rows []Row) {
	if _, ok := s.sheets[brand]; !ok {
		s.order = append(s.order, brand)
	}
	s.sheets[brand] = rows
}

// Append adds rows to the end of brand's sheet.
func (s *Store) Append(brand string, rows ...Row) {
	existing, ok := s.sheets[brand]
	if !ok {
		s.order = append(s.order, brand)
	}
	s.sheets[brand] = append(existing, rows...)
}

// Delete removes brand from the store.
func (s *Store) Delete(brand string) {
	if _, ok := s.sheets[brand]; !ok {
		return
	}
	delete(s.sheets, brand)
	for i, b := range s.order {
		if b == brand {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// SeenLinks collects the value of every Link row in the store. normalize
// maps a stored value to its dedup key and may reject it.
func (s *Store) SeenLinks(normalize func(string) (string, bool)) map[string]struct{} {
	seen := make(map[string]struct{})
	for _, brand := range s.order {
		for _, r := range s.sheets[brand] {
			if r.Field != FieldLink || r.Value == "" {
				continue
			}
			key := r.Value
			if normalize != nil {
				var ok bool
				if key, ok = normalize(r.Value); !ok {
					continue
				}
			}
			seen[key] = struct{}{}
		}
	}
	return seen
}

// MarshalJSON encodes the store as an object of brand to row matrix, keeping
// brand order.
func (s *Store) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, brand := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(brand)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		matrix := make([][]string, 0, len(s.sheets[brand]))
		for _, r := range s.sheets[brand] {
			if r.IsBlank() {
				matrix = append(matrix, []string{})
				continue
			}
			matrix = append(matrix, r.Cells())
		}
		val, err := json.Marshal(matrix)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
