package model

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	SummarySheet     = "Summary"
	PlaceholderSheet = "Sheet1"

	unknownBrand  = "Unknown"
	maxSheetRunes = 31
)

// IsReserved reports whether name is used by the workbook itself and can
// never hold brand data. Sheet names compare case-insensitively.
func IsReserved(name string) bool {
	return strings.EqualFold(name, SummarySheet) || strings.EqualFold(name, PlaceholderSheet)
}

var sheetNameReplacer = strings.NewReplacer(
	":", "-", `\`, "-", "/", "-", "?", "-", "*", "-", "[", "-", "]", "-",
)

// BrandKey turns a scraped vendor label into the key used for its sheet.
// Spreadsheet sheet names cannot contain some characters, cannot start or end
// with a quote, are limited to 31 characters, and cannot collide with the
// reserved sheets. Brands cut to the same 31 characters share a sheet.
func BrandKey(brand string) string {
	key, truncated := brandKey(brand)
	if truncated {
		log.WithFields(log.Fields{"brand": brand, "sheet": key}).Warn("brand name truncated to fit a sheet name")
	}
	return key
}

func brandKey(brand string) (string, bool) {
	key, truncated := clampSheetName(sheetNameReplacer.Replace(brand))
	if key == "" {
		return unknownBrand, false
	}
	if IsReserved(key) {
		key, _ = clampSheetName("Brand " + key)
	}
	return key, truncated
}

func clampSheetName(name string) (string, bool) {
	truncated := false
	if r := []rune(name); len(r) > maxSheetRunes {
		name = string(r[:maxSheetRunes])
		truncated = true
	}
	return strings.Trim(strings.TrimSpace(name), "' "), truncated
}
