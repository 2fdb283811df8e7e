package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"vnbcrawler/internal/model"
	"vnbcrawler/internal/observability"
)

const (
	selectorSpecRows   = "#tab_thong_so tbody tr"
	selectorBreadcrumb = ".breadcrumb li"
	selectorVendor     = ".inventory_quantity .a-vendor"
	selectorPrice      = ".price-box .bk-product-price"
	selectorListPrice  = ".price-box .product-price-old"
)

// Extractor turns product detail pages into records.
type Extractor struct {
	Fetcher Fetcher
}

// Extract fetches link and parses it. Errors are *FetchError or wrap
// ErrNoData; either way the product is simply absent from this run.
func (e *Extractor) Extract(ctx context.Context, link string) (*model.ProductRecord, error) {
	logger := log.WithField("url", link)

	body, err := e.Fetcher.Get(ctx, link)
	if err != nil {
		observability.ProductsFetched.WithLabelValues("fetch_error").Inc()
		logger.WithError(err).Error("failed to fetch product")
		return nil, err
	}

	record, err := ParseProduct(link, body)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			observability.ProductsFetched.WithLabelValues("no_data").Inc()
			logger.Warn("no specification table")
		} else {
			observability.ProductsFetched.WithLabelValues("parse_error").Inc()
			logger.WithError(err).Error("failed to parse product")
		}
		return nil, err
	}

	observability.ProductsFetched.WithLabelValues("extracted").Inc()
	logger.WithFields(log.Fields{"brand": record.Brand, "product": record.Title()}).Info("fetched product")
	return record, nil
}

// ParseProduct builds the record for the product page at link. The STT value
// is left empty: sequence numbers are assigned when sheets are merged.
func ParseProduct(link string, body []byte) (*model.ProductRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", link, err)
	}

	specs := doc.Find(selectorSpecRows)
	if specs.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, link)
	}

	title := strings.TrimSpace(doc.Find(selectorBreadcrumb).Last().Text())
	brand := strings.TrimSpace(doc.Find(selectorVendor).Text())
	price := digitsOnly(doc.Find(selectorPrice).Text())
	listPrice := digitsOnly(doc.Find(selectorListPrice).Text())

	rows := make([]model.Row, 0, 6+specs.Length())
	rows = append(rows, model.Row{Field: model.FieldSTT})

	label := 1
	add := func(field, value string) {
		rows = append(rows, model.Row{Label: strconv.Itoa(label), Field: field, Value: value})
		label++
	}

	add(model.FieldLink, link)
	add(model.FieldBrand, brand)
	add(model.FieldProduct, title)
	add(model.FieldPrice, price)
	add(model.FieldListPrice, listPrice)

	specs.Each(func(_ int, s *goquery.Selection) {
		cells := s.Find("td")
		add(specName(cells.First().Text()), specValue(cells.Last().Text()))
	})

	return &model.ProductRecord{Brand: model.BrandKey(brand), Rows: rows}, nil
}
