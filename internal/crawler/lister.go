package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"vnbcrawler/internal/observability"
)

const selectorThumbnail = "a.image_thumb"

// Lister enumerates the catalog's listing pages.
type Lister struct {
	Fetcher Fetcher
}

// ListPages fetches pages 1..pageCount of the listing at baseURL in parallel
// and returns the product links they contain, page by page. A page that
// fails to load contributes nothing.
func (l *Lister) ListPages(ctx context.Context, baseURL string, pageCount int) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url %s: %w", baseURL, err)
	}
	if pageCount <= 0 {
		return nil, nil
	}

	pages := make([][]string, pageCount)
	var g errgroup.Group
	for i := range pages {
		g.Go(func() error {
			pages[i] = l.listPage(ctx, base, i+1)
			return nil
		})
	}
	_ = g.Wait()

	var links []string
	for _, p := range pages {
		links = append(links, p...)
	}
	return links, nil
}

func (l *Lister) listPage(ctx context.Context, base *url.URL, page int) []string {
	pageURL := PageURL(base, page)
	logger := log.WithFields(log.Fields{"page": page, "url": pageURL})

	body, err := l.Fetcher.Get(ctx, pageURL)
	if err != nil {
		observability.PagesFetched.WithLabelValues("fetch_error").Inc()
		logger.WithError(err).Error("failed to fetch listing page")
		return nil
	}

	links, err := ParseListing(body, base)
	if err != nil {
		observability.PagesFetched.WithLabelValues("parse_error").Inc()
		logger.WithError(err).Error("failed to parse listing page")
		return nil
	}
	observability.PagesFetched.WithLabelValues("ok").Inc()
	logger.WithField("links", len(links)).Debug("listed page")
	return links
}

// PageURL returns the address of listing page n.
func PageURL(base *url.URL, n int) string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String()
}

// ParseListing extracts the thumbnail links of a listing page in document
// order, resolved against base.
func ParseListing(body []byte, base *url.URL) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find(selectorThumbnail).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if link, ok := NormalizeLink(base, href); ok {
			links = append(links, link)
		}
	})
	return links, nil
}
