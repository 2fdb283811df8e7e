package crawler

import (
	log "github.com/sirupsen/logrus"

	"vnbcrawler/internal/observability"
)

// FilterLinks drops candidates that are already in seen, and repeats within
// candidates, keeping the order of first appearance.
func FilterLinks(candidates []string, seen map[string]struct{}) []string {
	out := make([]string, 0, len(candidates))
	queued := make(map[string]struct{}, len(candidates))
	for _, link := range candidates {
		if _, ok := seen[link]; ok {
			observability.LinksSkipped.Inc()
			log.WithField("link", link).Info("skipping existing link")
			continue
		}
		if _, ok := queued[link]; ok {
			log.WithField("link", link).Debug("link listed more than once")
			continue
		}
		queued[link] = struct{}{}
		out = append(out, link)
	}
	return out
}
