// Package discover locates Daily Price Index bulletins on the DA
// price-monitoring page. It scans the listing's anchors for DPI PDF links
// and selects the newest bulletin by the date embedded in its filename,
// keeping discovery logic separate from the ingest pipeline.
package discover

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/budgetwise/pricepipe/core"
)

// Newest fetches the listing page and returns the most recent bulletin.
func Newest(ctx context.Context, listURL string, fetcher core.Fetcher) (*core.Bulletin, error) {
	bulletins, err := List(ctx, listURL, fetcher)
	if err != nil {
		return nil, err
	}

	var newest *core.Bulletin
	for i := range bulletins {
		if newest == nil || bulletins[i].Date > newest.Date {
			newest = &bulletins[i]
		}
	}
	if newest == nil {
		return nil, fmt.Errorf("no dated Daily Price Index PDFs found at %s", listURL)
	}
	return newest, nil
}

// List returns every dated bulletin linked from the listing page, in page
// order, deduplicated by resolved URL.
func List(ctx context.Context, listURL string, fetcher core.Fetcher) ([]core.Bulletin, error) {
	html, err := fetcher.Fetch(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("fetching listing page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing listing page: %w", err)
	}

	base, err := url.Parse(listURL)
	if err != nil {
		return nil, fmt.Errorf("parsing listing URL: %w", err)
	}

	var bulletins []core.Bulletin
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || !IsBulletinLink(strings.TrimSpace(href)) {
			return
		}

		resolved := resolveURL(strings.TrimSpace(href), base)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true

		date, ok := DateFromFilename(Filename(resolved))
		if !ok {
			return
		}

		bulletins = append(bulletins, core.Bulletin{
			URL:  resolved,
			Date: date.Format(time.DateOnly),
		})
	})

	if len(bulletins) == 0 {
		return nil, fmt.Errorf("no Daily Price Index PDFs found at %s", listURL)
	}
	return bulletins, nil
}
