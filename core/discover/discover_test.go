package discover

import (
	"context"
	"fmt"
	"testing"
)

// pageFetcher serves canned pages keyed by URL.
type pageFetcher map[string][]byte

func (f pageFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	page, ok := f[url]
	if !ok {
		return nil, fmt.Errorf("no such page: %s", url)
	}
	return page, nil
}

const listingHTML = `<html><body>
<a href="/wp-content/uploads/Daily-Price-Index-December-9-2025.pdf">Dec 9</a>
<a href="https://www.da.gov.ph/wp-content/uploads/Daily-Price-Index-December-10-2025.pdf">Dec 10</a>
<a href="/wp-content/uploads/Daily-Price-Index-December-9-2025.pdf">Dec 9 again</a>
<a href="/wp-content/uploads/weekly-summary.pdf">Weekly</a>
<a href="mailto:info@da.gov.ph">Contact</a>
</body></html>`

func TestList(t *testing.T) {
	fetcher := pageFetcher{
		"https://www.da.gov.ph/price-monitoring/": []byte(listingHTML),
	}

	bulletins, err := List(context.Background(), "https://www.da.gov.ph/price-monitoring/", fetcher)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(bulletins) != 2 {
		t.Fatalf("got %d bulletins, want 2: %+v", len(bulletins), bulletins)
	}

	// Relative hrefs resolve against the listing URL.
	if bulletins[0].URL != "https://www.da.gov.ph/wp-content/uploads/Daily-Price-Index-December-9-2025.pdf" {
		t.Errorf("URL[0] = %q", bulletins[0].URL)
	}
	if bulletins[0].Date != "2025-12-09" {
		t.Errorf("Date[0] = %q, want 2025-12-09", bulletins[0].Date)
	}
}

func TestNewest(t *testing.T) {
	fetcher := pageFetcher{
		"https://www.da.gov.ph/price-monitoring/": []byte(listingHTML),
	}

	newest, err := Newest(context.Background(), "https://www.da.gov.ph/price-monitoring/", fetcher)
	if err != nil {
		t.Fatalf("Newest: %v", err)
	}
	if newest.Date != "2025-12-10" {
		t.Errorf("Date = %q, want 2025-12-10", newest.Date)
	}
	if newest.URL != "https://www.da.gov.ph/wp-content/uploads/Daily-Price-Index-December-10-2025.pdf" {
		t.Errorf("URL = %q", newest.URL)
	}
}

func TestListNoBulletins(t *testing.T) {
	fetcher := pageFetcher{
		"https://example.org/": []byte(`<html><body><a href="/about">About</a></body></html>`),
	}

	if _, err := List(context.Background(), "https://example.org/", fetcher); err == nil {
		t.Error("expected error when the page links no bulletins")
	}
}

func TestNewestFetchError(t *testing.T) {
	if _, err := Newest(context.Background(), "https://example.org/", pageFetcher{}); err == nil {
		t.Error("expected error when the listing page cannot be fetched")
	}
}
