package sites

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// browserUA is the client identifier sent on every fetch. Several of
// the sources refuse default Go user agents outright.
const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// NewClient builds the shared HTTP client with the configured bound on
// every fetch. No retries happen at this layer; a failed fetch waits
// for the next scheduled cycle.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// fetchPage performs a single GET. Non-2xx statuses are errors.
func fetchPage(ctx context.Context, client *http.Client, url string, headers map[string]string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("build request %s: %w", url, err)
	}

	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Page{}, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return Page{}, fmt.Errorf("read %s: %w", url, err)
	}

	return Page{URL: url, Body: body}, nil
}

// fetchPages fetches every URL in order. Pages that fail are skipped;
// an error is returned only when nothing could be fetched at all.
func fetchPages(ctx context.Context, client *http.Client, urls []string, headers map[string]string) (*RawDocument, error) {
	doc := &RawDocument{}
	var lastErr error

	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return doc, err
		}
		page, err := fetchPage(ctx, client, url, headers)
		if err != nil {
			lastErr = err
			continue
		}
		doc.Pages = append(doc.Pages, page)
	}

	if len(doc.Pages) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return doc, nil
}
