// Package sitefetch pulls the text profile out of a lead's website: page
// title, meta description and the visible body text with chrome stripped.
// Downstream analysis collaborators consume the text; this package only
// extracts it.
package sitefetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/publicsuffix"

	"prospector/internal/domain"
)

// Kept close to a real browser UA to avoid basic bot blocking.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const maxTextLen = 20000

type Client struct {
	hc *http.Client
}

func New() *Client {
	return &Client{hc: &http.Client{Timeout: 20 * time.Second}}
}

// Profile fetches rawURL and extracts its text profile.
func (c *Client) Profile(ctx context.Context, rawURL string) (domain.SiteProfile, error) {
	var p domain.SiteProfile

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return p, fmt.Errorf("invalid url %q", rawURL)
	}
	p.URL = rawURL
	if registrable, err := publicsuffix.EffectiveTLDPlusOne(u.Hostname()); err == nil {
		p.Domain = registrable
	} else {
		p.Domain = u.Hostname()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return p, err
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := c.hc.Do(req)
	if err != nil {
		return p, fmt.Errorf("fetch website: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return p, fmt.Errorf("fetch website: %s", res.Status)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return p, fmt.Errorf("parse html: %w", err)
	}

	p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	p.Description, _ = doc.Find(`meta[name="description"]`).First().Attr("content")
	p.Description = strings.TrimSpace(p.Description)

	// Drop non-content elements before collecting text. Nav stays: service
	// menus often live there.
	doc.Find("script, style, footer, iframe, noscript").Remove()
	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if len(text) > maxTextLen {
		text = text[:maxTextLen]
	}
	p.Text = text
	return p, nil
}
