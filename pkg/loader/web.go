package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"
)

const (
	userAgent     = "Mozilla/5.0 (compatible; StructuredDataBot/1.0)"
	maxBodyTokens = 2000
)

// socialHosts marks outbound profile links worth collecting as sameAs
// candidates.
var socialHosts = []string{
	"facebook.com", "linkedin.com", "twitter.com", "x.com",
	"youtube.com", "instagram.com", "nextdoor.com", "bbb.org",
	"yelp.com", "mapquest.com",
}

// PageData holds the signals scraped from one live page. Everything here is
// advisory input for generation, a failed fetch leaves the struct empty and
// Err set.
type PageData struct {
	URL             string
	Status          int
	Title           string
	H1              string
	MetaDescription string
	OGImage         string
	OGSiteName      string
	BodyText        string
	PhoneNumbers    []string
	EmailAddresses  []string
	SocialLinks     []string
	LogoURL         string
	ExistingJSONLD  []any
	InternalLinks   []string
	Err             error
}

// PageFetcher fetches pages over HTTP and extracts their signals. Results
// are cached per URL and concurrent fetches of the same URL are collapsed
// into one request.
type PageFetcher struct {
	client *http.Client

	cache   map[string]*PageData
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewPageFetcher creates a fetcher using the given HTTP client, or
// http.DefaultClient when nil.
func NewPageFetcher(client *http.Client) *PageFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &PageFetcher{
		client: client,
		cache:  make(map[string]*PageData),
	}
}

// Fetch retrieves a page and extracts its signals. Fetch failures are not
// errors at this level: the returned PageData carries Err and generation
// proceeds on CSV data alone.
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) *PageData {
	f.cacheMu.RLock()
	if cached, ok := f.cache[pageURL]; ok {
		f.cacheMu.RUnlock()
		return cached
	}
	f.cacheMu.RUnlock()

	result, _, _ := f.group.Do(pageURL, func() (any, error) {
		f.cacheMu.RLock()
		if cached, ok := f.cache[pageURL]; ok {
			f.cacheMu.RUnlock()
			return cached, nil
		}
		f.cacheMu.RUnlock()

		data := f.fetch(ctx, pageURL)

		f.cacheMu.Lock()
		f.cache[pageURL] = data
		f.cacheMu.Unlock()

		return data, nil
	})

	return result.(*PageData)
}

func (f *PageFetcher) fetch(ctx context.Context, pageURL string) *PageData {
	data := &PageData{URL: pageURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		data.Err = fmt.Errorf("failed to create request: %w", err)
		return data
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		data.Err = fmt.Errorf("failed to fetch url: %w", err)
		return data
	}
	defer resp.Body.Close()

	data.Status = resp.StatusCode
	if resp.StatusCode >= 400 {
		data.Err = fmt.Errorf("fetch returned status %d", resp.StatusCode)
		return data
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		data.Err = fmt.Errorf("failed to read response: %w", err)
		return data
	}

	ExtractSignals(data, body)
	return data
}

// ExtractSignals parses an HTML document and fills the page signals: head
// metadata, contact links, social profiles, embedded JSON-LD and readable
// body text.
func ExtractSignals(data *PageData, body []byte) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		data.Err = fmt.Errorf("failed to parse html: %w", err)
		return
	}

	domain := pageDomain(data.URL)
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "title":
			if data.Title == "" {
				data.Title = nodeText(n)
			}
		case "h1":
			if data.H1 == "" {
				data.H1 = nodeText(n)
			}
		case "meta":
			extractMeta(data, n)
		case "a":
			extractAnchor(data, n, domain)
		case "link":
			if attrContains(attr(n, "rel"), "icon") && data.LogoURL == "" {
				data.LogoURL = absolutize(attr(n, "href"), domain)
			}
		case "script":
			if attr(n, "type") == "application/ld+json" {
				var block any
				if err := json.Unmarshal([]byte(nodeText(n)), &block); err == nil {
					data.ExistingJSONLD = append(data.ExistingJSONLD, block)
				}
			}
		}
	})

	data.BodyText = readableText(data.URL, body)
}

func extractMeta(data *PageData, n *html.Node) {
	content := strings.TrimSpace(attr(n, "content"))
	if content == "" {
		return
	}
	switch {
	case attr(n, "name") == "description":
		data.MetaDescription = content
	case attr(n, "property") == "og:image":
		data.OGImage = content
	case attr(n, "property") == "og:site_name":
		data.OGSiteName = content
	}
}

func extractAnchor(data *PageData, n *html.Node, domain string) {
	href := attr(n, "href")
	switch {
	case strings.HasPrefix(href, "tel:"):
		phone := strings.TrimSpace(strings.TrimPrefix(href, "tel:"))
		data.PhoneNumbers = appendUnique(data.PhoneNumbers, phone)
	case strings.HasPrefix(href, "mailto:"):
		email := strings.TrimPrefix(href, "mailto:")
		email, _, _ = strings.Cut(email, "?")
		data.EmailAddresses = appendUnique(data.EmailAddresses, strings.TrimSpace(email))
	case strings.HasPrefix(href, "/"):
		data.InternalLinks = append(data.InternalLinks, domain+href)
	case domain != "" && strings.HasPrefix(href, domain):
		data.InternalLinks = append(data.InternalLinks, href)
	}
	for _, host := range socialHosts {
		if strings.Contains(href, host) {
			data.SocialLinks = appendUnique(data.SocialLinks, href)
			break
		}
	}
}

// readableText extracts the main article text and caps it to the prompt
// token budget.
func readableText(pageURL string, body []byte) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(string(body)), parsed)
	if err != nil {
		return ""
	}
	var builder strings.Builder
	if err := article.RenderText(&builder); err != nil {
		return ""
	}
	return truncateTokens(strings.Join(strings.Fields(builder.String()), " "), maxBodyTokens)
}

func truncateTokens(text string, limit int) string {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return text
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text
	}
	return enc.Decode(tokens[:limit])
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

func nodeText(n *html.Node) string {
	var builder strings.Builder
	walk(n, func(child *html.Node) {
		if child.Type == html.TextNode {
			builder.WriteString(child.Data)
		}
	})
	return strings.TrimSpace(builder.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func attrContains(value, want string) bool {
	for _, part := range strings.Fields(value) {
		if strings.EqualFold(part, want) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, value string) []string {
	if value == "" {
		return list
	}
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

func absolutize(href, domain string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return domain + href
}

func pageDomain(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host)
}
