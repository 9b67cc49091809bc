package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"fontpair/internal/logging"
	"fontpair/pkg/models"
)

const userAgent = "Mozilla/5.0 (compatible; fontpair/1.0)"

// Limiter throttles outbound requests per host.
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

type httpGetter struct {
	Client  *http.Client
	Limiter Limiter
}

func (g httpGetter) get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if g.Limiter != nil {
		if err := g.Limiter.Wait(ctx, u.Host); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return body, nil
}

// MetadataSource reads fonts.google.com/metadata/fonts, the feed behind the
// Google Fonts site. It carries designers and popularity data.
type MetadataSource struct {
	URL    string
	Logger *log.Logger
	httpGetter
}

func NewMetadataSource(rawURL string, client *http.Client, limiter Limiter, logger *log.Logger) *MetadataSource {
	if logger == nil {
		logger = logging.Discard()
	}
	return &MetadataSource{URL: rawURL, Logger: logger, httpGetter: httpGetter{Client: client, Limiter: limiter}}
}

func (s *MetadataSource) Name() string { return "metadata" }

type metadataResponse struct {
	FamilyMetadataList []familyMetadata `json:"familyMetadataList"`
}

type familyMetadata struct {
	Family          string                     `json:"family"`
	Category        string                     `json:"category"`
	Designers       []string                   `json:"designers"`
	Fonts           map[string]json.RawMessage `json:"fonts"`
	Subsets         []string                   `json:"subsets"`
	Popularity      int                        `json:"popularity"`
	Trending        int                        `json:"trending"`
	DateAdded       string                     `json:"dateAdded"`
	LastModified    string                     `json:"lastModified"`
	Classifications []string                   `json:"classifications"`
}

// xssiPrefix guards the metadata JSON against script inclusion.
var xssiPrefix = []byte(")]}'")

func (s *MetadataSource) FetchAll(ctx context.Context) ([]models.Font, error) {
	body, err := s.get(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	body = bytes.TrimPrefix(bytes.TrimSpace(body), xssiPrefix)

	var resp metadataResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("metadata: decode: %w", err)
	}

	out := make([]models.Font, 0, len(resp.FamilyMetadataList))
	for _, m := range resp.FamilyMetadataList {
		keys := make([]string, 0, len(m.Fonts))
		for k := range m.Fonts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		f, ok := newFont(m.Family, m.Category, weightsFromVariants(keys, metadataItalic), m.Designers)
		if !ok {
			s.Logger.Warn("dropping font with unknown category", "family", m.Family, "category", m.Category)
			continue
		}
		f.Variants = keys
		f.Subsets = m.Subsets
		f.Popularity = m.Popularity
		f.Trending = m.Trending
		f.DateAdded = m.DateAdded
		f.LastModified = m.LastModified
		f.Classifications = m.Classifications
		out = append(out, f)
	}
	return out, nil
}

// WebfontsSource reads the Google Fonts Developer API. It needs an API key
// and has no designer data, so every font is credited to Google Fonts.
type WebfontsSource struct {
	URL    string
	APIKey string
	Sort   string
	Logger *log.Logger
	httpGetter
}

func NewWebfontsSource(rawURL, apiKey, sortBy string, client *http.Client, limiter Limiter, logger *log.Logger) *WebfontsSource {
	if logger == nil {
		logger = logging.Discard()
	}
	return &WebfontsSource{
		URL:        rawURL,
		APIKey:     apiKey,
		Sort:       sortBy,
		Logger:     logger,
		httpGetter: httpGetter{Client: client, Limiter: limiter},
	}
}

func (s *WebfontsSource) Name() string { return "webfonts" }

type webfontsResponse struct {
	Items []struct {
		Family       string   `json:"family"`
		Category     string   `json:"category"`
		Variants     []string `json:"variants"`
		Subsets      []string `json:"subsets"`
		LastModified string   `json:"lastModified"`
	} `json:"items"`
}

func (s *WebfontsSource) FetchAll(ctx context.Context) ([]models.Font, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("webfonts: parse url: %w", err)
	}
	q := u.Query()
	q.Set("key", s.APIKey)
	if s.Sort != "" {
		q.Set("sort", s.Sort)
	}
	u.RawQuery = q.Encode()

	body, err := s.get(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("webfonts: %w", err)
	}

	var resp webfontsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("webfonts: decode: %w", err)
	}

	out := make([]models.Font, 0, len(resp.Items))
	for i, item := range resp.Items {
		f, ok := newFont(item.Family, item.Category, weightsFromVariants(item.Variants, webfontsItalic), nil)
		if !ok {
			s.Logger.Warn("dropping font with unknown category", "family", item.Family, "category", item.Category)
			continue
		}
		f.Variants = item.Variants
		f.Subsets = item.Subsets
		f.LastModified = item.LastModified
		if s.Sort == "popularity" {
			// the API order is the popularity rank
			f.Popularity = i + 1
		}
		out = append(out, f)
	}
	return out, nil
}
