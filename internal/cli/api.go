package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fontpair/pkg/models"
)

// pageSize matches the server's upper limit.
const pageSize = 100

type apiBackend struct {
	base   string
	client *http.Client
}

func NewAPIBackend(baseURL string, client *http.Client) Backend {
	if client == nil {
		client = http.DefaultClient
	}
	return &apiBackend{base: strings.TrimRight(baseURL, "/"), client: client}
}

func (a *apiBackend) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := a.base + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", ErrNotFound, apiErr)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

type fontPage struct {
	Filtered int           `json:"filtered"`
	Items    []models.Font `json:"items"`
}

func (a *apiBackend) SearchFonts(ctx context.Context, q string, limit int) ([]models.Font, error) {
	var page fontPage
	err := a.get(ctx, "/fonts", url.Values{"q": {q}, "limit": {strconv.Itoa(limit)}}, &page)
	return page.Items, err
}

func (a *apiBackend) Font(ctx context.Context, family string) (models.Font, error) {
	var f models.Font
	err := a.get(ctx, "/fonts/"+url.PathEscape(family), nil, &f)
	return f, err
}

func (a *apiBackend) Foundry(ctx context.Context, slug string) (FoundryPage, error) {
	var p FoundryPage
	err := a.get(ctx, "/foundries/"+url.PathEscape(slug), url.Values{"sort": {"popularity"}}, &p)
	return p, err
}

type foundryList struct {
	Items []models.FoundryRecord `json:"items"`
}

func (a *apiBackend) SearchFoundries(ctx context.Context, q string, limit int) ([]models.FoundryRecord, error) {
	var page foundryList
	err := a.get(ctx, "/foundries", url.Values{"q": {q}, "limit": {strconv.Itoa(limit)}}, &page)
	return page.Items, err
}

func (a *apiBackend) RandomPair(ctx context.Context) (PairResult, error) {
	var p PairResult
	err := a.get(ctx, "/pairings/random", nil, &p)
	return p, err
}

func (a *apiBackend) Complement(ctx context.Context, family string, locked models.Role) (PairResult, error) {
	var p PairResult
	err := a.get(ctx, "/pairings/complement", url.Values{"font": {family}, "locked_role": {string(locked)}}, &p)
	return p, err
}

func (a *apiBackend) Score(ctx context.Context, base, candidate string) (ScoreResult, error) {
	var s ScoreResult
	err := a.get(ctx, "/pairings/score", url.Values{"base": {base}, "candidate": {candidate}}, &s)
	return s, err
}

func (a *apiBackend) Snapshot(ctx context.Context) ([]models.Font, []models.FoundryRecord, error) {
	var all []models.Font
	for offset := 0; ; offset += pageSize {
		var page fontPage
		q := url.Values{"limit": {strconv.Itoa(pageSize)}, "offset": {strconv.Itoa(offset)}}
		if err := a.get(ctx, "/fonts", q, &page); err != nil {
			return nil, nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) < pageSize {
			break
		}
	}

	var list []models.FoundryRecord
	for offset := 0; ; offset += pageSize {
		var page struct {
			Items []models.FoundryRecord `json:"items"`
		}
		q := url.Values{"limit": {strconv.Itoa(pageSize)}, "offset": {strconv.Itoa(offset)}}
		if err := a.get(ctx, "/foundries", q, &page); err != nil {
			return nil, nil, err
		}
		list = append(list, page.Items...)
		if len(page.Items) < pageSize {
			break
		}
	}
	return all, list, nil
}

// IsNotFound reports whether err is a missing font or foundry from either
// backend.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
