package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fontpair/internal/fonts"
	"fontpair/internal/foundries"
	"fontpair/internal/seed"
	"fontpair/pkg/database"
	"fontpair/pkg/models"
	"fontpair/pkg/utils"
)

const metadataBody = `)]}'
{"familyMetadataList":[
 {"family":"Lora","category":"Serif","designers":["Cyreal"],"fonts":{"400":{},"400i":{},"700":{}},
  "subsets":["latin"],"popularity":30,"trending":4,"dateAdded":"2011-06-01","lastModified":"2024-01-01"},
 {"family":"Roboto","category":"Sans Serif","designers":[],"fonts":{"100":{},"900i":{}},"subsets":["latin"],"popularity":1},
 {"family":"Blackletter X","category":"Blackletter","designers":["A"],"fonts":{"400":{}}},
 {"family":"Pacifico","category":"Handwriting","designers":["Vernon Adams","Jacques Le Bailly"],"fonts":{"400i":{}}}
]}`

const webfontsBody = `{"kind":"webfonts#webfontList","items":[
 {"family":"Roboto","category":"sans-serif","variants":["regular","italic","700","700italic"],
  "subsets":["latin","cyrillic"],"lastModified":"2024-05-01"},
 {"family":"Inter","category":"sans-serif","variants":["300","regular"]}
]}`

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/metadata/fonts", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "fontpair")
		_, _ = w.Write([]byte(metadataBody))
	})
	mux.HandleFunc("/webfonts/v1/webfonts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "K" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		assert.Equal(t, "popularity", r.URL.Query().Get("sort"))
		_, _ = w.Write([]byte(webfontsBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func byFamily(list []models.Font) map[string]models.Font {
	m := make(map[string]models.Font, len(list))
	for _, f := range list {
		m[f.Family] = f
	}
	return m
}

func TestMetadataSource(t *testing.T) {
	srv := newUpstream(t)
	got, err := NewMetadataSource(srv.URL+"/metadata/fonts", srv.Client(), nil, nil).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3, "unknown category is dropped")

	m := byFamily(got)
	lora := m["Lora"]
	assert.Equal(t, models.CategorySerif, lora.Category)
	assert.Equal(t, []int{400, 700}, lora.Weights)
	assert.Equal(t, "Cyreal", lora.Foundry)
	assert.Equal(t, "cyreal", lora.FoundrySlug)
	assert.Equal(t, models.LegibilityHigh, lora.Legibility)
	assert.Equal(t, 30, lora.Popularity)
	assert.Equal(t, []string{"400", "400i", "700"}, lora.Variants)

	assert.Equal(t, "Google Fonts", m["Roboto"].Foundry)
	assert.Equal(t, []int{100}, m["Roboto"].Weights)

	pacifico := m["Pacifico"]
	assert.Equal(t, []int{400}, pacifico.Weights)
	assert.Equal(t, models.LegibilityMedium, pacifico.Legibility)
	assert.Equal(t, "Vernon Adams", pacifico.Foundry)
}

func TestWebfontsSource(t *testing.T) {
	srv := newUpstream(t)
	src := NewWebfontsSource(srv.URL+"/webfonts/v1/webfonts", "K", "popularity", srv.Client(), nil, nil)

	got, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	m := byFamily(got)
	assert.Equal(t, []int{400, 700}, m["Roboto"].Weights)
	assert.Equal(t, []int{300, 400}, m["Inter"].Weights)
	assert.Equal(t, 2, m["Inter"].Popularity)

	src.APIKey = "wrong"
	_, err = src.FetchAll(context.Background())
	assert.ErrorContains(t, err, "status 403")
}

func TestMetadataSourceBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`)]}'not json`))
	}))
	defer srv.Close()

	_, err := NewMetadataSource(srv.URL, srv.Client(), nil, nil).FetchAll(context.Background())
	assert.ErrorContains(t, err, "decode")
}

func TestAggregatorMerges(t *testing.T) {
	srv := newUpstream(t)
	agg := NewAggregator(nil,
		NewMetadataSource(srv.URL+"/metadata/fonts", srv.Client(), nil, nil),
		NewWebfontsSource(srv.URL+"/webfonts/v1/webfonts", "K", "popularity", srv.Client(), nil, nil),
	)

	got, counts, err := agg.FetchAndMerge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"metadata": 3, "webfonts": 2}, counts)
	require.Len(t, got, 4)
	assert.Equal(t, "Inter", got[0].Family)

	roboto := byFamily(got)["Roboto"]
	assert.Equal(t, []int{100, 400, 700}, roboto.Weights)
	assert.Equal(t, []string{"latin", "cyrillic"}, roboto.Subsets)
	assert.Equal(t, "2024-05-01", roboto.LastModified)
	assert.Equal(t, 1, roboto.Popularity)
}

type failingSource struct{}

func (failingSource) Name() string { return "broken" }
func (failingSource) FetchAll(context.Context) ([]models.Font, error) {
	return nil, errors.New("boom")
}

func TestAggregatorFailures(t *testing.T) {
	srv := newUpstream(t)

	got, _, err := NewAggregator(nil, failingSource{}, NewMetadataSource(srv.URL+"/metadata/fonts", srv.Client(), nil, nil)).
		FetchAndMerge(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, _, err = NewAggregator(nil, failingSource{}).FetchAndMerge(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestWeightsFromVariants(t *testing.T) {
	assert.Equal(t, []int{400}, weightsFromVariants(nil, metadataItalic))
	assert.Equal(t, []int{400, 700}, weightsFromVariants([]string{"700", "regular", "italic", "700italic"}, webfontsItalic))
	assert.Equal(t, []int{300, 400}, weightsFromVariants([]string{"400", "300", "400"}, metadataItalic))
}

func TestPartition(t *testing.T) {
	good := models.Font{FontRecord: models.FontRecord{Family: "Lora", Category: models.CategorySerif, Weights: []int{400}, Legibility: models.LegibilityHigh}}
	noWeights := good
	noWeights.Family, noWeights.Weights = "Empty", nil
	badCat := good
	badCat.Family, badCat.Category = "Odd", "gothic"

	ok, errs := Partition([]models.Font{good, noWeights, badCat})
	require.Len(t, ok, 1)
	assert.Equal(t, "Lora", ok[0].Family)
	assert.Len(t, errs, 2)
}

func TestExtractFoundries(t *testing.T) {
	list := []models.Font{
		{FontRecord: models.FontRecord{Foundry: "Vernon Adams"}, FontDetails: models.FontDetails{Designers: []string{"Vernon Adams", "Jacques Le Bailly"}}},
		{FontRecord: models.FontRecord{Foundry: "Google Fonts"}},
		{FontRecord: models.FontRecord{Foundry: "Huerta Tipográfica"}, FontDetails: models.FontDetails{Designers: []string{"!!!"}}},
	}
	got := ExtractFoundries(list)
	slugs := make([]string, 0, len(got))
	for _, f := range got {
		slugs = append(slugs, f.Slug)
	}
	assert.Equal(t, []string{"vernon-adams", "jacques-le-bailly", "google-fonts", "huerta-tipografica"}, slugs)
}

type memStore struct {
	upserts [][]models.Font
	failOn  int
	cleared bool
}

func (m *memStore) Upsert(_ context.Context, fonts []models.Font) error {
	m.upserts = append(m.upserts, fonts)
	if len(m.upserts) == m.failOn {
		return errors.New("disk full")
	}
	return nil
}

func (m *memStore) DeleteAll(context.Context) (int64, error) {
	m.cleared = true
	return 0, nil
}

func TestSaveFontsBatches(t *testing.T) {
	list := make([]models.Font, 250)
	store := &memStore{failOn: 2}

	saved, failed, err := SaveFonts(context.Background(), store, list, 100, true)
	require.NoError(t, err)
	assert.True(t, store.cleared)
	require.Len(t, store.upserts, 3)
	assert.Len(t, store.upserts[2], 50)
	assert.Equal(t, 150, saved)
	assert.Equal(t, 100, failed)

	_, _, err = SaveFonts(context.Background(), &memStore{failOn: 1}, list[:10], 100, false)
	assert.ErrorContains(t, err, "disk full")
}

func TestRunnerIntoDatabase(t *testing.T) {
	srv := newUpstream(t)
	db, err := database.OpenAndMigrate(database.Config{Path: filepath.Join(t.TempDir(), "ingest.db")})
	require.NoError(t, err)
	defer db.Close()

	fontRepo, foundryRepo := fonts.NewRepo(db), foundries.NewRepo(db)
	require.NoError(t, foundryRepo.Upsert(context.Background(), []models.FoundryRecord{{Name: "Cyreal", Slug: "cyreal", Bio: "curated"}}))

	cfg := utils.DefaultConfig().Ingest
	cfg.MetadataURL = srv.URL + "/metadata/fonts"
	cfg.WebfontsURL = srv.URL + "/webfonts/v1/webfonts"
	cfg.APIKey = "K"
	cfg.RequestRate = 0

	rep, err := NewRunner(cfg, fontRepo, foundryRepo, nil).Run(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 4, rep.Fetched)
	assert.Equal(t, 4, rep.Saved)
	assert.Equal(t, 3, rep.FoundriesAdded, "google-fonts, vernon-adams, jacques-le-bailly")

	n, err := fontRepo.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	cyreal, err := foundryRepo.GetBySlug(context.Background(), "cyreal")
	require.NoError(t, err)
	assert.Equal(t, "curated", cyreal.Bio)
}

func TestRunJSON(t *testing.T) {
	srv := newUpstream(t)
	cfg := utils.DefaultConfig().Ingest
	cfg.MetadataURL = srv.URL + "/metadata/fonts"

	out := filepath.Join(t.TempDir(), "out", "google-fonts.json")
	rep, err := NewRunner(cfg, nil, nil, nil).RunJSON(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Saved)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	var got []models.Font
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Len(t, got, 3)
}

func TestMirrorRoundTrip(t *testing.T) {
	want := seed.MustLoad().Fonts
	body, err := EncodeMetadata(want)
	require.NoError(t, err)

	n, err := CheckMetadata(body)
	require.NoError(t, err)
	assert.Equal(t, len(want), n)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	got, err := NewMetadataSource(srv.URL, srv.Client(), nil, nil).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, len(want))

	m := byFamily(got)
	for _, f := range want {
		g, ok := m[f.Family]
		require.True(t, ok, f.Family)
		assert.Equal(t, f.Category, g.Category, f.Family)
		assert.Equal(t, f.Weights, g.Weights, f.Family)
		assert.Equal(t, f.FoundrySlug, g.FoundrySlug, f.Family)
	}
}

func TestCheckMetadataRejectsGarbage(t *testing.T) {
	_, err := CheckMetadata([]byte(")]}'\n{not json"))
	assert.Error(t, err)
}
