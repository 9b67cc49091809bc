package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fontpair/internal/fonts"
	"fontpair/internal/foundries"
	"fontpair/internal/logging"
	"fontpair/internal/pairing"
	"fontpair/internal/search"
	"fontpair/internal/seed"
	"fontpair/internal/server"
	synchub "fontpair/internal/sync"
	"fontpair/pkg/database"
	"fontpair/pkg/models"
)

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

func offline() Backend {
	return NewOfflineBackend(seed.MustLoad().Catalog(), pairing.NewSelector(firstRand{}))
}

func run(t *testing.T, b Backend, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(&App{Out: &out, Backend: b})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// apiServer serves the seeded catalog through the real router.
func apiServer(t *testing.T) Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenAndMigrate(database.Config{Path: filepath.Join(t.TempDir(), "cli.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	idx, err := search.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	hub := synchub.NewHub(nil)
	t.Cleanup(hub.Close)

	cat := &server.Catalog{
		Fonts:     fonts.NewRepo(db),
		Foundries: foundries.NewRepo(db),
		Index:     idx,
		Hub:       hub,
		Logger:    logging.Discard(),
	}
	ctx := context.Background()
	_, err = cat.SeedIfEmpty(ctx, seed.MustLoad())
	require.NoError(t, err)
	require.NoError(t, cat.Reindex(ctx))

	srv := httptest.NewServer(server.NewRouter(server.Deps{
		DB:       db,
		Catalog:  cat,
		Selector: pairing.NewSelector(firstRand{}),
	}))
	t.Cleanup(srv.Close)
	return NewAPIBackend(srv.URL, srv.Client())
}

func TestComplementLoraPicksRoboto(t *testing.T) {
	for name, b := range map[string]Backend{"offline": offline(), "api": apiServer(t)} {
		t.Run(name, func(t *testing.T) {
			p, err := b.Complement(context.Background(), "Lora", models.RoleHeader)
			require.NoError(t, err)
			assert.Equal(t, "Lora", p.Header.Family)
			assert.Equal(t, "Roboto", p.Body.Family)
			assert.Equal(t, 95, p.Score)
		})
	}
}

func TestBackendsAgree(t *testing.T) {
	ctx := context.Background()
	off, api := offline(), apiServer(t)

	s1, err := off.Score(ctx, "Lora", "Oswald")
	require.NoError(t, err)
	s2, err := api.Score(ctx, "Lora", "Oswald")
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
	assert.Equal(t, 80, s1.Score)

	p1, err := off.Foundry(ctx, "vernon-adams")
	require.NoError(t, err)
	p2, err := api.Foundry(ctx, "vernon-adams")
	require.NoError(t, err)
	assert.Len(t, p1.Fonts, 6)
	assert.Len(t, p2.Fonts, 6)

	for name, b := range map[string]Backend{"offline": off, "api": api} {
		found, err := b.SearchFoundries(ctx, "cyreal", 5)
		require.NoError(t, err, name)
		require.NotEmpty(t, found, name)
		assert.Equal(t, "Cyreal", found[0].Name, name)

		all, err := b.SearchFoundries(ctx, "", 3)
		require.NoError(t, err, name)
		assert.Len(t, all, 3, name)
	}

	f1, _, err := off.Snapshot(ctx)
	require.NoError(t, err)
	f2, fd2, err := api.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, f1, 81)
	assert.Len(t, f2, 81)
	assert.NotEmpty(t, fd2)
}

func TestNotFound(t *testing.T) {
	for name, b := range map[string]Backend{"offline": offline(), "api": apiServer(t)} {
		t.Run(name, func(t *testing.T) {
			_, err := b.Font(context.Background(), "Comic Sans")
			assert.True(t, IsNotFound(err), "%v", err)
		})
	}
}

func TestPairCommands(t *testing.T) {
	b := offline()

	out, err := run(t, b, "pair", "complement", "Roboto", "--role", "body", "--json")
	require.NoError(t, err)
	var p PairResult
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, models.RoleBody, p.LockedRole)
	assert.Equal(t, "Roboto", p.Body.Family)
	assert.Equal(t, models.CategorySerif, p.Header.Category)

	out, err = run(t, b, "pair", "score", "Lora", "Lora")
	require.NoError(t, err)
	assert.Contains(t, out, "self-pair -100")

	_, err = run(t, b, "pair", "complement", "Lora", "--role", "footer")
	assert.Error(t, err)

	out, err = run(t, b, "pair", "random")
	require.NoError(t, err)
	assert.Contains(t, out, "header:")
}

func TestFontsCommands(t *testing.T) {
	b := offline()

	out, err := run(t, b, "fonts", "search", "roboto")
	require.NoError(t, err)
	assert.Contains(t, out, "Roboto Mono")

	out, err = run(t, b, "fonts", "show", "Lora")
	require.NoError(t, err)
	assert.Contains(t, out, "Cyreal")
	assert.Contains(t, out, "https://fonts.google.com/specimen/Lora")

	out, err = run(t, b, "foundry", "search", "cyr")
	require.NoError(t, err)
	assert.Contains(t, out, "Cyreal")
	assert.Contains(t, out, "cyreal")

	out, err = run(t, b, "foundry", "search", "zzzz")
	require.NoError(t, err)
	assert.Contains(t, out, "no foundries found")

	out, err = run(t, b, "foundry", "show", "cyreal", "--json")
	require.NoError(t, err)
	var page FoundryPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, "Cyreal", page.Foundry.Name)
}

func TestExportCommands(t *testing.T) {
	dir := t.TempDir()
	b := offline()

	_, err := run(t, b, "export", "csv",
		"--fonts", filepath.Join(dir, "fonts.csv"),
		"--foundries", filepath.Join(dir, "foundries.csv"))
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "fonts.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 82)

	path := filepath.Join(dir, "fonts.json")
	_, err = run(t, b, "export", "json", "-o", path)
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var list []models.Font
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 81)
}
