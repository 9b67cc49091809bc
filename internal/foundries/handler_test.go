package foundries

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fontpair/internal/fonts"
	"fontpair/pkg/models"
)

type pageResponse struct {
	Foundry models.FoundryRecord `json:"foundry"`
	Fonts   []models.Font        `json:"fonts"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	repo := newTestRepo(t)
	fontRepo := fonts.NewRepo(repo.DB)
	ctx := context.Background()

	mk := func(family, foundry string, pop int) models.Font {
		return models.Font{
			FontRecord:  models.FontRecord{Family: family, Category: models.CategorySerif, Weights: []int{400}, Foundry: foundry, Legibility: models.LegibilityHigh},
			FontDetails: models.FontDetails{Popularity: pop},
		}
	}
	require.NoError(t, fontRepo.Upsert(ctx, []models.Font{
		mk("Bitter", "Huerta Tipográfica", 40),
		mk("Alegreya", "Huerta Tipográfica", 0),
		mk("Faustina", "Huerta Tipográfica", 12),
		mk("Lora", "Cyreal", 5),
	}))
	require.NoError(t, repo.Upsert(ctx, []models.FoundryRecord{{Name: "Cyreal", Slug: "cyreal", IsFoundry: true}}))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(repo, fontRepo).RegisterRoutes(r.Group("/foundries"))
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestFoundryPage(t *testing.T) {
	r := newRouter(t)

	w := get(r, "/foundries/cyreal")
	require.Equal(t, http.StatusOK, w.Code)
	var page pageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.True(t, page.Foundry.IsFoundry)
	require.Len(t, page.Fonts, 1)
	assert.Equal(t, "Lora", page.Fonts[0].Family)
}

func TestFoundryPageWithoutRecord(t *testing.T) {
	r := newRouter(t)

	w := get(r, "/foundries/huerta-tipografica?sort=popularity")
	require.Equal(t, http.StatusOK, w.Code)
	var page pageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, "Huerta Tipográfica", page.Foundry.Name)
	require.Len(t, page.Fonts, 3)
	assert.Equal(t, []string{"Faustina", "Bitter", "Alegreya"},
		[]string{page.Fonts[0].Family, page.Fonts[1].Family, page.Fonts[2].Family})
}

func TestFoundryNotFound(t *testing.T) {
	r := newRouter(t)

	assert.Equal(t, http.StatusNotFound, get(r, "/foundries/nobody").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/foundries/cyreal?sort=weight").Code)

	w := get(r, "/foundries/nobody/fonts")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0}`, w.Body.String())
}

func TestDisplayNameFallsBackToSlug(t *testing.T) {
	assert.Equal(t, "Huerta Tipografica", displayName("huerta-tipografica", nil))
	assert.Equal(t, "Cyreal", displayName("cyreal", []models.Font{{FontRecord: models.FontRecord{Foundry: "Cyreal"}}}))
}
