package foundries

import (
	"cmp"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"fontpair/internal/fonts"
	"fontpair/pkg/models"
	"fontpair/pkg/utils"
)

type Handler struct {
	Repo  *Repo
	Fonts *fonts.Repo
}

func NewHandler(repo *Repo, fontRepo *fonts.Repo) *Handler {
	return &Handler{Repo: repo, Fonts: fontRepo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)                  // GET /foundries
	rg.GET("/:slug", h.get)             // GET /foundries/:slug
	rg.GET("/:slug/fonts", h.listFonts) // GET /foundries/:slug/fonts
}

func (h *Handler) list(c *gin.Context) {
	q := c.Query("q")
	limit := utils.ParseInt(c.Query("limit"), 20)
	offset := utils.ParseInt(c.Query("offset"), 0)

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		utils.Internal(c, "count failed")
		return
	}
	items, err := h.Repo.List(c.Request.Context(), q, limit, offset)
	if err != nil {
		utils.Internal(c, "list failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

// get serves the foundry page: the record plus its fonts. A slug that only
// appears on fonts gets a display name derived from the slug.
func (h *Handler) get(c *gin.Context) {
	slug := c.Param("slug")
	ctx := c.Request.Context()

	rec, err := h.Repo.GetBySlug(ctx, slug)
	if err != nil {
		utils.Internal(c, "get failed")
		return
	}
	list, ok := h.fontsFor(c, slug)
	if !ok {
		return
	}
	if rec == nil && len(list) == 0 {
		utils.NotFound(c, "foundry not found: "+slug)
		return
	}
	if rec == nil {
		rec = &models.FoundryRecord{Slug: slug, Name: displayName(slug, list)}
	}

	c.JSON(http.StatusOK, gin.H{
		"foundry": rec,
		"fonts":   list,
	})
}

func (h *Handler) listFonts(c *gin.Context) {
	list, ok := h.fontsFor(c, c.Param("slug"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "total": len(list)})
}

func (h *Handler) fontsFor(c *gin.Context, slug string) ([]models.Font, bool) {
	sortBy := strings.ToLower(c.DefaultQuery("sort", "name"))
	if sortBy != "name" && sortBy != "popularity" {
		utils.BadRequest(c, "sort must be name or popularity")
		return nil, false
	}

	list, err := h.Fonts.ListByFoundry(c.Request.Context(), slug)
	if err != nil {
		utils.Internal(c, "list fonts failed")
		return nil, false
	}
	if list == nil {
		list = []models.Font{}
	}
	if sortBy == "popularity" {
		SortByPopularity(list)
	}
	return list, true
}

// SortByPopularity orders by popularity rank, unranked fonts last, then by
// family.
func SortByPopularity(list []models.Font) {
	slices.SortStableFunc(list, func(a, b models.Font) int {
		ar, br := a.Popularity, b.Popularity
		if (ar == 0) != (br == 0) {
			if ar == 0 {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(ar, br); c != 0 {
			return c
		}
		return cmp.Compare(a.Family, b.Family)
	})
}

func displayName(slug string, list []models.Font) string {
	for _, f := range list {
		if f.Foundry != "" {
			return f.Foundry
		}
	}
	return utils.TitleFromSlug(slug)
}
