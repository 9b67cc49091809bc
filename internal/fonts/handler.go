package fonts

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fontpair/pkg/models"
	"fontpair/pkg/utils"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)            // GET /fonts
	rg.POST("/query", h.query)    // POST /fonts/query
	rg.GET("/:family", h.getByID) // GET /fonts/:family
}

// queryBody mirrors the GET parameters for clients that prefer POST.
type queryBody struct {
	Q        string `json:"q"`
	Search   string `json:"search"`
	Category string `json:"category"`
	Foundry  string `json:"foundry"`
	Sort     string `json:"sort"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

func (h *Handler) list(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		q = c.Query("search")
	}
	h.respond(c, queryBody{
		Q:        q,
		Category: c.Query("category"),
		Foundry:  c.Query("foundry"),
		Sort:     c.Query("sort"),
		Limit:    utils.ParseInt(c.Query("limit"), 0),
		Offset:   utils.ParseInt(c.Query("offset"), 0),
	})
}

func (h *Handler) query(c *gin.Context) {
	var body queryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequest(c, "invalid json body")
		return
	}
	if body.Q == "" {
		body.Q = body.Search
	}
	h.respond(c, body)
}

func (h *Handler) respond(c *gin.Context, body queryBody) {
	q := ListQuery{
		Q:       body.Q,
		Foundry: strings.TrimSpace(body.Foundry),
		Sort:    strings.ToLower(strings.TrimSpace(body.Sort)),
		Limit:   clampLimit(body.Limit),
		Offset:  max(body.Offset, 0),
	}
	if cat := strings.TrimSpace(body.Category); cat != "" && !strings.EqualFold(cat, "all") {
		parsed, err := models.ParseCategory(cat)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		q.Category = parsed
	}
	if !ValidSort(q.Sort) {
		utils.BadRequest(c, "unknown sort "+q.Sort)
		return
	}

	ctx := c.Request.Context()
	total, err := h.Repo.CountAll(ctx)
	if err != nil {
		utils.Internal(c, "count failed")
		return
	}
	filtered, err := h.Repo.Count(ctx, q)
	if err != nil {
		utils.Internal(c, "count failed")
		return
	}
	items, err := h.Repo.List(ctx, q)
	if err != nil {
		utils.Internal(c, "list failed")
		return
	}
	if items == nil {
		items = []models.Font{}
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    total,
		"filtered": filtered,
		"limit":    q.Limit,
		"offset":   q.Offset,
		"items":    items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	family := c.Param("family")
	f, err := h.Repo.GetByFamily(c.Request.Context(), family)
	if err != nil {
		utils.Internal(c, "get failed")
		return
	}
	if f == nil {
		utils.NotFound(c, "font not found: "+family)
		return
	}
	c.JSON(http.StatusOK, fontResponse{Font: *f, Links: models.LinksFor(f.FontRecord)})
}

// fontResponse is one font plus its hosted stylesheet and specimen links.
type fontResponse struct {
	models.Font
	Links models.FontLinks `json:"links"`
}
