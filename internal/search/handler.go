package search

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fontpair/pkg/utils"
)

type Handler struct {
	Index *Index
}

func NewHandler(idx *Index) *Handler {
	return &Handler{Index: idx}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.search) // GET /search?q=
}

func (h *Handler) search(c *gin.Context) {
	limit := min(utils.ParseInt(c.Query("limit"), DefaultLimit), 50)
	res, err := h.Index.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		utils.Internal(c, "search failed")
		return
	}
	c.JSON(http.StatusOK, res)
}
