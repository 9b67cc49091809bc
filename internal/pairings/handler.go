// Package pairings serves the pairing engine over HTTP: random pairs,
// complements for a locked font, score breakdowns and board transitions.
package pairings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fontpair/internal/catalog"
	"fontpair/internal/pairing"
	"fontpair/internal/session"
	"fontpair/pkg/models"
	"fontpair/pkg/utils"
)

type Handler struct {
	Catalog  catalog.Provider
	Selector *pairing.Selector
	Popular  []models.PopularPairing
}

func NewHandler(p catalog.Provider, sel *pairing.Selector, popular []models.PopularPairing) *Handler {
	if sel == nil {
		sel = pairing.NewDefaultSelector()
	}
	return &Handler{Catalog: p, Selector: sel, Popular: popular}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/random", h.random)         // GET /pairings/random
	rg.GET("/complement", h.complement) // GET /pairings/complement?font=&locked_role=
	rg.GET("/rank", h.rank)             // GET /pairings/rank?font=&locked_role=
	rg.GET("/score", h.score)           // GET /pairings/score?base=&candidate=
	rg.GET("/popular", h.popular)       // GET /pairings/popular

	s := rg.Group("/session")
	s.POST("/shuffle", h.shuffle)
	s.POST("/shuffle-slot", h.shuffleSlot)
	s.POST("/lock", h.lock)
	s.POST("/swap", h.swap)
	s.POST("/select", h.selectFont)
	s.POST("/mode", h.mode)
}

// engineError maps selector and board failures to status codes. prev, when
// set, is echoed back so clients can keep showing it.
func engineError(c *gin.Context, err error, prev *session.State) {
	var (
		status = http.StatusUnprocessableEntity
		code   string
	)
	switch {
	case errors.Is(err, pairing.ErrNoCandidateAvailable):
		code = utils.CodeNoCandidate
	case errors.Is(err, pairing.ErrEmptyCatalog):
		code = utils.CodeEmptyCatalog
	case errors.Is(err, session.ErrNoPopularPairings):
		code = utils.CodeNoPopular
	case errors.Is(err, session.ErrNoFoundryPair):
		code = utils.CodeNoFoundryPair
	case errors.Is(err, session.ErrEmptySlot):
		status, code = http.StatusBadRequest, utils.CodeBadRequest
	default:
		status, code = http.StatusInternalServerError, utils.CodeInternal
	}

	body := gin.H{"error": err.Error(), "code": code}
	if prev != nil {
		body["state"] = prev
	}
	c.AbortWithStatusJSON(status, body)
}

func (h *Handler) records(c *gin.Context) ([]models.FontRecord, bool) {
	recs, err := h.Catalog.AllFonts(c.Request.Context())
	if err != nil {
		utils.Internal(c, "load catalog failed")
		return nil, false
	}
	return recs, true
}

func find(recs []models.FontRecord, family string) (models.FontRecord, bool) {
	for _, r := range recs {
		if r.Family == family {
			return r, true
		}
	}
	return models.FontRecord{}, false
}

func (h *Handler) lookup(c *gin.Context, recs []models.FontRecord, param, family string) (models.FontRecord, bool) {
	if family == "" {
		utils.BadRequest(c, param+" is required")
		return models.FontRecord{}, false
	}
	f, ok := find(recs, family)
	if !ok {
		utils.NotFound(c, "font not found: "+family)
		return models.FontRecord{}, false
	}
	return f, true
}

func parseRole(c *gin.Context, s string, def models.Role) (models.Role, bool) {
	if s == "" {
		return def, true
	}
	r, err := models.ParseRole(s)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return "", false
	}
	return r, true
}

func (h *Handler) random(c *gin.Context) {
	recs, ok := h.records(c)
	if !ok {
		return
	}
	p, err := h.Selector.SelectRandomPair(recs)
	if err != nil {
		engineError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"header": p.Header,
		"body":   p.Body,
		"score":  pairing.Score(p.Header, p.Body),
	})
}

func (h *Handler) complement(c *gin.Context) {
	recs, ok := h.records(c)
	if !ok {
		return
	}
	role, ok := parseRole(c, c.Query("locked_role"), models.RoleHeader)
	if !ok {
		return
	}
	locked, ok := h.lookup(c, recs, "font", c.Query("font"))
	if !ok {
		return
	}

	partner, err := h.Selector.SelectComplementary(locked, recs, role)
	if err != nil {
		engineError(c, err, nil)
		return
	}

	p := models.Pairing{Header: locked, Body: partner}
	if role == models.RoleBody {
		p = models.Pairing{Header: partner, Body: locked}
	}
	c.JSON(http.StatusOK, gin.H{
		"locked_role": role,
		"header":      p.Header,
		"body":        p.Body,
		"score":       pairing.Score(p.Header, p.Body),
	})
}

func (h *Handler) rank(c *gin.Context) {
	recs, ok := h.records(c)
	if !ok {
		return
	}
	role, ok := parseRole(c, c.Query("locked_role"), models.RoleHeader)
	if !ok {
		return
	}
	locked, ok := h.lookup(c, recs, "font", c.Query("font"))
	if !ok {
		return
	}

	ranked, err := pairing.Rank(locked, recs, role)
	if err != nil {
		engineError(c, err, nil)
		return
	}
	limit := utils.ParseInt(c.Query("limit"), pairing.TopBand)
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"locked": locked, "locked_role": role, "items": ranked})
}

func (h *Handler) score(c *gin.Context) {
	recs, ok := h.records(c)
	if !ok {
		return
	}
	base, ok := h.lookup(c, recs, "base", c.Query("base"))
	if !ok {
		return
	}
	cand, ok := h.lookup(c, recs, "candidate", c.Query("candidate"))
	if !ok {
		return
	}

	b := pairing.Explain(base, cand)
	c.JSON(http.StatusOK, gin.H{
		"base":      base,
		"candidate": cand,
		"score":     b.Total(),
		"breakdown": b,
	})
}

func (h *Handler) popular(c *gin.Context) {
	recs, ok := h.records(c)
	if !ok {
		return
	}
	list := session.ResolvePopular(h.Popular, recs)
	c.JSON(http.StatusOK, gin.H{"items": list, "total": len(list)})
}
