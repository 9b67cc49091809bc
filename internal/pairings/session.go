package pairings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fontpair/internal/session"
	"fontpair/pkg/models"
	"fontpair/pkg/utils"
)

// sessionRequest carries the board as the client last saw it plus the
// arguments of one transition. Fonts in State only need a family; the rest
// is reloaded from the catalog.
type sessionRequest struct {
	State session.State `json:"state"`
	Role  string        `json:"role"`
	From  string        `json:"from"`
	To    string        `json:"to"`
	Font  string        `json:"font"`
	Mode  string        `json:"mode"`
}

type transition func(b *session.Board, req sessionRequest, recs []models.FontRecord) (session.State, error)

func (h *Handler) run(c *gin.Context, fn transition) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "invalid json body")
		return
	}
	mode, err := session.ParseMode(string(req.State.Mode))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	req.State.Mode = mode

	recs, ok := h.records(c)
	if !ok {
		return
	}
	if !h.resolveState(c, recs, &req.State) {
		return
	}

	board := session.NewBoard(h.Selector, recs, session.ResolvePopular(h.Popular, recs))
	next, err := fn(board, req, recs)
	if err != nil {
		if errors.Is(err, errAborted) {
			return
		}
		engineError(c, err, &req.State)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": next})
}

func (h *Handler) resolveState(c *gin.Context, recs []models.FontRecord, s *session.State) bool {
	for _, slot := range []*models.FontRecord{&s.Header, &s.Body} {
		if slot.Family == "" {
			continue
		}
		f, ok := find(recs, slot.Family)
		if !ok {
			utils.NotFound(c, "font not found: "+slot.Family)
			return false
		}
		*slot = f
	}
	return true
}

// errAborted signals that a transition already wrote its error response.
var errAborted = errors.New("request aborted")

// roleArg parses a role argument, writing a 400 on failure.
func roleArg(c *gin.Context, name, v string) (models.Role, error) {
	if v == "" {
		utils.BadRequest(c, name+" is required")
		return "", errAborted
	}
	r, err := models.ParseRole(v)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return "", errAborted
	}
	return r, nil
}

func (h *Handler) shuffle(c *gin.Context) {
	h.run(c, func(b *session.Board, req sessionRequest, _ []models.FontRecord) (session.State, error) {
		return b.Shuffle(req.State)
	})
}

func (h *Handler) shuffleSlot(c *gin.Context) {
	h.run(c, func(b *session.Board, req sessionRequest, _ []models.FontRecord) (session.State, error) {
		r, err := roleArg(c, "role", req.Role)
		if err != nil {
			return req.State, err
		}
		return b.ShuffleSlot(req.State, r)
	})
}

func (h *Handler) lock(c *gin.Context) {
	h.run(c, func(_ *session.Board, req sessionRequest, _ []models.FontRecord) (session.State, error) {
		r, err := roleArg(c, "role", req.Role)
		if err != nil {
			return req.State, err
		}
		return session.ToggleLock(req.State, r), nil
	})
}

func (h *Handler) swap(c *gin.Context) {
	h.run(c, func(b *session.Board, req sessionRequest, _ []models.FontRecord) (session.State, error) {
		from, err := roleArg(c, "from", req.From)
		if err != nil {
			return req.State, err
		}
		to, err := roleArg(c, "to", req.To)
		if err != nil {
			return req.State, err
		}
		return b.Swap(req.State, from, to)
	})
}

func (h *Handler) selectFont(c *gin.Context) {
	h.run(c, func(b *session.Board, req sessionRequest, recs []models.FontRecord) (session.State, error) {
		r, err := roleArg(c, "role", req.Role)
		if err != nil {
			return req.State, err
		}
		f, ok := h.lookup(c, recs, "font", req.Font)
		if !ok {
			return req.State, errAborted
		}
		return b.SearchSelect(req.State, f, r)
	})
}

func (h *Handler) mode(c *gin.Context) {
	h.run(c, func(b *session.Board, req sessionRequest, _ []models.FontRecord) (session.State, error) {
		m, err := session.ParseMode(req.Mode)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return req.State, errAborted
		}
		return b.SetMode(req.State, m)
	})
}
