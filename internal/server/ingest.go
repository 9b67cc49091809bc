package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"fontpair/internal/ingest"
	synchub "fontpair/internal/sync"
	"fontpair/pkg/utils"
)

var ErrIngestRunning = errors.New("an ingestion run is already in progress")

// IngestRunner is satisfied by *ingest.Runner.
type IngestRunner interface {
	Run(ctx context.Context, runID string) (ingest.Report, error)
}

const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

type RunState struct {
	RunID      string         `json:"run_id"`
	Status     string         `json:"status"`
	Report     *ingest.Report `json:"report,omitempty"`
	Error      string         `json:"error,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

// Ingester runs one background ingestion at a time and remembers results.
type Ingester struct {
	Runner  IngestRunner
	Catalog *Catalog

	ctx     context.Context
	mu      sync.Mutex
	runs    map[string]*RunState
	current string
	wg      sync.WaitGroup
}

// NewIngester ties background runs to ctx so shutdown cancels them.
func NewIngester(ctx context.Context, r IngestRunner, c *Catalog) *Ingester {
	return &Ingester{Runner: r, Catalog: c, ctx: ctx, runs: make(map[string]*RunState)}
}

// Start launches a run and returns its id.
func (i *Ingester) Start() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.current != "" {
		return i.current, ErrIngestRunning
	}

	id := ingest.NewRunID()
	i.runs[id] = &RunState{RunID: id, Status: RunRunning, StartedAt: time.Now().UTC()}
	i.current = id
	i.Catalog.Hub.Publish(synchub.NewEvent(synchub.EventIngestStarted, id))

	i.wg.Add(1)
	go i.run(id)
	return id, nil
}

func (i *Ingester) run(id string) {
	defer i.wg.Done()
	logger := i.Catalog.Logger.With("run", id)

	rep, err := i.Runner.Run(i.ctx, id)
	if err == nil {
		err = i.Catalog.Reindex(i.ctx)
	}

	now := time.Now().UTC()
	i.mu.Lock()
	st := i.runs[id]
	st.FinishedAt = &now
	st.Report = &rep
	if err != nil {
		st.Status, st.Error = RunFailed, err.Error()
	} else {
		st.Status = RunCompleted
	}
	i.current = ""
	i.mu.Unlock()

	if err != nil {
		logger.Error("ingestion failed", "err", err)
		ev := synchub.NewEvent(synchub.EventIngestFailed, id)
		ev.Error = err.Error()
		i.Catalog.Hub.Publish(ev)
		return
	}
	ev := synchub.NewEvent(synchub.EventIngestCompleted, id)
	ev.Fonts, ev.Foundries = rep.Saved, rep.FoundriesAdded
	i.Catalog.Hub.Publish(ev)
}

func (i *Ingester) Get(id string) (RunState, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	st, ok := i.runs[id]
	if !ok {
		return RunState{}, false
	}
	return *st, true
}

// Wait blocks until background runs finish.
func (i *Ingester) Wait() {
	i.wg.Wait()
}

func (i *Ingester) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ingest", i.start)     // POST /admin/ingest
	rg.GET("/ingest/:id", i.status) // GET /admin/ingest/:id
}

func (i *Ingester) start(c *gin.Context) {
	id, err := i.Start()
	if errors.Is(err, ErrIngestRunning) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "CONFLICT", "run_id": id})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"run_id": id, "status": RunRunning})
}

func (i *Ingester) status(c *gin.Context) {
	st, ok := i.Get(c.Param("id"))
	if !ok {
		utils.NotFound(c, "unknown run")
		return
	}
	c.JSON(http.StatusOK, st)
}
