package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"fontpair/internal/ingest"
	"fontpair/internal/logging"
	"fontpair/pkg/utils"
)

// mirror-server serves a file written by export-mirror at the path the
// metadata source expects. Point ingest.metadata_url at it.
func main() {
	addr := flag.String("addr", ":9000", "listen address")
	dataPath := flag.String("data", "data/metadata.json", "mirror file")
	flag.Parse()

	logger := logging.New(utils.LogConfig{Level: "info"}, os.Stderr).WithPrefix("mirror")

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware(logger))

	router.GET("/metadata/fonts", func(c *gin.Context) {
		b, err := os.ReadFile(*dataPath)
		if err != nil {
			utils.Internal(c, "cannot read mirror file: "+err.Error())
			return
		}
		// a bad file should fail loudly, not as an empty ingest
		if _, err := ingest.CheckMetadata(b); err != nil {
			utils.Internal(c, "mirror file is invalid: "+err.Error())
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", b)
	})

	logger.Info("mirror-server listening", "addr", *addr, "data", *dataPath)
	if err := http.ListenAndServe(*addr, router); err != nil {
		logger.Fatal("mirror-server stopped", "err", err)
	}
}
