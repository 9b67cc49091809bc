package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Machine-readable codes carried in error bodies next to the message.
const (
	CodeBadRequest     = "BAD_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeEmptyCatalog   = "EMPTY_CATALOG"
	CodeNoCandidate    = "NO_CANDIDATE_AVAILABLE"
	CodeRateLimited    = "RATE_LIMITED"
	CodeInternal       = "INTERNAL"
	CodeUnavailable    = "UNAVAILABLE"
	CodeIngestDisabled = "INGEST_DISABLED"
	CodeNoPopular      = "NO_POPULAR_PAIRINGS"
	CodeConflict       = "CONFLICT"
	CodeNoFoundryPair  = "NO_FOUNDRY_PAIR"
)

// AbortError writes {"error": msg, "code": code} and stops the handler chain.
func AbortError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": code})
}

func BadRequest(c *gin.Context, msg string) {
	AbortError(c, http.StatusBadRequest, CodeBadRequest, msg)
}

func NotFound(c *gin.Context, msg string) {
	AbortError(c, http.StatusNotFound, CodeNotFound, msg)
}

func Internal(c *gin.Context, msg string) {
	AbortError(c, http.StatusInternalServerError, CodeInternal, msg)
}
