package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"movie-catalog-backend/data_access"
)

const probeTimeout = 5 * time.Second

type SystemController struct {
	docs *data_access.Documents
}

func NewSystemController(docs *data_access.Documents) *SystemController {
	return &SystemController{docs: docs}
}

type probeResponse struct {
	Backend     string   `json:"backend"`
	Database    string   `json:"database"`
	Collections []string `json:"collections"`
}

// Root handles GET /
func (c *SystemController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Movie catalog backend running"})
}

func (c *SystemController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// TestDatabase handles GET /test. Store failures are reported in the body and
// the status is always 200.
func (c *SystemController) TestDatabase(ctx *gin.Context) {
	resp := probeResponse{
		Backend:     "Running",
		Database:    "Not Available",
		Collections: []string{},
	}

	if c.docs != nil {
		probeCtx, cancel := context.WithTimeout(ctx.Request.Context(), probeTimeout)
		defer cancel()

		names, err := c.docs.CollectionNames(probeCtx)
		if err != nil {
			zerolog.Ctx(ctx.Request.Context()).Warn().Err(err).Msg("database probe failed")
			resp.Database = "Error: " + truncate(err.Error(), 80)
		} else {
			resp.Database = "Connected"
			if names != nil {
				resp.Collections = names
			}
		}
	}

	ctx.JSON(http.StatusOK, resp)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
