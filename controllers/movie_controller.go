package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"movie-catalog-backend/models"
	"movie-catalog-backend/services"
)

type MovieController struct {
	catalogService *services.CatalogService
}

func NewMovieController(catalogService *services.CatalogService) *MovieController {
	return &MovieController{
		catalogService: catalogService,
	}
}

func (c *MovieController) CreateMovie(ctx *gin.Context) {
	var req models.MovieCreate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	movie, err := c.catalogService.CreateMovie(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, movie)
}

// ListMovies handles GET /api/movies?genre=&featured=
func (c *MovieController) ListMovies(ctx *gin.Context) {
	var filter models.MovieFilter

	if genre := ctx.Query("genre"); genre != "" {
		filter.Genre = &genre
	}
	if raw, ok := ctx.GetQuery("featured"); ok {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "featured must be a boolean"})
			return
		}
		filter.Featured = &featured
	}

	movies, err := c.catalogService.ListMovies(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, movies)
}

func (c *MovieController) GetMovie(ctx *gin.Context) {
	movie, err := c.catalogService.GetMovie(ctx.Request.Context(), models.ID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, movie)
}

func (c *MovieController) Seed(ctx *gin.Context) {
	resp, err := c.catalogService.SeedDemoCatalog(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
