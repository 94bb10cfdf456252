package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"movie-catalog-backend/models"
	"movie-catalog-backend/services"
)

type ListController struct {
	listService *services.ListService
}

func NewListController(listService *services.ListService) *ListController {
	return &ListController{
		listService: listService,
	}
}

func (c *ListController) AddToList(ctx *gin.Context) {
	var req models.AddToListRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	item, err := c.listService.AddToList(ctx.Request.Context(), req.Token, req.MovieID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// GetList handles GET /api/list?token=
func (c *ListController) GetList(ctx *gin.Context) {
	token, ok := ctx.GetQuery("token")
	if !ok {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "token is required"})
		return
	}

	movies, err := c.listService.GetList(ctx.Request.Context(), token)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, movies)
}
