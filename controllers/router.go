package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"movie-catalog-backend/data_access"
	"movie-catalog-backend/middleware"
	"movie-catalog-backend/services"
)

type Services struct {
	Docs    *data_access.Documents
	Auth    *services.AuthService
	Catalog *services.CatalogService
	List    *services.ListService
}

type RouterOptions struct {
	Logger          zerolog.Logger
	CORSAllowOrigin string

	// Metrics is optional; /metrics is only mounted when set.
	Metrics *middleware.Metrics
}

// NewRouter mounts every route of the API on a fresh gin engine.
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	authController := NewAuthController(svc.Auth)
	movieController := NewMovieController(svc.Catalog)
	listController := NewListController(svc.List)
	systemController := NewSystemController(svc.Docs)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(opts.Logger))
	r.Use(middleware.AccessLog())
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", opts.Metrics.Handler())
	}
	r.Use(middleware.CORS(opts.CORSAllowOrigin))

	r.GET("/", systemController.Root)
	r.GET("/test", systemController.TestDatabase)

	api := r.Group("/api")
	{
		api.GET("/health", systemController.Health)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
		}

		api.POST("/movies", movieController.CreateMovie)
		api.GET("/movies", movieController.ListMovies)
		api.GET("/movies/:id", movieController.GetMovie)
		api.POST("/seed", movieController.Seed)

		api.POST("/list/add", listController.AddToList)
		api.GET("/list", listController.GetList)
	}

	return r
}
