package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"movie-catalog-backend/common"
	"movie-catalog-backend/validation"
)

// respondError maps err onto the status table of the API and writes
// {"error": message}.
func respondError(ctx *gin.Context, err error) {
	var (
		status  int
		message string
		details any
	)

	switch {
	case errors.Is(err, common.ErrValidation):
		status, message = http.StatusUnprocessableEntity, "Validation failed"
		var verr *validation.Error
		if errors.As(err, &verr) {
			message = verr.Result.Reason()
			details = verr.Result.Problems
		}
	case errors.Is(err, common.ErrConflict):
		status, message = http.StatusBadRequest, "Already exists"
	case errors.Is(err, common.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, common.ErrNotFound):
		status, message = http.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrInvalidArgument):
		status, message = http.StatusBadRequest, "Invalid argument"
	default:
		zerolog.Ctx(ctx.Request.Context()).Error().Err(err).
			Str("path", ctx.FullPath()).
			Msg("request failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var cerr *common.Error
	if errors.As(err, &cerr) {
		message = cerr.Message
	}

	body := gin.H{"error": message}
	if details != nil {
		body["details"] = details
	}
	ctx.JSON(status, body)
}

// respondBindError reports a request body that could not be bound.
func respondBindError(ctx *gin.Context, err error) {
	message := "Invalid request format"
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		// Only show first error
		if first := ve[0]; first.Tag() == "required" {
			message = first.Field() + " is required"
		} else {
			message = "Invalid input data"
		}
	}
	ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": message})
}
