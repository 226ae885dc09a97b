package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"clinic-server/types"
)

// respondError translates a core error into the wire contract
// {"error": {"code", "message"}}. Anything that is not an *AppError is an
// unexpected failure: logged server-side, returned as an opaque 500.
func respondError(c *gin.Context, err error) {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{
			"error": gin.H{"code": appErr.Code, "message": appErr.Message},
		})
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unexpected error")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{"code": "INTERNAL_SERVER_ERROR", "message": "Internal server error"},
	})
}
