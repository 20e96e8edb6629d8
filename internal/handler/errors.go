package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"stockledger/internal/apperror"
	"stockledger/internal/middleware"
	"stockledger/internal/service"
	"stockledger/pkg/response"
)

// respondError maps an application error to its HTTP status. Store and
// unknown errors are logged with the request id and reported generically.
func respondError(c *gin.Context, err error) {
	switch apperror.KindOf(err) {
	case apperror.KindNoConnection:
		c.JSON(http.StatusServiceUnavailable, response.ErrorWithRedirect(http.StatusServiceUnavailable, err.Error(), middleware.RedirectHome))
	case apperror.KindDuplicate:
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case apperror.KindValidation:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case apperror.KindNotFound:
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case apperror.KindIO:
		log.Error().Err(errors.Unwrap(err)).Str("request_id", c.GetString("request_id")).Msg(err.Error())
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Internal server error"))
	}
}

// dateRange reads the optional from/to query parameters (YYYY-MM-DD).
func dateRange(c *gin.Context) (from, to *time.Time, err error) {
	if from, err = service.ParseDate("from", c.Query("from")); err != nil {
		return nil, nil, err
	}
	if to, err = service.ParseDate("to", c.Query("to")); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// sendExport writes a rendered export as a file download.
func sendExport(c *gin.Context, export *service.Export) {
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(export.Body)))
	c.Data(http.StatusOK, export.ContentType, export.Body)
}
