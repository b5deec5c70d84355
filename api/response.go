package api

import (
	"errors"
	"net/http"

	"luckydraw/models"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Envelope is the body of every API response
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorKind string      `json:"errorKind,omitempty"`
}

func renderOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// statusForKind maps an error classification to an HTTP status
func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.ErrorKindInvalidInput:
		return http.StatusBadRequest
	case models.ErrorKindEventNotFound, models.ErrorKindPrizeNotFound, models.ErrorKindAttendeeNotFound:
		return http.StatusNotFound
	case models.ErrorKindEventNotLive, models.ErrorKindPrizeExhausted, models.ErrorKindNoEligibleCandidates,
		models.ErrorKindConflict, models.ErrorKindWinnerConflict:
		return http.StatusConflict
	case models.ErrorKindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) renderErr(c *gin.Context, err error) {
	var de *models.DrawError
	kind := models.ErrorKindStorageUnavailable
	status := http.StatusInternalServerError
	if errors.As(err, &de) {
		kind = de.Kind
		status = statusForKind(kind)
	}

	fields := log.Fields{
		"path":      c.FullPath(),
		"status":    status,
		"errorKind": kind,
		"error":     err,
	}
	if status >= http.StatusInternalServerError {
		log.WithFields(fields).Error("Request failed")
	} else {
		log.WithFields(fields).Debug("Request rejected")
	}

	c.AbortWithStatusJSON(status, Envelope{
		Success:   false,
		Error:     s.translator.Error(c.GetHeader("Accept-Language"), err),
		ErrorKind: string(kind),
	})
}

func (s *Server) renderBadRequest(c *gin.Context, format string, args ...interface{}) {
	s.renderErr(c, models.NewError(models.ErrorKindInvalidInput, format, args...))
}
