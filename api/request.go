package api

import (
	"strconv"

	"luckydraw/models"

	"github.com/gin-gonic/gin"
)

type createEventRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type updateEventRequest struct {
	Name   *string             `json:"name"`
	Status *models.EventStatus `json:"status"`
}

type drawRequest struct {
	PrizeID *int64 `json:"prizeId"`
}

type selectPrizeRequest struct {
	PrizeID *int64 `json:"prizeId"`
}

type createPrizeRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Order    int    `json:"order"`
}

type updateAttendeeRequest struct {
	AttendeeID         *int64 `json:"attendeeId"`
	ExcludedFromRaffle *bool  `json:"excludedFromRaffle"`
}

const defaultInitiator = "admin"

// pathID parses a positive integer path parameter
func (s *Server) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		s.renderBadRequest(c, "invalid %s %q", name, c.Param(name))
		return 0, false
	}
	return id, true
}

// optionalQueryID parses an optional positive integer query parameter
func (s *Server) optionalQueryID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.renderBadRequest(c, "invalid %s %q", name, raw)
		return nil, false
	}
	return &id, true
}

func (s *Server) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.renderBadRequest(c, "invalid request body: %v", err)
		return false
	}
	return true
}
