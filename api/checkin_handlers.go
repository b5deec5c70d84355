package api

import (
	"net/http"
	"strconv"

	"luckydraw/models"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleCheckIn(c *gin.Context) {
	var req models.CheckInRequest
	if !s.bindJSON(c, &req) {
		return
	}

	result, err := s.services.CheckIn.CheckIn(c.Request.Context(), req)
	if err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusCreated, result)
}

func (s *Server) handleListCheckIns(c *gin.Context) {
	attendees, err := s.services.CheckIn.ListAttendeesByCode(c.Request.Context(), c.Query("eventCode"))
	if err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, attendees)
}

func (s *Server) handleListAttendees(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}

	attendees, err := s.services.CheckIn.ListAttendees(c.Request.Context(), eventID)
	if err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, attendees)
}

func (s *Server) handleUpdateAttendee(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}
	var req updateAttendeeRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if req.AttendeeID == nil || req.ExcludedFromRaffle == nil {
		s.renderBadRequest(c, "attendeeId and excludedFromRaffle are required")
		return
	}

	attendee, err := s.services.CheckIn.SetExcluded(c.Request.Context(), eventID, *req.AttendeeID, *req.ExcludedFromRaffle)
	if err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, attendee)
}

func (s *Server) handleDeleteAttendee(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}
	attendeeID, err := strconv.ParseInt(c.Query("attendeeId"), 10, 64)
	if err != nil || attendeeID <= 0 {
		s.renderBadRequest(c, "attendeeId is required")
		return
	}

	if err := s.services.CheckIn.DeleteAttendee(c.Request.Context(), eventID, attendeeID); err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, nil)
}
