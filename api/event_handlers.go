package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListEvents(c *gin.Context) {
	list, err := s.services.Events.ListEvents(c.Request.Context())
	if err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, list)
}

func (s *Server) handleCreateEvent(c *gin.Context) {
	var req createEventRequest
	if !s.bindJSON(c, &req) {
		return
	}

	event, err := s.services.Events.CreateEvent(c.Request.Context(), req.Name, req.Code)
	if err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusCreated, event)
}

func (s *Server) handleGetEvent(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}

	event, err := s.services.Events.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, event)
}

func (s *Server) handleUpdateEvent(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}
	var req updateEventRequest
	if !s.bindJSON(c, &req) {
		return
	}

	event, err := s.services.Events.UpdateEvent(c.Request.Context(), eventID, req.Name, req.Status)
	if err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, event)
}

func (s *Server) handleDeleteEvent(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}

	if err := s.services.Events.DeleteEvent(c.Request.Context(), eventID); err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, nil)
}

func (s *Server) handleReset(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}

	if err := s.services.Ledger.Reset(c.Request.Context(), eventID); err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, nil)
}
