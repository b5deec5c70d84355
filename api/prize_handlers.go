package api

import (
	"net/http"

	"luckydraw/models"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListPrizes(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}

	prizes, err := s.services.Prizes.ListPrizes(c.Request.Context(), eventID)
	if err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, prizes)
}

func (s *Server) handleCreatePrize(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}
	var req createPrizeRequest
	if !s.bindJSON(c, &req) {
		return
	}

	prize, err := s.services.Prizes.CreatePrize(c.Request.Context(), eventID, req.Name, req.Quantity, req.Order)
	if err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusCreated, prize)
}

func (s *Server) handleUpdatePrize(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}
	prizeID, ok := s.pathID(c, "prizeId")
	if !ok {
		return
	}
	var req models.PrizeUpdate
	if !s.bindJSON(c, &req) {
		return
	}

	prize, err := s.services.Prizes.UpdatePrize(c.Request.Context(), eventID, prizeID, req)
	if err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, prize)
}

func (s *Server) handleDeletePrize(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}
	prizeID, ok := s.pathID(c, "prizeId")
	if !ok {
		return
	}

	if err := s.services.Prizes.DeletePrize(c.Request.Context(), eventID, prizeID); err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, nil)
}
