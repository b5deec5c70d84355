package api

import (
	"net/http"

	"luckydraw/models"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleDraw(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}
	var req drawRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if req.PrizeID == nil || *req.PrizeID <= 0 {
		s.renderBadRequest(c, "prizeId is required")
		return
	}

	initiator := c.GetHeader("X-Initiator")
	if initiator == "" {
		initiator = defaultInitiator
	}

	result, err := s.services.Draw.Draw(c.Request.Context(), models.DrawRequest{
		EventID:   eventID,
		PrizeID:   *req.PrizeID,
		Initiator: initiator,
	})
	if err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, result)
}

func (s *Server) handleSelectPrize(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}
	var req selectPrizeRequest
	if !s.bindJSON(c, &req) {
		return
	}

	if err := s.services.Events.SelectPrize(c.Request.Context(), eventID, req.PrizeID); err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, gin.H{"selectedPrizeId": req.PrizeID})
}

func (s *Server) handleDrawHistory(c *gin.Context) {
	eventID, ok := s.pathID(c, "eventId")
	if !ok {
		return
	}
	prizeID, ok := s.optionalQueryID(c, "prizeId")
	if !ok {
		return
	}

	history, err := s.services.Ledger.History(c.Request.Context(), eventID, prizeID)
	if err != nil {
		s.renderErr(c, err)
		return
	}
	renderOK(c, http.StatusOK, history)
}
