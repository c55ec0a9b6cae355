package web

import (
	"encoding/json"
	"net/http"

	apperrors "intent-miner/errors"
	"intent-miner/report"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) runDiscovery(c *gin.Context) {
	result, err := s.runner.RunDiscovery(c.Request.Context())
	if err != nil {
		s.logger.Error("Discovery run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) runAudit(c *gin.Context) {
	result, err := s.runner.RunAudit(c.Request.Context())
	if err != nil {
		s.logger.Error("Audit run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) getRun(c *gin.Context) {
	kind, payload, err := s.store.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		s.logger.Error("Run lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "report": json.RawMessage(payload)})
}

// getRunReport renders the human-readable report of an audit run as HTML.
func (s *Server) getRunReport(c *gin.Context) {
	kind, payload, err := s.store.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.String(http.StatusNotFound, "run not found")
			return
		}
		s.logger.Error("Run lookup failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "lookup failed")
		return
	}
	if kind != "audit" {
		c.String(http.StatusBadRequest, "only audit runs carry a textual report")
		return
	}

	var body struct {
		Report string `json:"report"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.Report == "" {
		c.String(http.StatusInternalServerError, "report payload unreadable")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(report.RenderHTML(body.Report)))
}
