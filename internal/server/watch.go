package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prodscope/prodscope/pkg/analysis"
)

// watchInterval is how often status snapshots are pushed to a watcher.
const watchInterval = 500 * time.Millisecond

// handleAnalysisWatch upgrades to a websocket and streams status snapshots
// for one session until it reaches a terminal state or the client goes
// away. The stream carries the same shape the polling endpoint returns.
func (s *Server) handleAnalysisWatch(c *gin.Context) {
	id := c.Param("id")

	if _, err := s.analyses.Status(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis id not found"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		status, err := s.analyses.Status(id)
		if err != nil {
			// Swept mid-watch.
			return
		}
		if err := conn.WriteJSON(status); err != nil {
			return
		}
		if status.Status != analysis.StatusRunning {
			return
		}

		select {
		case <-ticker.C:
		case <-c.Request.Context().Done():
			return
		}
	}
}
