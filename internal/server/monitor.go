package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type startMonitorRequest struct {
	IntervalMinutes int `json:"intervalMinutes"`
}

func (s *Server) StartMonitor(c *gin.Context) {
	var req startMonitorRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	interval := time.Duration(req.IntervalMinutes) * time.Minute
	if err := s.monitor.Start(interval); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.monitorStatus()})
}

func (s *Server) StopMonitor(c *gin.Context) {
	s.monitor.Stop()
	c.JSON(http.StatusOK, gin.H{"data": s.monitorStatus()})
}

func (s *Server) MonitorStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.monitorStatus()})
}

// StockCheck runs one sweep outside the monitor schedule.
func (s *Server) StockCheck(c *gin.Context) {
	if err := s.monitor.SweepNow(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"checked": true}})
}

func (s *Server) monitorStatus() gin.H {
	status := s.monitor.Status()
	return gin.H{
		"isRunning":       status.Running,
		"intervalMinutes": int(status.Interval / time.Minute),
	}
}
