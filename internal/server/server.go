package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agenthands/annex/internal/config"
	"github.com/agenthands/annex/internal/core/model"
	"github.com/agenthands/annex/internal/gateway"
	"github.com/agenthands/annex/internal/metrics"
	"github.com/agenthands/annex/internal/navigator"
)

// Server hosts one navigator per session.
type Server struct {
	Gateway gateway.Gateway
	Config  *config.Config
	Logger  *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*navigator.Navigator
}

func NewServer(gw gateway.Gateway, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Server{
		Gateway:  gw,
		Config:   cfg,
		Logger:   logger,
		sessions: make(map[string]*navigator.Navigator),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.countRequests)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/sessions", s.CreateSession)
	r.GET("/sessions/:id", s.GetSession)
	r.DELETE("/sessions/:id", s.DeleteSession)
	r.PUT("/sessions/:id/nodes", s.SetNodes)
	r.POST("/sessions/:id/records/:rid/summary", s.ToggleSummary)
	r.POST("/sessions/:id/records/:rid/links", s.ToggleRelationship)
	r.POST("/sessions/:id/records/:rid/expand", s.ExpandDepth)
	r.DELETE("/sessions/:id/records/:rid", s.HideRecord)

	return r
}

func (s *Server) countRequests(c *gin.Context) {
	c.Next()
	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
}

type NodesRequest struct {
	Nodes []model.Payload `json:"nodes"`
}

type LinkRequest struct {
	RelName string `json:"rel_name" binding:"required"`
	Dir     string `json:"dir" binding:"required"`
	Count   int    `json:"count"`
}

type ExpandRequest struct {
	Depth int `json:"depth"`
}

type SessionResponse struct {
	SessionID string                    `json:"session_id"`
	Records   []navigator.RenderedEntry `json:"records"`
	Status    navigator.Status          `json:"status"`
}

func (s *Server) CreateSession(c *gin.Context) {
	var req NodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	nav := navigator.New(s.Gateway,
		navigator.WithLogger(s.Logger),
		navigator.WithDisplayCeiling(s.Config.Navigator.DisplayCeiling))
	nav.SetNodes(req.Nodes)

	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = nav
	s.mu.Unlock()
	metrics.ActiveSessions.Inc()

	s.Logger.Info("session created", zap.String("session_id", id), zap.Int("roots", len(req.Nodes)))
	c.JSON(http.StatusCreated, s.view(id, nav))
}

func (s *Server) GetSession(c *gin.Context) {
	id, nav, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.view(id, nav))
}

func (s *Server) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	metrics.ActiveSessions.Dec()
	c.Status(http.StatusNoContent)
}

func (s *Server) SetNodes(c *gin.Context) {
	id, nav, ok := s.session(c)
	if !ok {
		return
	}
	var req NodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	nav.SetNodes(req.Nodes)
	c.JSON(http.StatusOK, s.view(id, nav))
}

func (s *Server) ToggleSummary(c *gin.Context) {
	id, nav, rid, ok := s.record(c)
	if !ok {
		return
	}
	err := nav.ToggleSummary(c.Request.Context(), rid)
	s.respond(c, id, nav, err)
}

func (s *Server) ToggleRelationship(c *gin.Context) {
	id, nav, rid, ok := s.record(c)
	if !ok {
		return
	}
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	dir, err := model.ParseDirection(req.Dir)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err = nav.ToggleRelationship(c.Request.Context(), rid, req.RelName, dir, req.Count)
	s.respond(c, id, nav, err)
}

func (s *Server) ExpandDepth(c *gin.Context) {
	id, nav, rid, ok := s.record(c)
	if !ok {
		return
	}
	req := ExpandRequest{Depth: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}
	if maxDepth := s.Config.Navigator.MaxExpandDepth; req.Depth < 1 || req.Depth > maxDepth {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("depth must be between 1 and %d", maxDepth)})
		return
	}
	err := nav.ExpandDepth(c.Request.Context(), rid, req.Depth)
	s.respond(c, id, nav, err)
}

func (s *Server) HideRecord(c *gin.Context) {
	id, nav, rid, ok := s.record(c)
	if !ok {
		return
	}
	s.respond(c, id, nav, nav.HideRecord(rid))
}

func (s *Server) session(c *gin.Context) (string, *navigator.Navigator, bool) {
	id := c.Param("id")
	s.mu.RLock()
	nav, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	}
	return id, nav, ok
}

func (s *Server) record(c *gin.Context) (string, *navigator.Navigator, int, bool) {
	id, nav, ok := s.session(c)
	if !ok {
		return "", nil, 0, false
	}
	rid, err := strconv.Atoi(c.Param("rid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return "", nil, 0, false
	}
	return id, nav, rid, true
}

func (s *Server) view(id string, nav *navigator.Navigator) SessionResponse {
	return SessionResponse{
		SessionID: id,
		Records:   nav.Project(s.Config.Navigator.IndentUnit),
		Status:    nav.Status(),
	}
}

// respond writes the session view, with an error status derived from err when set.
func (s *Server) respond(c *gin.Context, id string, nav *navigator.Navigator, err error) {
	code := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, navigator.ErrRecordNotFound):
		code = http.StatusNotFound
	case errors.Is(err, navigator.ErrMissingInternalID):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, navigator.ErrNotExpanded):
		code = http.StatusConflict
	default:
		code = http.StatusBadGateway
	}
	c.JSON(code, s.view(id, nav))
}
