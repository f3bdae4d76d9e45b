// Package admin serves the HTTP side of the monitor: health, metrics,
// the stored decodes and a websocket feed of everything received.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/wsjtxmon/internal/auth"
	"github.com/danmuck/wsjtxmon/internal/config"
	"github.com/danmuck/wsjtxmon/internal/decodes"
	"github.com/danmuck/wsjtxmon/internal/monitor"
	"github.com/danmuck/wsjtxmon/internal/observability"
	"github.com/danmuck/wsjtxmon/internal/protocol"
	"github.com/danmuck/wsjtxmon/internal/protocol/qcolor"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const version = "0.1.0"

// Sender is the part of the monitor the API drives.
type Sender interface {
	LastPeer() (monitor.Peer, bool)
	SendReply(peer monitor.Peer, reply []byte) error
	SendHighlight(peer monitor.Peer, h protocol.HighlightCall) error
}

type Server struct {
	ID        string
	Addr      string
	Highlight config.HighlightConfig
	Appeared  time.Time

	token  string
	board  *decodes.Board
	sender Sender
	hub    *Hub
	router *gin.Engine
	logger zerolog.Logger
	ln     net.Listener
}

func New(id string, cfg config.AdminConfig, highlight config.HighlightConfig, board *decodes.Board, sender Sender, logger zerolog.Logger) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetrics(id))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", auth.TokenHeader},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		ID:        id,
		Addr:      cfg.Addr,
		Highlight: highlight,
		Appeared:  time.Now(),
		token:     cfg.Token,
		board:     board,
		sender:    sender,
		hub:       NewHub(cfg.MaxWSClients, logger),
		router:    r,
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.ID,
			"version": version,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/ready", func(c *gin.Context) {
		peer, ok := s.sender.LastPeer()
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		body := gin.H{
			"ready":   ok,
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.ID,
			"version": version,
		}
		if ok {
			body["peer"] = peer.Addr.String()
			body["schema"] = peer.Schema
		}
		c.JSON(status, body)
	})

	s.router.GET("/decodes", s.listDecodes)
	var guard []gin.HandlerFunc
	if s.token != "" {
		guard = append(guard, auth.Middleware(auth.StaticToken{Token: s.token}))
	}
	send := s.router.Group("/", guard...)
	send.POST("/decodes/:id/reply", s.replyDecode)
	send.POST("/highlight", s.highlight)
	s.router.GET("/ws", func(c *gin.Context) {
		s.hub.ServeWS(c.Writer, c.Request)
	})
}

func (s *Server) listDecodes(c *gin.Context) {
	key, ok := decodes.ParseSortKey(c.Query("sort"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be one of time, df, snr"})
		return
	}
	q := decodes.Query{Sort: key}
	q.Desc, _ = strconv.ParseBool(c.DefaultQuery("desc", "false"))
	q.CQOnly, _ = strconv.ParseBool(c.DefaultQuery("cq", "false"))
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		q.Limit = limit
	}
	records := s.board.List(q)
	c.JSON(http.StatusOK, gin.H{"decodes": records, "count": len(records)})
}

func (s *Server) replyDecode(c *gin.Context) {
	rec, err := s.board.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	peer := monitor.Peer{Addr: rec.PeerAddr, Schema: rec.Schema}
	if err := s.sender.SendReply(peer, rec.Reply); err != nil {
		s.logger.Error().Err(err).Str("decode", rec.ID).Msg("reply_failed")
		c.JSON(sendStatus(err), gin.H{"error": err.Error()})
		return
	}
	s.logger.Info().Str("decode", rec.ID).Str("text", rec.Decode.Text).Msg("reply_sent")
	c.JSON(http.StatusOK, gin.H{"status": "ok", "id": rec.ID})
}

type highlightRequest struct {
	Call           string  `json:"call" binding:"required"`
	Background     string  `json:"background"`
	Foreground     string  `json:"foreground"`
	BackgroundRGBA *uint32 `json:"background_rgba"`
	ForegroundRGBA *uint32 `json:"foreground_rgba"`
	AllPeriods     *bool   `json:"all_periods"`
	Clear          bool    `json:"clear"`
}

func (s *Server) highlight(c *gin.Context) {
	var req highlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	call := strings.ToUpper(strings.TrimSpace(req.Call))

	var h protocol.HighlightCall
	if req.Clear {
		h = protocol.ClearHighlight(call)
	} else {
		hc := s.Highlight
		if req.Background != "" {
			hc.Background = req.Background
		}
		if req.Foreground != "" {
			hc.Foreground = req.Foreground
		}
		if req.AllPeriods != nil {
			hc.AllPeriods = *req.AllPeriods
		}
		opts, err := hc.Options(call)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		opts.BackgroundRGBA = req.BackgroundRGBA
		opts.ForegroundRGBA = req.ForegroundRGBA
		h = opts.Resolve()
	}

	peer, ok := s.sender.LastPeer()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": monitor.ErrNoPeer.Error()})
		return
	}
	if err := s.sender.SendHighlight(peer, h); err != nil {
		c.JSON(sendStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"call":       call,
		"background": h.Background.String(),
		"foreground": h.Foreground.String(),
	})
}

func sendStatus(err error) int {
	switch {
	case errors.Is(err, monitor.ErrNoPeer):
		return http.StatusConflict
	case errors.Is(err, protocol.ErrEmptyCall), errors.Is(err, protocol.ErrEmptyReply),
		errors.Is(err, protocol.ErrNotReply), errors.Is(err, qcolor.ErrUnknownName):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// Serve runs the HTTP server until ctx ends.
// Listen binds the admin address so a busy port is reported before the
// monitor starts receiving.
func (s *Server) Listen() error {
	if s.ln != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("admin listen %s: %w", s.Addr, err)
	}
	s.ln = ln
	return nil
}

// ListenAddr returns the bound address, or nil before Listen.
func (s *Server) ListenAddr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.ln.Addr().String()).Msg("admin_listen")
		errCh <- srv.Serve(s.ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
