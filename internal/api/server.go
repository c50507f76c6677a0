package api

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samcharles93/mimic/internal/engine"
	"github.com/samcharles93/mimic/internal/logger"
	"github.com/samcharles93/mimic/internal/metrics"
)

// Server exposes a mock engine over HTTP so generation pipelines can be
// integration-tested against a deterministic backend. The engine is a
// single-session object, so all handlers serialize access through one mutex.
type Server struct {
	mu     sync.Mutex
	engine *engine.Engine
	log    logger.Logger
}

// NewServer wraps the given engine.
func NewServer(eng *engine.Engine, log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{engine: eng, log: log}
}

// Register mounts the API routes.
func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/encode", s.handleEncode)
	e.POST("/v1/decode", s.handleDecode)
	e.POST("/v1/logits", s.handleLogits)
	e.POST("/v1/topk", s.handleTopK)
	e.POST("/v1/generate", s.handleGenerate)
	e.POST("/v1/prefix_mass", s.handlePrefixMass)
	e.GET("/metrics", s.handleMetrics)
}

func (s *Server) handleEncode(c *echo.Context) error {
	req, err := decodeJSON[EncodeRequest](c.Request().Body)
	if err != nil {
		return s.fail(c, "/v1/encode", http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	start := time.Now()
	ids, err := s.engine.Tokenizer().EncodeBytes([]byte(req.Text), true)
	metrics.EncodeDuration.Observe(time.Since(start).Seconds())
	s.mu.Unlock()
	if err != nil {
		return s.fail(c, "/v1/encode", http.StatusBadRequest, err.Error())
	}

	resp := EncodeResponse{
		RequestID: newRequestID(),
		TokenIDs:  ids,
		Tokens:    make([]string, len(ids)),
	}
	for i, id := range ids {
		b, _ := s.engine.Tokenizer().TokenBytes(id)
		resp.Tokens[i] = string(b)
	}
	metrics.RequestsTotal.WithLabelValues("/v1/encode", "200").Inc()
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDecode(c *echo.Context) error {
	req, err := decodeJSON[DecodeRequest](c.Request().Body)
	if err != nil {
		return s.fail(c, "/v1/decode", http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	text, err := s.engine.Tokenizer().Decode(req.TokenIDs)
	s.mu.Unlock()
	if err != nil {
		return s.fail(c, "/v1/decode", http.StatusBadRequest, err.Error())
	}

	metrics.RequestsTotal.WithLabelValues("/v1/decode", "200").Inc()
	return c.JSON(http.StatusOK, DecodeResponse{
		RequestID: newRequestID(),
		Text:      text,
	})
}

func (s *Server) handleLogits(c *echo.Context) error {
	req, err := decodeJSON[LogitsRequest](c.Request().Body)
	if err != nil {
		return s.fail(c, "/v1/logits", http.StatusBadRequest, err.Error())
	}
	if err := s.checkIDs(req.TokenIDs); err != nil {
		return s.fail(c, "/v1/logits", http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	scores := s.engine.GetLogits(req.TokenIDs)
	s.mu.Unlock()
	metrics.LogitCallsTotal.Inc()

	resp := LogitsResponse{
		RequestID: newRequestID(),
		VocabSize: len(scores),
		Scores:    make([]*float64, len(scores)),
	}
	for i, v := range scores {
		f := float64(v)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			continue
		}
		resp.Scores[i] = &f
	}
	metrics.RequestsTotal.WithLabelValues("/v1/logits", "200").Inc()
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleTopK(c *echo.Context) error {
	req, err := decodeJSON[TopKRequest](c.Request().Body)
	if err != nil {
		return s.fail(c, "/v1/topk", http.StatusBadRequest, err.Error())
	}
	if err := s.checkIDs(req.TokenIDs); err != nil {
		return s.fail(c, "/v1/topk", http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	positions := s.engine.PerTokenTopK(req.TokenIDs, req.K)
	s.mu.Unlock()

	metrics.RequestsTotal.WithLabelValues("/v1/topk", "200").Inc()
	return c.JSON(http.StatusOK, TopKResponse{
		RequestID: newRequestID(),
		Positions: positions,
	})
}

func (s *Server) handleGenerate(c *echo.Context) error {
	req, err := decodeJSON[GenerateRequest](c.Request().Body)
	if err != nil {
		return s.fail(c, "/v1/generate", http.StatusBadRequest, err.Error())
	}
	steps := 16
	if req.Steps != nil {
		steps = *req.Steps
	}
	temperature := 0.0
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	s.mu.Lock()
	ids, stats, err := s.engine.Generate(c.Request().Context(), []byte(req.Prompt), steps, temperature, nil)
	var text string
	if err == nil {
		text, err = s.engine.Tokenizer().Decode(ids)
	}
	s.mu.Unlock()
	if err != nil {
		return s.fail(c, "/v1/generate", http.StatusInternalServerError, err.Error())
	}

	s.log.Debug("generate", "tokens", stats.TokensGenerated, "tps", stats.TPS)
	metrics.RequestsTotal.WithLabelValues("/v1/generate", "200").Inc()
	return c.JSON(http.StatusOK, GenerateResponse{
		RequestID:       newRequestID(),
		TokenIDs:        ids,
		Text:            text,
		TokensGenerated: stats.TokensGenerated,
		DurationMS:      float64(stats.Duration.Milliseconds()),
		TPS:             stats.TPS,
	})
}

func (s *Server) handlePrefixMass(c *echo.Context) error {
	req, err := decodeJSON[PrefixMassRequest](c.Request().Body)
	if err != nil {
		return s.fail(c, "/v1/prefix_mass", http.StatusBadRequest, err.Error())
	}
	if err := s.checkIDs(req.TokenIDs); err != nil {
		return s.fail(c, "/v1/prefix_mass", http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	mass, found := s.engine.PrefixMass(req.TokenIDs, []byte(req.Prefix))
	s.mu.Unlock()

	metrics.RequestsTotal.WithLabelValues("/v1/prefix_mass", "200").Inc()
	return c.JSON(http.StatusOK, PrefixMassResponse{
		RequestID: newRequestID(),
		Mass:      mass,
		Found:     found,
	})
}

func (s *Server) handleMetrics(c *echo.Context) error {
	promhttp.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}

func (s *Server) checkIDs(ids []int) error {
	_, err := s.engine.Tokenizer().DecodeBytes(ids)
	return err
}

func (s *Server) fail(c *echo.Context, route string, status int, msg string) error {
	metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	if status == http.StatusBadRequest {
		return writeBadRequest(c, msg)
	}
	return writeError(c, status, "server_error", msg)
}
