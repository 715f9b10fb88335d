package server

// #region imports
import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/faqforge/internal/faq"
	"github.com/danielpatrickdp/faqforge/internal/orchestrator"
)

// #endregion

// #region dto

// GenerateRequest is the inbound payload.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse is the outbound contract.
type GenerateResponse struct {
	Success  bool        `json:"success"`
	FAQ      faq.FAQ     `json:"faq"`
	Quality  QualityDTO  `json:"quality"`
	Metadata MetadataDTO `json:"metadata"`
}

// QualityDTO carries the score of the returned artifact.
type QualityDTO struct {
	Score     float64                `json:"score"`
	Level     string                 `json:"level"`
	Breakdown orchestrator.Breakdown `json:"breakdown"`
}

// MetadataDTO carries per-request diagnostics.
type MetadataDTO struct {
	Attempts   int                    `json:"attempts"`
	AttemptLog []orchestrator.Attempt `json:"attemptLog"`
	Model      string                 `json:"model"`
	Warning    string                 `json:"warning,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// #endregion

// #region server

// Server exposes the learning pipeline over HTTP.
type Server struct {
	echo  *echo.Echo
	orch  *orchestrator.Orchestrator
	model string
	log   *zap.Logger
}

// New builds the HTTP server and registers routes.
func New(orch *orchestrator.Orchestrator, model string, log *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, orch: orch, model: model, log: log}
	e.GET("/healthz", s.health)
	e.POST("/api/v1/faq", s.generate)
	return s
}

// Start blocks serving on addr until Shutdown or a listener error.
func (s *Server) Start(addr string) error {
	s.log.Info("http server listening", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// #endregion

// #region handlers

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// generate validates the prompt, runs the learning loop, and renders the
// response contract. Validation failures never reach the orchestrator.
func (s *Server) generate(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request body"})
	}
	if err := faq.ValidatePrompt(req.Prompt); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	res := s.orch.GenerateWithLearning(c.Request().Context(), req.Prompt)

	return c.JSON(http.StatusOK, GenerateResponse{
		Success: res.Success,
		FAQ:     res.FAQ,
		Quality: QualityDTO{
			Score:     res.Quality.Overall,
			Level:     string(res.Quality.Level),
			Breakdown: res.Quality.Breakdown,
		},
		Metadata: MetadataDTO{
			Attempts:   res.AttemptCount,
			AttemptLog: res.Attempts,
			Model:      s.model,
			Warning:    res.Warning,
		},
	})
}

// #endregion
