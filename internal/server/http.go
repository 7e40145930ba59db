package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/evebot-core/server/internal/assistant/graph"
	"github.com/evebot-core/server/internal/assistant/model"
	errx "github.com/evebot-core/server/internal/core/error"
	logx "github.com/evebot-core/server/pkg/logger"
)

const userIDHeader = "X-User-Id"

// ChatRequest is the body of a chat turn.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the reply plus the result-set snapshot the reply was
// grounded on.
type ChatResponse struct {
	Response string               `json:"response"`
	Events   []model.EventSummary `json:"events"`
}

// HistoryResponse lists recent turns, most recent first.
type HistoryResponse struct {
	Turns []model.ConversationTurn `json:"turns"`
}

// Handler exposes the assistant over HTTP.
type Handler struct {
	runner       graph.Runner
	store        model.ConversationStore
	displayTurns int
}

// NewHandler wires the turn runner and the conversation store.
func NewHandler(runner graph.Runner, store model.ConversationStore, displayTurns int) *Handler {
	if displayTurns <= 0 {
		displayTurns = 30
	}
	return &Handler{runner: runner, store: store, displayTurns: displayTurns}
}

// NewEcho builds the echo instance with routes and middleware registered.
func NewEcho(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	h.Register(e)
	return e
}

// Register mounts the chat routes.
func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/chat", h.Chat)
	api.GET("/chat/history", h.History)
}

// Chat runs one conversational turn. The user identity comes from the
// X-User-Id header; absent means anonymous and the turn is not stored.
func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errx.ValidationErrorMessage)
	}

	in := model.TurnInput{
		UserID:  strings.TrimSpace(c.Request().Header.Get(userIDHeader)),
		Message: req.Message,
	}

	result, err := h.runner.Invoke(c.Request().Context(), in)
	if err != nil {
		return toHTTPError(err)
	}

	if result.Events == nil {
		result.Events = []model.EventSummary{}
	}
	return c.JSON(http.StatusOK, ChatResponse{
		Response: result.Response,
		Events:   result.Events,
	})
}

// History returns the caller's recent turns for display.
func (h *Handler) History(c echo.Context) error {
	userID := strings.TrimSpace(c.Request().Header.Get(userIDHeader))
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "X-User-Id header is required")
	}

	turns, err := h.store.Recent(c.Request().Context(), userID, h.displayTurns)
	if err != nil {
		return toHTTPError(err)
	}
	if turns == nil {
		turns = []model.ConversationTurn{}
	}
	return c.JSON(http.StatusOK, HistoryResponse{Turns: turns})
}

func toHTTPError(err error) *echo.HTTPError {
	var appErr *errx.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			logx.Error().Err(err).Msg("request failed")
		}
		return echo.NewHTTPError(appErr.Status, appErr.Message)
	}
	logx.Error().Err(err).Msg("request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, errx.SystemErrorMessage)
}
