package mood

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/matricare/api/internal/platform/apperr"
	"github.com/matricare/api/internal/platform/auth"
)

// Handler provides HTTP handlers for mood tracking.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/mood", auth.RequireRole("mother"))
	g.POST("/submit", h.Submit)
	g.GET("/history", h.History)
	g.GET("/stats", h.Stats)
	g.DELETE("/reset", h.Reset)
}

func callerID(c echo.Context) (uuid.UUID, error) {
	uid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return uid, nil
}

func (h *Handler) Submit(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	var req struct {
		Mood  int    `json:"mood"`
		Notes string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	l, stats, err := h.svc.Submit(c.Request().Context(), uid, req.Mood, req.Notes)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"log": l, "stats": stats})
}

func (h *Handler) History(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	logs, err := h.svc.History(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	if logs == nil {
		logs = []*Log{}
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *Handler) Stats(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	stats, err := h.svc.GetStats(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Reset(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Reset(c.Request().Context(), uid); err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.NoContent(http.StatusNoContent)
}
