package report

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/matricare/api/internal/platform/apperr"
	"github.com/matricare/api/internal/platform/auth"
)

// Handler provides HTTP handlers for AI reports and chat.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	mothers := api.Group("", auth.RequireRole("mother"))
	mothers.POST("/reports/mother", h.MotherReport)
	mothers.POST("/chat", h.Chat)
	mothers.GET("/chat/history", h.ChatHistory)
	mothers.DELETE("/chat/history", h.ClearChat)

	api.POST("/reports/child/:childID", h.ChildReport, auth.RequireRole("mother", "doctor"))
}

func callerID(c echo.Context) (uuid.UUID, error) {
	uid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return uid, nil
}

func (h *Handler) MotherReport(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	r, err := h.svc.MotherReport(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ChildReport(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	childID, err := uuid.Parse(c.Param("childID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid child id")
	}
	role := auth.RoleFromContext(c.Request().Context())
	r, err := h.svc.ChildReport(c.Request().Context(), uid, role, childID)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) Chat(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reply, err := h.svc.Chat(c.Request().Context(), uid, req.Message)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, reply)
}

func (h *Handler) ChatHistory(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ChatHistory(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	if items == nil {
		items = []*ChatMessage{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ClearChat(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	if err := h.svc.ClearChat(c.Request().Context(), uid); err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.NoContent(http.StatusNoContent)
}
