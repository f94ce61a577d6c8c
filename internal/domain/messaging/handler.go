package messaging

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/matricare/api/internal/platform/apperr"
	"github.com/matricare/api/internal/platform/auth"
)

// Handler provides HTTP handlers for doctor-mother messaging.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/messages", auth.RequireRole("doctor", "mother"))
	g.POST("/send", h.Send)
	g.GET("/unread-count", h.UnreadCounts)
	g.POST("/mark-seen", h.MarkSeen)
	g.GET("/:doctorID/:motherID", h.Thread)
}

func callerID(c echo.Context) (uuid.UUID, error) {
	uid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return uid, nil
}

type threadRequest struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	MotherID uuid.UUID `json:"mother_id"`
}

func (h *Handler) Send(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	var req struct {
		threadRequest
		SenderRole string `json:"sender_role"`
		Content    string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.Send(c.Request().Context(), uid, req.DoctorID, req.MotherID, req.SenderRole, req.Content)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) Thread(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	doctorID, err := uuid.Parse(c.Param("doctorID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	motherID, err := uuid.Parse(c.Param("motherID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid mother id")
	}
	items, err := h.svc.Thread(c.Request().Context(), uid, doctorID, motherID)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	if items == nil {
		items = []*Message{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) MarkSeen(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	var req threadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	role := auth.RoleFromContext(c.Request().Context())
	if err := h.svc.MarkSeen(c.Request().Context(), uid, role, req.DoctorID, req.MotherID); err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UnreadCounts(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	role := auth.RoleFromContext(c.Request().Context())
	items, err := h.svc.UnreadCounts(c.Request().Context(), uid, role)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	if items == nil {
		items = []*UnreadCount{}
	}
	return c.JSON(http.StatusOK, items)
}
