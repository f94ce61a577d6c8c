package consultation

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/matricare/api/internal/platform/apperr"
	"github.com/matricare/api/internal/platform/auth"
	"github.com/matricare/api/pkg/pagination"
)

// Handler provides HTTP handlers for the consultation workflow.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	mothers := api.Group("/consultations", auth.RequireRole("mother"))
	mothers.POST("", h.Create)
	mothers.GET("/mine", h.ListMine)
	mothers.PATCH("/:id/cancel", h.Cancel)
	mothers.POST("/:id/feedback", h.Feedback)

	doctors := api.Group("/consultations", auth.RequireRole("doctor"))
	doctors.PATCH("/:id/approval", h.Decide)
	doctors.PUT("/:id/respond", h.Respond)
	doctors.PATCH("/:id/complete", h.Complete)

	either := api.Group("/consultations", auth.RequireRole("mother", "doctor"))
	either.GET("/:id", h.Get)
	either.PATCH("/:id/schedule", h.Schedule)

	api.GET("/doctor/consultations", h.ListForDoctor, auth.RequireRole("doctor"))
}

func callerID(c echo.Context) (uuid.UUID, error) {
	uid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return uid, nil
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid consultation id")
	}
	return id, nil
}

func (h *Handler) Create(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	var req struct {
		DoctorID uuid.UUID `json:"doctor_id"`
		Message  string    `json:"message"`
		Urgency  string    `json:"urgency"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.Create(c.Request().Context(), uid, req.DoctorID, req.Message, req.Urgency)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Get(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	got, err := h.svc.Get(c.Request().Context(), uid, id)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, got)
}

func (h *Handler) Decide(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req struct {
		IsApproved *bool `json:"is_approved"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.IsApproved == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "is_approved is required")
	}
	updated, err := h.svc.Decide(c.Request().Context(), uid, id, *req.IsApproved)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Schedule(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req struct {
		PreferredTime time.Time `json:"preferred_time"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PreferredTime.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "preferred_time is required")
	}
	updated, err := h.svc.Schedule(c.Request().Context(), uid, id, req.PreferredTime)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Respond(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req struct {
		Response string `json:"response"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.Respond(c.Request().Context(), uid, id, req.Response)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Cancel(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	updated, err := h.svc.Cancel(c.Request().Context(), uid, id)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Complete(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	updated, err := h.svc.Complete(c.Request().Context(), uid, id)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Feedback(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req struct {
		Rating   int    `json:"rating"`
		Feedback string `json:"feedback"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.Feedback(c.Request().Context(), uid, id, req.Rating, req.Feedback)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) ListMine(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByMother(c.Request().Context(), uid, c.QueryParam("status"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListForDoctor(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByDoctor(c.Request().Context(), uid, c.QueryParam("status"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
