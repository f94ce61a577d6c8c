package doctor

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/matricare/api/internal/platform/apperr"
	"github.com/matricare/api/internal/platform/auth"
	"github.com/matricare/api/pkg/pagination"
)

// Handler provides HTTP handlers for doctor profiles, rosters and ratings.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	own := api.Group("/doctor", auth.RequireRole("doctor"))
	own.GET("/profile", h.GetOwnProfile)
	own.PUT("/profile", h.UpsertProfile)
	own.GET("/patients/:doctorID", h.ListPatients)
	own.DELETE("/patients/:doctorID/:patientID", h.RemovePatient)

	mothers := api.Group("/doctor", auth.RequireRole("mother"))
	mothers.GET("/doctors", h.ListDoctors)
	mothers.POST("/rate/:doctorID", h.Rate)
}

func callerID(c echo.Context) (uuid.UUID, error) {
	uid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return uid, nil
}

func (h *Handler) GetOwnProfile(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpsertProfile(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	var p Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	saved, err := h.svc.UpsertProfile(c.Request().Context(), uid, &p)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDoctors(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// rosterCaller checks the :doctorID param against the caller. Admins may act
// on any roster.
func rosterCaller(c echo.Context) (uuid.UUID, error) {
	doctorID, err := uuid.Parse(c.Param("doctorID"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	uid, err := callerID(c)
	if err != nil {
		return uuid.Nil, err
	}
	if auth.RoleFromContext(c.Request().Context()) != "admin" && uid != doctorID {
		return uuid.Nil, echo.NewHTTPError(http.StatusForbidden, "not your roster")
	}
	return doctorID, nil
}

func (h *Handler) ListPatients(c echo.Context) error {
	doctorID, err := rosterCaller(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListPatients(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	if items == nil {
		items = []*RosterEntry{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) RemovePatient(c echo.Context) error {
	doctorID, err := rosterCaller(c)
	if err != nil {
		return err
	}
	patientID, err := uuid.Parse(c.Param("patientID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if err := h.svc.RemovePatient(c.Request().Context(), doctorID, patientID); err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Rate(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	var req struct {
		Rating int `json:"rating"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Rate(c.Request().Context(), doctorID, req.Rating)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"rating":       p.Rating,
		"rating_count": p.RatingCount,
	})
}
