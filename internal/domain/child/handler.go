package child

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/matricare/api/internal/platform/apperr"
	"github.com/matricare/api/internal/platform/auth"
)

// Handler provides HTTP handlers for child profiles and screenings.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	own := api.Group("/child", auth.RequireRole("mother"))
	own.POST("/register", h.Register)
	own.GET("/mine", h.ListMine)
	own.PUT("/screening/:childID", h.UpdateScreenings)
	own.PUT("/:childID", h.Update)
	own.DELETE("/:childID", h.Delete)

	read := api.Group("/child", auth.RequireRole("mother", "doctor"))
	read.GET("/:childID", h.Get)
}

type childRequest struct {
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Notes       string `json:"notes"`
}

func (req *childRequest) toChild() (*Child, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, apperr.Validationf("date_of_birth must be YYYY-MM-DD")
	}
	return &Child{
		FullName:    req.FullName,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Notes:       req.Notes,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func callerID(c echo.Context) (uuid.UUID, error) {
	uid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return uid, nil
}

func (h *Handler) Register(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	var req childRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ch, err := req.toChild()
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	created, err := h.svc.Register(c.Request().Context(), uid, ch)
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
	childID, err := uuid.Parse(c.Param("childID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid child id")
	}
	role := auth.RoleFromContext(c.Request().Context())
	ch, err := h.svc.Get(c.Request().Context(), uid, role, childID)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *Handler) ListMine(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListByMother(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	if items == nil {
		items = []*Child{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Update(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	childID, err := uuid.Parse(c.Param("childID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid child id")
	}
	var req childRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ch, err := req.toChild()
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	updated, err := h.svc.Update(c.Request().Context(), uid, childID, ch)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) UpdateScreenings(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	childID, err := uuid.Parse(c.Param("childID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid child id")
	}
	var screenings map[string]ScreeningResult
	if err := c.Bind(&screenings); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.UpdateScreenings(c.Request().Context(), uid, childID, screenings)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	uid, err := callerID(c)
	if err != nil {
		return err
	}
	childID, err := uuid.Parse(c.Param("childID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid child id")
	}
	if err := h.svc.Delete(c.Request().Context(), uid, childID); err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), apperr.Message(err))
	}
	return c.NoContent(http.StatusNoContent)
}
