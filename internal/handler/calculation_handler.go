package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"calcapi/internal/auth"
	"calcapi/internal/calc"
	"calcapi/internal/errors"
	"calcapi/internal/service"
)

// CalculationHandler handles calculation CRUD endpoints. All routes run
// behind the bearer-token middleware, so a user record is always available.
type CalculationHandler struct {
	calcService service.CalculationService
}

// NewCalculationHandler creates a new calculation handler.
func NewCalculationHandler(calcService service.CalculationService) *CalculationHandler {
	return &CalculationHandler{calcService: calcService}
}

// CalculationRequest represents a calculation creation request. Operand count
// and type tag are validated by the factory so its messages reach the client.
type CalculationRequest struct {
	Type   string    `json:"type" validate:"required"`
	Inputs []float64 `json:"inputs" validate:"required"`
}

// CalculationUpdateRequest represents an operand replacement request.
type CalculationUpdateRequest struct {
	Inputs []float64 `json:"inputs" validate:"required"`
}

func parseCalculationID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "Invalid calculation id format",
			Code:  "INVALID_ID",
		})
	}
	return id, nil
}

// calculationError translates service and factory failures. Factory
// rejections carry user-facing messages; anything else falls through to the
// shared domain mapping.
func calculationError(err error) *echo.HTTPError {
	var ve calc.ValidationError
	if stderrors.As(err, &ve) {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: ve.Error(),
			Code:  "INVALID_CALCULATION",
		})
	}
	he := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

// Create godoc
// @Summary Create a calculation
// @Tags calculations
// @Accept json
// @Produce json
// @Param request body CalculationRequest true "Calculation data"
// @Success 201 {object} model.Calculation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /calculations [post]
func (h *CalculationHandler) Create(c echo.Context) error {
	var req CalculationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := auth.CurrentUser(c)
	record, err := h.calcService.Create(c.Request().Context(), user.ID, req.Type, req.Inputs)
	if err != nil {
		return calculationError(err)
	}

	return c.JSON(http.StatusCreated, record)
}

// List godoc
// @Summary List the caller's calculations
// @Tags calculations
// @Produce json
// @Success 200 {array} model.Calculation
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /calculations [get]
func (h *CalculationHandler) List(c echo.Context) error {
	user := auth.CurrentUser(c)
	records, err := h.calcService.List(c.Request().Context(), user.ID)
	if err != nil {
		return calculationError(err)
	}
	return c.JSON(http.StatusOK, records)
}

// Get godoc
// @Summary Get one calculation
// @Tags calculations
// @Produce json
// @Param id path string true "Calculation ID"
// @Success 200 {object} model.Calculation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /calculations/{id} [get]
func (h *CalculationHandler) Get(c echo.Context) error {
	id, err := parseCalculationID(c)
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	record, err := h.calcService.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		return calculationError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// Update godoc
// @Summary Replace a calculation's operands and recompute
// @Tags calculations
// @Accept json
// @Produce json
// @Param id path string true "Calculation ID"
// @Param request body CalculationUpdateRequest true "New operands"
// @Success 200 {object} model.Calculation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /calculations/{id} [put]
func (h *CalculationHandler) Update(c echo.Context) error {
	id, err := parseCalculationID(c)
	if err != nil {
		return err
	}

	var req CalculationUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := auth.CurrentUser(c)
	record, err := h.calcService.Update(c.Request().Context(), user.ID, id, req.Inputs)
	if err != nil {
		return calculationError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// Delete godoc
// @Summary Delete a calculation
// @Tags calculations
// @Param id path string true "Calculation ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /calculations/{id} [delete]
func (h *CalculationHandler) Delete(c echo.Context) error {
	id, err := parseCalculationID(c)
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	if err := h.calcService.Delete(c.Request().Context(), user.ID, id); err != nil {
		return calculationError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
