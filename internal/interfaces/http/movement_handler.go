package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DanielMoranV/master-color-app/internal/application/dto"
	"github.com/DanielMoranV/master-color-app/internal/application/stock"
)

// MovementHandler maneja las peticiones HTTP de movimientos de stock (protegido).
// No hay rutas de edición ni borrado: los movimientos son inmutables.
type MovementHandler struct {
	uc *stock.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *stock.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar movimiento de stock
// @Description  Aplica el delta sobre el stock y guarda el movimiento en una sola transacción.
// @Tags         stock-movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "stock_id, movement_type, quantity, reason, unit_price"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movement, updated, err := h.uc.RegisterMovement(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movement": movement, "stock": updated})
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetMovement(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        stock_id       query  string  false  "Filtrar por stock"
// @Param        movement_type  query  string  false  "Entrada|Salida|Ajuste|Devolucion"
// @Param        from_date      query  string  false  "YYYY-MM-DD"
// @Param        to_date        query  string  false  "YYYY-MM-DD"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	list, err := h.uc.ListMovements(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "movements": list})
}

// Report godoc
// @Summary      Reporte de movimientos por tipo
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        from_date  query  string  true   "YYYY-MM-DD"
// @Param        to_date    query  string  true   "YYYY-MM-DD"
// @Param        stock_id   query  string  false  "Filtrar por stock"
// @Success      200  {object}  dto.MovementReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-movements/report [get]
func (h *MovementHandler) Report(c *fiber.Ctx) error {
	var in dto.MovementReportRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	resp, err := h.uc.Report(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
