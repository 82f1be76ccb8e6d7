package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// StockHandler maneja movimientos, existencias y umbrales (protegido).
type StockHandler struct {
	ledger        *inventory.LedgerUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *inventory.LedgerUseCase, replenishment *inventory.ReplenishmentUseCase) *StockHandler {
	return &StockHandler{ledger: ledger, replenishment: replenishment}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, direction (in|out), quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(&in); err != nil {
		return writeError(c, err)
	}
	mov, err := h.ledger.RecordMovement(c.UserContext(), Actor(c), inventory.MovementInput{
		ProductID: in.ProductID,
		Direction: entity.Direction(in.Direction),
		Qty:       in.Quantity,
		Reason:    entity.MovementReason(in.Reason),
		Notes:     in.Notes,
		UnitCost:  in.UnitCost,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(mov))
}

// GetStock godoc
// @Summary      Existencia actual de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productID  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productID} [get]
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.ledger.GetStock(c.UserContext(), c.Params("productID"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetThresholds godoc
// @Summary      Fijar mínimo, máximo y ubicación
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productID  path  string                    true  "ID del producto"
// @Param        body       body  dto.SetThresholdsRequest  true  "min_qty, max_qty (0 = sin máximo), location"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{productID}/thresholds [put]
func (h *StockHandler) SetThresholds(c *fiber.Ctx) error {
	var in dto.SetThresholdsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(&in); err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.SetThresholds(c.UserContext(), Actor(c), c.Params("productID"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListRestock godoc
// @Summary      Productos en o bajo su mínimo, con cantidad sugerida
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RestockSuggestionDTO
// @Router       /api/stock/restock [get]
func (h *StockHandler) ListRestock(c *fiber.Ctx) error {
	list, err := h.replenishment.ListNeedsRestock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":    len(list),
		"products": list,
	})
}

// ListMovements godoc
// @Summary      Diario de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productID  path   string  true   "ID del producto"
// @Param        from       query  string  false  "RFC3339"
// @Param        to         query  string  false  "RFC3339"
// @Param        limit      query  int     false  "1..100"
// @Param        offset     query  int     false  ">= 0"
// @Success      200  {array}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/{productID}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.ledger.ListMovements(c.UserContext(), c.Params("productID"), from, to, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		if t, err = time.Parse("2006-01-02", raw); err != nil {
			return nil, domain.Validation(key, "fecha inválida, use RFC3339 o AAAA-MM-DD")
		}
	}
	return &t, nil
}

func pageFromQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, domain.Validation("limit", "paginación inválida")
	}
	page.DefaultPage()
	if err := validateStruct(&page); err != nil {
		return page, err
	}
	return page, nil
}
