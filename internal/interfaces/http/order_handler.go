package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/application/sales"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// OrderHandler maneja pedidos, líneas y transiciones de estado (protegido).
type OrderHandler struct {
	uc *sales.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *sales.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido (pending, sin líneas)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "customer_id, payment_method, discount, freight"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(&in); err != nil {
		return writeError(c, err)
	}
	o, err := h.uc.CreateOrder(c.UserContext(), Actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sales.ToOrderResponse(o))
}

// GetByID godoc
// @Summary      Pedido con líneas y totales
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.uc.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sales.ToOrderResponse(o))
}

// ListByCustomer godoc
// @Summary      Pedidos de un cliente, más recientes primero
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query  string  true   "ID del cliente"
// @Param        limit        query  int     false  "1..100"
// @Param        offset       query  int     false  ">= 0"
// @Success      200  {array}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) ListByCustomer(c *fiber.Ctx) error {
	customerID := c.Query("customer_id")
	if customerID == "" {
		return writeError(c, domain.Validation("customer_id", "requerido"))
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	orders, err := h.uc.ListByCustomer(c.UserContext(), customerID, page)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, sales.ToOrderResponse(o))
	}
	return c.JSON(out)
}

// AddLine godoc
// @Summary      Agregar línea (solo pedidos pending)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del pedido"
// @Param        body  body  dto.OrderLineRequest  true  "product_id, quantity, unit_price (0 = precio de venta), discount"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/lines [post]
func (h *OrderHandler) AddLine(c *fiber.Ctx) error {
	var in dto.OrderLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(&in); err != nil {
		return writeError(c, err)
	}
	orderID := c.Params("id")
	if _, err := h.uc.AddLine(c.UserContext(), Actor(c), orderID, in); err != nil {
		return writeError(c, err)
	}
	o, err := h.uc.GetOrder(c.UserContext(), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sales.ToOrderResponse(o))
}

// UpdateLine godoc
// @Summary      Reemplazar una línea (solo pedidos pending)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                true  "ID del pedido"
// @Param        lineID  path  string                true  "ID de la línea"
// @Param        body    body  dto.OrderLineRequest  true  "línea completa"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/lines/{lineID} [put]
func (h *OrderHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.OrderLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(&in); err != nil {
		return writeError(c, err)
	}
	o, err := h.uc.UpdateLine(c.UserContext(), Actor(c), c.Params("id"), c.Params("lineID"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sales.ToOrderResponse(o))
}

// RemoveLine godoc
// @Summary      Quitar una línea (solo pedidos pending)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID del pedido"
// @Param        lineID  path  string  true  "ID de la línea"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/lines/{lineID} [delete]
func (h *OrderHandler) RemoveLine(c *fiber.Ctx) error {
	o, err := h.uc.RemoveLine(c.UserContext(), Actor(c), c.Params("id"), c.Params("lineID"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sales.ToOrderResponse(o))
}

// SetCharges godoc
// @Summary      Fijar descuento y flete del pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del pedido"
// @Param        body  body  dto.SetChargesRequest  true  "discount, freight"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/charges [put]
func (h *OrderHandler) SetCharges(c *fiber.Ctx) error {
	var in dto.SetChargesRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	o, err := h.uc.SetCharges(c.UserContext(), Actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sales.ToOrderResponse(o))
}

type orderTransition func(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error)

// Transition godoc
// @Summary      Avanzar o cancelar el pedido
// @Description  confirm: pending→confirmed; pick: confirmed→picking; ship: picking→shipped;
//
//	deliver: shipped→delivered; cancel: desde cualquier estado no terminal.
//
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/confirm [post]
// @Router       /api/orders/{id}/pick [post]
// @Router       /api/orders/{id}/ship [post]
// @Router       /api/orders/{id}/deliver [post]
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Transition(fn orderTransition) fiber.Handler {
	return func(c *fiber.Ctx) error {
		o, err := fn(c.UserContext(), Actor(c), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(sales.ToOrderResponse(o))
	}
}
