package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-ledger/internal/application/billing"
	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// AccountHandler cuentas por cobrar o por pagar; una instancia por tipo.
type AccountHandler struct {
	uc   *billing.AccountUseCase
	kind entity.AccountKind
	now  func() time.Time
}

// NewAccountHandler construye el handler para kind (receivable o payable).
func NewAccountHandler(uc *billing.AccountUseCase, kind entity.AccountKind) *AccountHandler {
	return &AccountHandler{uc: uc, kind: kind, now: time.Now}
}

func (h *AccountHandler) respond(c *fiber.Ctx, status int, a *entity.Account) error {
	return c.Status(status).JSON(billing.ToAccountResponse(a, h.now()))
}

// Create godoc
// @Summary      Crear cuenta por cobrar / por pagar
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceivableRequest  true  "en /api/payables el body es dto.CreatePayableRequest"
// @Success      201   {object}  dto.AccountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/receivables [post]
// @Router       /api/payables [post]
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var (
		acc *entity.Account
		err error
	)
	if h.kind == entity.AccountPayable {
		var in dto.CreatePayableRequest
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		if err := validateStruct(&in); err != nil {
			return writeError(c, err)
		}
		acc, err = h.uc.CreatePayable(c.UserContext(), Actor(c), in)
	} else {
		var in dto.CreateReceivableRequest
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		if err := validateStruct(&in); err != nil {
			return writeError(c, err)
		}
		acc, err = h.uc.CreateReceivable(c.UserContext(), Actor(c), in)
	}
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, fiber.StatusCreated, acc)
}

// CreateFromInvoice godoc
// @Summary      Cuenta por cobrar por el saldo de una factura
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        invoiceID  path  string  true  "ID de la factura"
// @Success      201  {object}  dto.AccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receivables/from-invoice/{invoiceID} [post]
func (h *AccountHandler) CreateFromInvoice(c *fiber.Ctx) error {
	acc, err := h.uc.CreateReceivableFromInvoice(c.UserContext(), Actor(c), c.Params("invoiceID"))
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, fiber.StatusCreated, acc)
}

// GetByID godoc
// @Summary      Obtener cuenta
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.AccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receivables/{id} [get]
// @Router       /api/payables/{id} [get]
func (h *AccountHandler) GetByID(c *fiber.Ctx) error {
	acc, err := h.uc.GetAccount(c.UserContext(), h.kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, fiber.StatusOK, acc)
}

// Settle godoc
// @Summary      Liquidar cuenta (una sola vez)
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID de la cuenta"
// @Param        body  body  dto.SettleRequest  false  "amount opcional; por defecto el valor nominal"
// @Success      200  {object}  dto.AccountResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receivables/{id}/settle [post]
// @Router       /api/payables/{id}/settle [post]
func (h *AccountHandler) Settle(c *fiber.Ctx) error {
	var in dto.SettleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	var (
		acc *entity.Account
		err error
	)
	if h.kind == entity.AccountPayable {
		acc, err = h.uc.SettlePayable(c.UserContext(), Actor(c), c.Params("id"), in.Amount)
	} else {
		acc, err = h.uc.SettleReceivable(c.UserContext(), Actor(c), c.Params("id"), in.Amount)
	}
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, fiber.StatusOK, acc)
}

// Cancel godoc
// @Summary      Cancelar cuenta abierta o vencida
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.AccountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receivables/{id}/cancel [post]
// @Router       /api/payables/{id}/cancel [post]
func (h *AccountHandler) Cancel(c *fiber.Ctx) error {
	acc, err := h.uc.Cancel(c.UserContext(), Actor(c), h.kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, fiber.StatusOK, acc)
}

// Recheck godoc
// @Summary      Recalcular vencimiento de la cuenta
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.AccountResponse
// @Router       /api/receivables/{id}/recheck [post]
// @Router       /api/payables/{id}/recheck [post]
func (h *AccountHandler) Recheck(c *fiber.Ctx) error {
	acc, err := h.uc.Recheck(c.UserContext(), h.kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, fiber.StatusOK, acc)
}

// ListOverdue godoc
// @Summary      Cuentas abiertas o vencidas con vencimiento anterior a as_of
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        as_of  query  string  false  "AAAA-MM-DD o RFC3339; por defecto hoy"
// @Success      200  {array}  dto.AccountResponse
// @Router       /api/receivables/overdue [get]
// @Router       /api/payables/overdue [get]
func (h *AccountHandler) ListOverdue(c *fiber.Ctx) error {
	asOf, err := queryTime(c, "as_of")
	if err != nil {
		return writeError(c, err)
	}
	at := h.now()
	if asOf != nil {
		at = *asOf
	}
	list, err := h.uc.ListOverdue(c.UserContext(), h.kind, at)
	if err != nil {
		return writeError(c, err)
	}
	today := h.now()
	out := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, billing.ToAccountResponse(a, today))
	}
	return c.JSON(out)
}
