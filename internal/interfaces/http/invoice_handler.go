package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-ledger/internal/application/billing"
	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// InvoiceHandler maneja facturación, pagos y PDF (protegido).
type InvoiceHandler struct {
	uc  *billing.InvoiceUseCase
	pdf *billing.PDFUseCase
	now func() time.Time
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdf: pdf, now: time.Now}
}

func (h *InvoiceHandler) respond(c *fiber.Ctx, status int, inv *entity.Invoice) error {
	return c.Status(status).JSON(billing.ToInvoiceResponse(inv, h.now()))
}

// Create godoc
// @Summary      Emitir factura de un pedido (una por pedido)
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "order_id, due_date, payment_method (opcional)"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateStruct(&in); err != nil {
		return writeError(c, err)
	}
	inv, err := h.uc.CreateInvoice(c.UserContext(), Actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, fiber.StatusCreated, inv)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.uc.GetInvoice(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, fiber.StatusOK, inv)
}

// ListOverdue godoc
// @Summary      Facturas pendientes o vencidas con vencimiento anterior a as_of
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        as_of  query  string  false  "AAAA-MM-DD o RFC3339; por defecto hoy"
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/invoices/overdue [get]
func (h *InvoiceHandler) ListOverdue(c *fiber.Ctx) error {
	asOf, err := queryTime(c, "as_of")
	if err != nil {
		return writeError(c, err)
	}
	at := h.now()
	if asOf != nil {
		at = *asOf
	}
	list, err := h.uc.ListOverdue(c.UserContext(), at)
	if err != nil {
		return writeError(c, err)
	}
	today := h.now()
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, billing.ToInvoiceResponse(inv, today))
	}
	return c.JSON(out)
}

// RegisterPayment godoc
// @Summary      Registrar un pago parcial o total
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la factura"
// @Param        body  body  dto.RegisterPaymentRequest  true  "amount > 0, sin exceder el saldo"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments [post]
func (h *InvoiceHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.RegisterPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	inv, err := h.uc.RegisterPayment(c.UserContext(), Actor(c), c.Params("id"), in.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, fiber.StatusOK, inv)
}

// Recheck godoc
// @Summary      Recalcular vencimiento de la factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/recheck [post]
func (h *InvoiceHandler) Recheck(c *fiber.Ctx) error {
	inv, err := h.uc.Recheck(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, fiber.StatusOK, inv)
}

// Cancel godoc
// @Summary      Anular factura pendiente o vencida
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	inv, err := h.uc.Cancel(c.UserContext(), Actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, fiber.StatusOK, inv)
}

// DownloadPDF godoc
// @Summary      Descargar la factura en PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.InvoicePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
