package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/application/numbering"
)

// NumberingHandler emisión manual de números (solo admin).
type NumberingHandler struct {
	authority *numbering.Authority
	now       func() time.Time
}

// NewNumberingHandler construye el handler.
func NewNumberingHandler(authority *numbering.Authority) *NumberingHandler {
	return &NumberingHandler{authority: authority, now: time.Now}
}

// Next godoc
// @Summary      Emitir el siguiente número de un tipo de documento
// @Tags         numbering
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        docType  path  string                 true   "ORDER | INVOICE | otro tipo"
// @Param        body     body  dto.NextNumberRequest  false  "year, month; en cero toman el mes actual"
// @Success      201  {object}  dto.NumberResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/numbering/{docType}/next [post]
func (h *NumberingHandler) Next(c *fiber.Ctx) error {
	var in dto.NextNumberRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	now := h.now()
	if in.Year == 0 {
		in.Year = now.Year()
	}
	if in.Month == 0 {
		in.Month = int(now.Month())
	}
	docType := strings.ToUpper(c.Params("docType"))
	number, err := h.authority.NextNumber(c.UserContext(), Actor(c), docType, in.Year, in.Month)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NumberResponse{DocumentType: docType, Number: number})
}
