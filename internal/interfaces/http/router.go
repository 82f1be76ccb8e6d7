package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-ledger/internal/application/billing"
	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/application/numbering"
	"github.com/jhoicas/erp-ledger/internal/application/sales"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger        *inventory.LedgerUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Orders        *sales.OrderUseCase
	Invoices      *billing.InvoiceUseCase
	Accounts      *billing.AccountUseCase
	InvoicePDF    *billing.PDFUseCase
	Numbering     *numbering.Authority
	JWTSecret     string
	JWTIssuer     string
}

// Router registra las rutas de la API. Todas bajo /api requieren Bearer Token con rol;
// la autorización fina por acción la aplican los casos de uso.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api",
		AuthMiddleware(deps.JWTSecret, deps.JWTIssuer),
		RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor, entity.RoleFinanzas),
	)

	// Stock
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Ledger, deps.Replenishment)
	stock.Post("/movements", stockHandler.RecordMovement)
	stock.Get("/restock", stockHandler.ListRestock)
	stock.Get("/:productID", stockHandler.GetStock)
	stock.Put("/:productID/thresholds", stockHandler.SetThresholds)
	stock.Get("/:productID/movements", stockHandler.ListMovements)

	// Pedidos
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.Orders)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.ListByCustomer)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/lines", orderHandler.AddLine)
	orders.Put("/:id/lines/:lineID", orderHandler.UpdateLine)
	orders.Delete("/:id/lines/:lineID", orderHandler.RemoveLine)
	orders.Put("/:id/charges", orderHandler.SetCharges)
	orders.Post("/:id/confirm", orderHandler.Transition(deps.Orders.Confirm))
	orders.Post("/:id/pick", orderHandler.Transition(deps.Orders.StartPicking))
	orders.Post("/:id/ship", orderHandler.Transition(deps.Orders.Ship))
	orders.Post("/:id/deliver", orderHandler.Transition(deps.Orders.Deliver))
	orders.Post("/:id/cancel", orderHandler.Transition(deps.Orders.Cancel))

	// Facturas
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.InvoicePDF)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/overdue", invoiceHandler.ListOverdue)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Post("/:id/payments", invoiceHandler.RegisterPayment)
	invoices.Post("/:id/recheck", invoiceHandler.Recheck)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)

	// Cuentas por cobrar
	receivables := api.Group("/receivables")
	recHandler := NewAccountHandler(deps.Accounts, entity.AccountReceivable)
	receivables.Post("/", recHandler.Create)
	receivables.Post("/from-invoice/:invoiceID", recHandler.CreateFromInvoice)
	receivables.Get("/overdue", recHandler.ListOverdue)
	receivables.Get("/:id", recHandler.GetByID)
	receivables.Post("/:id/settle", recHandler.Settle)
	receivables.Post("/:id/cancel", recHandler.Cancel)
	receivables.Post("/:id/recheck", recHandler.Recheck)

	// Cuentas por pagar
	payables := api.Group("/payables")
	payHandler := NewAccountHandler(deps.Accounts, entity.AccountPayable)
	payables.Post("/", payHandler.Create)
	payables.Get("/overdue", payHandler.ListOverdue)
	payables.Get("/:id", payHandler.GetByID)
	payables.Post("/:id/settle", payHandler.Settle)
	payables.Post("/:id/cancel", payHandler.Cancel)
	payables.Post("/:id/recheck", payHandler.Recheck)

	// Numeración (admin)
	numberingHandler := NewNumberingHandler(deps.Numbering)
	api.Post("/numbering/:docType/next", RequireRole(entity.RoleAdmin), numberingHandler.Next)
}
