package billing

import (
	"time"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// ToInvoiceResponse mapea la factura; los días al vencimiento se calculan contra today.
func ToInvoiceResponse(inv *entity.Invoice, today time.Time) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		OrderID:       inv.OrderID,
		Status:        string(inv.Status),
		Total:         inv.Total,
		PaidAmount:    inv.PaidAmount,
		Balance:       inv.Balance(),
		PaymentMethod: string(inv.PaymentMethod),
		IssueDate:     inv.IssueDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		DaysUntilDue:  inv.DaysUntilDue(today),
		PaidDate:      inv.PaidDate,
		Notes:         inv.Notes,
	}
}

// ToAccountResponse mapea una cuenta.
func ToAccountResponse(a *entity.Account, today time.Time) dto.AccountResponse {
	return dto.AccountResponse{
		ID:             a.ID,
		Kind:           string(a.Kind),
		CounterpartyID: a.CounterpartyID,
		InvoiceID:      a.InvoiceID,
		Description:    a.Description,
		Amount:         a.Amount,
		PaidAmount:     a.PaidAmount,
		Interest:       a.Interest,
		Fine:           a.Fine,
		Discount:       a.Discount,
		Category:       string(a.Category),
		DocumentNumber: a.DocumentNumber,
		PaymentMethod:  string(a.PaymentMethod),
		Status:         string(a.Status),
		DueDate:        a.DueDate.Format(dateLayout),
		DaysUntilDue:   a.DaysUntilDue(today),
		PaidDate:       a.PaidDate,
		Notes:          a.Notes,
	}
}
