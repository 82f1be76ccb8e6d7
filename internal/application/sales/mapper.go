package sales

import (
	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// ToOrderResponse mapea el pedido a su DTO.
func ToOrderResponse(o *entity.Order) dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, ToLineResponse(&l))
	}
	return dto.OrderResponse{
		ID:               o.ID,
		Number:           o.Number,
		CustomerID:       o.CustomerID,
		SellerID:         o.SellerID,
		Status:           string(o.Status),
		PaymentMethod:    string(o.PaymentMethod),
		Lines:            lines,
		Subtotal:         o.Subtotal,
		Discount:         o.Discount,
		Freight:          o.Freight,
		Total:            o.Total,
		Notes:            o.Notes,
		ExpectedDelivery: o.ExpectedDelivery,
		DeliveredAt:      o.DeliveredAt,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// ToLineResponse mapea una línea.
func ToLineResponse(l *entity.OrderLine) dto.OrderLineResponse {
	return dto.OrderLineResponse{
		ID:        l.ID,
		ProductID: l.ProductID,
		Position:  l.Position,
		Quantity:  l.Qty,
		UnitPrice: l.UnitPrice,
		Discount:  l.Discount,
		LineTotal: l.LineTotal,
	}
}
