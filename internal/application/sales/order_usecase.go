package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/application/numbering"
	"github.com/jhoicas/erp-ledger/internal/application/ports"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

// StockLedger aplica movimientos dentro de una transacción ajena.
type StockLedger interface {
	ApplyInTx(ctx context.Context, r repository.Repos, actor entity.Actor, in inventory.MovementInput) (*entity.Movement, error)
}

// OrderUseCase pedidos: líneas, recálculo de totales y máquina de estados.
// Toda mutación de líneas o cargos recalcula los totales en la misma transacción,
// con la cabecera del pedido bloqueada.
type OrderUseCase struct {
	txRunner   ports.TxRunner
	repos      repository.Repos
	numbers    *numbering.Authority
	ledger     StockLedger
	authorizer ports.Authorizer
	log        *logger.Logger
	now        func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner ports.TxRunner,
	repos repository.Repos,
	numbers *numbering.Authority,
	authorizer ports.Authorizer,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:   txRunner,
		repos:      repos,
		numbers:    numbers,
		authorizer: authorizer,
		log:        log.Component("orders"),
		now:        time.Now,
	}
}

// WithStockLedger activa el descuento de stock al despachar (y la devolución al cancelar un despachado).
func (uc *OrderUseCase) WithStockLedger(l StockLedger) *OrderUseCase {
	uc.ledger = l
	return uc
}

// CreateOrder crea un pedido vacío en estado pending y le asigna número en la misma transacción.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, actor entity.Actor, in dto.CreateOrderRequest) (*entity.Order, error) {
	if err := ports.Authorize(uc.authorizer, actor, ports.ActionManageOrder); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	if in.CustomerID == "" {
		fields["customer_id"] = "requerido"
	}
	if !entity.PaymentMethod(in.PaymentMethod).Valid() {
		fields["payment_method"] = "forma de pago desconocida"
	}
	chargeErrors(fields, in.Discount, in.Freight)
	if len(fields) > 0 {
		return nil, domain.ValidationFields(fields)
	}

	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		customer, err := r.Parties.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil || customer.Kind != entity.PartyClient {
			return domain.NotFound("cliente", in.CustomerID)
		}
		now := uc.now()
		number, err := uc.numbers.Issue(ctx, r.Sequences, numbering.DocOrder, now)
		if err != nil {
			return err
		}
		o := &entity.Order{
			ID:               uuid.New().String(),
			Number:           number,
			CustomerID:       in.CustomerID,
			SellerID:         actor.ID,
			Status:           entity.OrderPending,
			Discount:         in.Discount,
			Freight:          in.Freight,
			PaymentMethod:    entity.PaymentMethod(in.PaymentMethod),
			Notes:            in.Notes,
			ExpectedDelivery: in.ExpectedDelivery,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		o.RecomputeTotals()
		if err := r.Orders.Create(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("number", order.Number).Msg("pedido creado")
	return order, nil
}

// AddLine agrega una línea y recalcula los totales.
func (uc *OrderUseCase) AddLine(ctx context.Context, actor entity.Actor, orderID string, in dto.OrderLineRequest) (*entity.OrderLine, error) {
	var added *entity.OrderLine
	_, err := uc.mutate(ctx, actor, orderID, func(ctx context.Context, r repository.Repos, o *entity.Order) error {
		line := entity.OrderLine{
			ID:       uuid.New().String(),
			OrderID:  o.ID,
			Position: o.NextPosition(),
		}
		if err := uc.fillLine(ctx, r, &line, in); err != nil {
			return err
		}
		if err := r.Orders.CreateLine(ctx, &line); err != nil {
			return err
		}
		o.Lines = append(o.Lines, line)
		added = &line
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// UpdateLine reemplaza producto, cantidad, precio y descuento de una línea.
func (uc *OrderUseCase) UpdateLine(ctx context.Context, actor entity.Actor, orderID, lineID string, in dto.OrderLineRequest) (*entity.Order, error) {
	return uc.mutate(ctx, actor, orderID, func(ctx context.Context, r repository.Repos, o *entity.Order) error {
		line, ok := o.Line(lineID)
		if !ok {
			return domain.NotFound("línea", lineID)
		}
		if err := uc.fillLine(ctx, r, line, in); err != nil {
			return err
		}
		return r.Orders.UpdateLine(ctx, line)
	})
}

// RemoveLine elimina una línea y recalcula.
func (uc *OrderUseCase) RemoveLine(ctx context.Context, actor entity.Actor, orderID, lineID string) (*entity.Order, error) {
	return uc.mutate(ctx, actor, orderID, func(ctx context.Context, r repository.Repos, o *entity.Order) error {
		idx := -1
		for i := range o.Lines {
			if o.Lines[i].ID == lineID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.NotFound("línea", lineID)
		}
		if err := r.Orders.DeleteLine(ctx, o.ID, lineID); err != nil {
			return err
		}
		o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
		return nil
	})
}

// SetCharges fija descuento y flete del pedido.
func (uc *OrderUseCase) SetCharges(ctx context.Context, actor entity.Actor, orderID string, in dto.SetChargesRequest) (*entity.Order, error) {
	fields := map[string]string{}
	chargeErrors(fields, in.Discount, in.Freight)
	if len(fields) > 0 {
		return nil, domain.ValidationFields(fields)
	}
	return uc.mutate(ctx, actor, orderID, func(_ context.Context, _ repository.Repos, o *entity.Order) error {
		o.Discount = in.Discount
		o.Freight = in.Freight
		return nil
	})
}

// RecomputeTotals recalcula y persiste los totales del pedido a partir de sus líneas.
func (uc *OrderUseCase) RecomputeTotals(ctx context.Context, orderID string) (*entity.Order, error) {
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		o, err := lockOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		o.RecomputeTotals()
		o.UpdatedAt = uc.now()
		if err := r.Orders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	return order, err
}

// mutate bloquea el pedido, exige estado pending, aplica fn y recalcula totales antes del commit.
func (uc *OrderUseCase) mutate(
	ctx context.Context,
	actor entity.Actor,
	orderID string,
	fn func(ctx context.Context, r repository.Repos, o *entity.Order) error,
) (*entity.Order, error) {
	if err := ports.Authorize(uc.authorizer, actor, ports.ActionManageOrder); err != nil {
		return nil, err
	}
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		o, err := lockOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if o.Status != entity.OrderPending {
			return domain.StateTransition("el pedido %s está %s; solo se modifican pedidos pendientes", o.Number, o.Status)
		}
		if err := fn(ctx, r, o); err != nil {
			return err
		}
		o.RecomputeTotals()
		o.UpdatedAt = uc.now()
		if err := r.Orders.Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("order_id", order.ID).Str("total", order.Total.String()).Msg("totales recalculados")
	return order, nil
}

// fillLine valida la entrada y completa la línea; precio 0 toma el precio de venta del producto.
func (uc *OrderUseCase) fillLine(ctx context.Context, r repository.Repos, line *entity.OrderLine, in dto.OrderLineRequest) error {
	fields := map[string]string{}
	if in.ProductID == "" {
		fields["product_id"] = "requerido"
	}
	if in.Quantity <= 0 {
		fields["quantity"] = "debe ser mayor que cero"
	}
	if in.UnitPrice.IsNegative() {
		fields["unit_price"] = "no puede ser negativo"
	}
	if in.Discount.IsNegative() {
		fields["discount"] = "no puede ser negativo"
	}
	domain.CheckMoney(fields, "unit_price", in.UnitPrice)
	domain.CheckMoney(fields, "discount", in.Discount)
	if len(fields) > 0 {
		return domain.ValidationFields(fields)
	}
	product, err := r.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NotFound("producto", in.ProductID)
	}
	if !product.Active {
		return domain.Validation("product_id", "producto inactivo")
	}
	price := in.UnitPrice
	if price.IsZero() {
		price = product.SalePrice
	}
	line.ProductID = in.ProductID
	line.Qty = in.Quantity
	line.UnitPrice = price
	line.Discount = in.Discount
	if line.Discount.GreaterThan(line.Gross()) {
		return domain.Validation("discount", "mayor que cantidad por precio")
	}
	line.ComputeTotal()
	return nil
}

func chargeErrors(fields map[string]string, discount, freight decimal.Decimal) {
	if discount.IsNegative() {
		fields["discount"] = "no puede ser negativo"
	}
	if freight.IsNegative() {
		fields["freight"] = "no puede ser negativo"
	}
	domain.CheckMoney(fields, "discount", discount)
	domain.CheckMoney(fields, "freight", freight)
}

func lockOrder(ctx context.Context, r repository.Repos, orderID string) (*entity.Order, error) {
	o, err := r.Orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("pedido", orderID)
	}
	return o, nil
}

// GetOrder pedido con sus líneas.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	o, err := uc.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("pedido", id)
	}
	return o, nil
}

// ListByCustomer pedidos de un cliente, más recientes primero.
func (uc *OrderUseCase) ListByCustomer(ctx context.Context, customerID string, page dto.PageRequest) ([]*entity.Order, error) {
	if customerID == "" {
		return nil, domain.Validation("customer_id", "requerido")
	}
	page.DefaultPage()
	return uc.repos.Orders.ListByCustomer(ctx, customerID, page.Limit, page.Offset)
}
