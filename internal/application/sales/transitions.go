package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/application/ports"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/lifecycle"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

// Confirm pending -> confirmed. El pedido debe tener al menos una línea.
func (uc *OrderUseCase) Confirm(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, actor, orderID, lifecycle.OrderConfirm, ports.ActionAdvanceOrder,
		func(_ context.Context, _ repository.Repos, o *entity.Order) error {
			if len(o.Lines) == 0 {
				return domain.Validation("lines", "el pedido no tiene líneas")
			}
			return nil
		})
}

// StartPicking confirmed -> picking.
func (uc *OrderUseCase) StartPicking(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, actor, orderID, lifecycle.OrderStartPicking, ports.ActionAdvanceOrder, nil)
}

// Ship picking -> shipped. Con ledger configurado descuenta el stock de cada línea.
func (uc *OrderUseCase) Ship(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, actor, orderID, lifecycle.OrderShip, ports.ActionAdvanceOrder,
		func(ctx context.Context, r repository.Repos, o *entity.Order) error {
			return uc.moveLines(ctx, r, actor, o, entity.DirectionOut, entity.ReasonSale)
		})
}

// Deliver shipped -> delivered; registra la fecha de entrega.
func (uc *OrderUseCase) Deliver(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, actor, orderID, lifecycle.OrderDeliver, ports.ActionAdvanceOrder,
		func(_ context.Context, _ repository.Repos, o *entity.Order) error {
			now := uc.now()
			o.DeliveredAt = &now
			return nil
		})
}

// Cancel desde cualquier estado salvo delivered/canceled. Un pedido ya despachado
// devuelve su stock si el ledger está configurado.
func (uc *OrderUseCase) Cancel(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, actor, orderID, lifecycle.OrderCancel, ports.ActionCancelOrder,
		func(ctx context.Context, r repository.Repos, o *entity.Order) error {
			if o.Status != entity.OrderShipped {
				return nil
			}
			return uc.moveLines(ctx, r, actor, o, entity.DirectionIn, entity.ReasonReturn)
		})
}

// transition valida el evento contra la tabla antes de cualquier escritura.
// guard corre con el pedido bloqueado y aún en el estado de origen.
func (uc *OrderUseCase) transition(
	ctx context.Context,
	actor entity.Actor,
	orderID string,
	ev lifecycle.Event,
	action string,
	guard func(ctx context.Context, r repository.Repos, o *entity.Order) error,
) (*entity.Order, error) {
	if err := ports.Authorize(uc.authorizer, actor, action); err != nil {
		return nil, err
	}
	var (
		order *entity.Order
		from  entity.OrderStatus
	)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		o, err := lockOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		from = o.Status
		to, err := lifecycle.Orders.Fire(o.Status, ev)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(ctx, r, o); err != nil {
				return err
			}
		}
		o.Status = to
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
	uc.log.Info().
		Str("order_id", order.ID).
		Str("from", string(from)).
		Str("to", string(order.Status)).
		Str("actor", actor.ID).
		Msg("cambio de estado de pedido")
	return order, nil
}

func (uc *OrderUseCase) moveLines(ctx context.Context, r repository.Repos, actor entity.Actor, o *entity.Order, dir entity.Direction, reason entity.MovementReason) error {
	if uc.ledger == nil {
		return nil
	}
	for _, l := range o.Lines {
		_, err := uc.ledger.ApplyInTx(ctx, r, actor, inventory.MovementInput{
			ProductID: l.ProductID,
			Direction: dir,
			Qty:       l.Qty,
			Reason:    reason,
			Notes:     fmt.Sprintf("pedido %s", o.Number),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
