package lifecycle

import "github.com/jhoicas/erp-ledger/internal/domain/entity"

// Eventos de pedido.
const (
	OrderConfirm      Event = "confirm"
	OrderStartPicking Event = "start_picking"
	OrderShip         Event = "ship"
	OrderDeliver      Event = "deliver"
	OrderCancel       Event = "cancel"
)

// Orders máquina de estados del pedido. cancel se permite desde cualquier estado no terminal.
var Orders = newMachine("pedido", map[entity.OrderStatus]map[Event]entity.OrderStatus{
	entity.OrderPending: {
		OrderConfirm: entity.OrderConfirmed,
		OrderCancel:  entity.OrderCanceled,
	},
	entity.OrderConfirmed: {
		OrderStartPicking: entity.OrderPicking,
		OrderCancel:       entity.OrderCanceled,
	},
	entity.OrderPicking: {
		OrderShip:   entity.OrderShipped,
		OrderCancel: entity.OrderCanceled,
	},
	entity.OrderShipped: {
		OrderDeliver: entity.OrderDelivered,
		OrderCancel:  entity.OrderCanceled,
	},
}, entity.OrderDelivered, entity.OrderCanceled)
