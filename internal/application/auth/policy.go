package auth

import (
	"github.com/jhoicas/erp-ledger/internal/application/ports"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

var _ ports.Authorizer = (*RolePolicy)(nil)

// RolePolicy autorización por rol: acción -> roles permitidos. admin puede todo.
type RolePolicy struct {
	allowed map[string]map[string]bool
}

// NewRolePolicy construye la política por defecto.
func NewRolePolicy() *RolePolicy {
	p := &RolePolicy{allowed: map[string]map[string]bool{}}
	p.Allow(ports.ActionRecordMovement, entity.RoleBodeguero)
	p.Allow(ports.ActionSetThresholds, entity.RoleBodeguero)
	p.Allow(ports.ActionManageOrder, entity.RoleVendedor)
	p.Allow(ports.ActionAdvanceOrder, entity.RoleVendedor, entity.RoleBodeguero)
	p.Allow(ports.ActionCancelOrder, entity.RoleVendedor)
	p.Allow(ports.ActionIssueInvoice, entity.RoleFinanzas, entity.RoleVendedor)
	p.Allow(ports.ActionRegisterPayment, entity.RoleFinanzas)
	p.Allow(ports.ActionCancelInvoice, entity.RoleFinanzas)
	p.Allow(ports.ActionManageAccount, entity.RoleFinanzas)
	p.Allow(ports.ActionSettleAccount, entity.RoleFinanzas)
	return p
}

// Allow agrega roles a una acción.
func (p *RolePolicy) Allow(action string, roles ...string) {
	set, ok := p.allowed[action]
	if !ok {
		set = map[string]bool{}
		p.allowed[action] = set
	}
	for _, r := range roles {
		set[r] = true
	}
}

// Authorize nil si el rol del actor puede ejecutar la acción.
func (p *RolePolicy) Authorize(actor entity.Actor, action string) error {
	if actor.Role == entity.RoleAdmin {
		return nil
	}
	if p.allowed[action][actor.Role] {
		return nil
	}
	return domain.Permission(action)
}
