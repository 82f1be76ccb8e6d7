package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-ledger/internal/application/auth"
	"github.com/jhoicas/erp-ledger/internal/application/ports"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

func TestRolePolicy_AdminPuedeTodo(t *testing.T) {
	p := auth.NewRolePolicy()
	admin := entity.Actor{ID: "u1", Role: entity.RoleAdmin}
	assert.NoError(t, p.Authorize(admin, ports.ActionIssueNumber))
	assert.NoError(t, p.Authorize(admin, ports.ActionSettleAccount))
}

func TestRolePolicy_BodegueroNoLiquida(t *testing.T) {
	p := auth.NewRolePolicy()
	b := entity.Actor{ID: "u2", Role: entity.RoleBodeguero}
	assert.NoError(t, p.Authorize(b, ports.ActionRecordMovement))
	assert.ErrorIs(t, p.Authorize(b, ports.ActionSettleAccount), domain.ErrPermission)
}

func TestRolePolicy_RolVacioDenegado(t *testing.T) {
	p := auth.NewRolePolicy()
	assert.ErrorIs(t, p.Authorize(entity.Actor{ID: "u3"}, ports.ActionManageOrder), domain.ErrPermission)
}

func TestAuthorize_SinAuthorizerPermite(t *testing.T) {
	assert.NoError(t, ports.Authorize(nil, entity.Actor{}, ports.ActionIssueInvoice))
}
