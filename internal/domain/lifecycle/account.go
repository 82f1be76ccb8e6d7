package lifecycle

import (
	"time"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// Settle liquida una cuenta.
const Settle Event = "settle"

// Accounts máquina de estados de cuentas por cobrar y por pagar.
var Accounts = newMachine("cuenta", map[entity.AccountStatus]map[Event]entity.AccountStatus{
	entity.AccountOpen: {
		Settle: entity.AccountSettled,
		Age:    entity.AccountOverdue,
		Cancel: entity.AccountCanceled,
	},
	entity.AccountOverdue: {
		Settle: entity.AccountSettled,
		Cancel: entity.AccountCanceled,
	},
}, entity.AccountSettled, entity.AccountCanceled)

// DeriveAccountStatus envejece una cuenta abierta cuyo vencimiento ya pasó.
func DeriveAccountStatus(acc *entity.Account, today time.Time) (entity.AccountStatus, error) {
	if acc.Status == entity.AccountOpen && entity.Truncate(acc.DueDate).Before(entity.Truncate(today)) {
		return Accounts.Fire(acc.Status, Age)
	}
	return acc.Status, nil
}
