package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCheckMoney(t *testing.T) {
	d := decimal.RequireFromString
	fields := map[string]string{}
	CheckMoney(fields, "a", d("10.01"))
	CheckMoney(fields, "b", d("10.500"))
	CheckMoney(fields, "c", d("10"))
	assert.Empty(t, fields, "ceros a la derecha no cuentan")

	CheckMoney(fields, "unit_price", d("10.005"))
	assert.Equal(t, "máximo 2 decimales", fields["unit_price"])

	fields = map[string]string{"discount": "no puede ser negativo"}
	CheckMoney(fields, "discount", d("-0.001"))
	assert.Equal(t, "no puede ser negativo", fields["discount"])

	assert.True(t, HasScale(d("3.3333"), CostScale))
	assert.False(t, HasScale(d("3.33333"), CostScale))
}
