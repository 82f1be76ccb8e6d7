package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAverageCost(t *testing.T) {
	d := decimal.RequireFromString
	tests := []struct {
		name         string
		stock, inQty int64
		cost, inCost string
		want         string
	}{
		{"sin existencia toma el costo de entrada", 0, 10, "0", "5", "5"},
		{"mezcla ponderada", 10, 10, "2", "4", "3"},
		{"redondeo a 4 decimales", 2, 1, "1", "2", "1.3333"},
		{"nada que promediar", 0, 0, "7", "9", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AverageCost(tt.stock, d(tt.cost), tt.inQty, d(tt.inCost))
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}
}
