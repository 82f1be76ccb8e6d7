package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

var admin = entity.Actor{ID: "seed", Role: entity.RoleAdmin}

func TestImportCatalog_CreaNuevosYOmiteExistentes(t *testing.T) {
	uc, store := setup(t, entity.StockRecord{ProductID: "p1", CurrentQty: 4})
	ctx := context.Background()

	res, err := uc.ImportCatalog(ctx, admin,
		[]entity.Product{
			{ID: "p1", Code: "SKU-1", Name: "Tornillo repetido", Active: true},
			{ID: "p9", Code: "SKU-9", Name: "Arandela", Active: true},
		},
		[]entity.Party{{ID: "c1", Kind: entity.PartyClient, Name: "Cliente", Active: true}},
		[]entity.StockRecord{
			{ProductID: "p1", CurrentQty: 100},
			{ProductID: "p9", CurrentQty: 12, MinQty: 5, MaxQty: 50, Location: "B-2"},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Products)
	assert.Equal(t, 1, res.Parties)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Opening)

	st, err := uc.GetStock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), st.CurrentQty, "un producto existente no se toca")

	st, err = uc.GetStock(ctx, "p9")
	require.NoError(t, err)
	assert.Equal(t, int64(12), st.CurrentQty)
	assert.Equal(t, int64(5), st.MinQty)
	assert.Equal(t, "B-2", st.Location)

	movs, err := uc.ListMovements(ctx, "p9", nil, nil, dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, int64(0), movs[0].PriorQty)
	assert.Equal(t, int64(12), movs[0].PostQty)

	party, err := store.Repos().Parties.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, party)
}

func TestImportCatalog_SoloAdmin(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.ImportCatalog(context.Background(), bodeguero, []entity.Product{{ID: "p9", Name: "X"}}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrPermission)
}
