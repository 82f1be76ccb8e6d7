package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador por (tipo, año, mes) en document_sequences.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Increment crea el contador en 1 o lo incrementa, en una sola sentencia.
// La fila queda bloqueada hasta el fin de la transacción que la tocó.
func (r *SequenceRepo) Increment(ctx context.Context, docType string, year, month int) (int64, error) {
	var seq int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO document_sequences (document_type, year, month, seq)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (document_type, year, month)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq`, docType, year, month).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("increment sequence %s %04d-%02d: %w", docType, year, month, err)
	}
	return seq, nil
}
