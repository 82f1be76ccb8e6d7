// Package numbering emite números de documento PREFIJO+AAAA+MM+secuencia,
// únicos por (tipo de documento, año, mes). La secuencia sale siempre de un
// incremento atómico (fila en document_sequences o INCR en Redis); nunca de
// contar documentos existentes.
package numbering

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/erp-ledger/internal/application/ports"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

// Tipos de documento.
const (
	DocOrder   = "ORDER"
	DocInvoice = "INVOICE"
)

// Counter contador atómico externo a la base de datos (ej. Redis).
// Los números que emite no se devuelven si la transacción falla: puede haber huecos.
type Counter interface {
	Next(ctx context.Context, docType string, year, month int) (int64, error)
}

// Config prefijos por tipo y ancho de la secuencia.
type Config struct {
	Prefixes map[string]string
	PadWidth int
}

// DefaultConfig pedidos sin prefijo, facturas con "FAT", secuencia de 5 dígitos.
func DefaultConfig() Config {
	return Config{
		Prefixes: map[string]string{DocOrder: "", DocInvoice: "FAT"},
		PadWidth: 5,
	}
}

// Authority autoridad de numeración.
type Authority struct {
	tx         ports.TxRunner
	counter    Counter
	authorizer ports.Authorizer
	cfg        Config
	log        *logger.Logger
}

// NewAuthority construye la autoridad. counter puede ser nil (se usa la tabla de secuencias).
func NewAuthority(tx ports.TxRunner, counter Counter, authorizer ports.Authorizer, cfg Config, log *logger.Logger) *Authority {
	if cfg.PadWidth <= 0 {
		cfg.PadWidth = 5
	}
	if cfg.Prefixes == nil {
		cfg.Prefixes = DefaultConfig().Prefixes
	}
	return &Authority{tx: tx, counter: counter, authorizer: authorizer, cfg: cfg, log: log.Component("numbering")}
}

// Format arma el número: prefijo + año(4) + mes(2) + secuencia con ceros a la izquierda.
func Format(prefix string, year, month int, seq int64, width int) string {
	return fmt.Sprintf("%s%04d%02d%0*d", prefix, year, month, width, seq)
}

// Issue emite el siguiente número dentro de la transacción del llamador.
// Con la tabla de secuencias, si la transacción se revierte el número no se consume.
func (a *Authority) Issue(ctx context.Context, seqs repository.SequenceRepository, docType string, at time.Time) (string, error) {
	year, month := at.Year(), int(at.Month())
	prefix, ok := a.cfg.Prefixes[docType]
	if !ok {
		return "", domain.Validation("document_type", "tipo de documento desconocido: "+docType)
	}
	var (
		seq int64
		err error
	)
	if a.counter != nil {
		seq, err = a.counter.Next(ctx, docType, year, month)
	} else {
		seq, err = seqs.Increment(ctx, docType, year, month)
	}
	if err != nil {
		return "", fmt.Errorf("numeración %s %04d-%02d: %w", docType, year, month, err)
	}
	number := Format(prefix, year, month, seq, a.cfg.PadWidth)
	a.log.Debug().Str("document_type", docType).Str("number", number).Msg("número emitido")
	return number, nil
}

// NextNumber emite un número en su propia transacción.
func (a *Authority) NextNumber(ctx context.Context, actor entity.Actor, docType string, year, month int) (string, error) {
	if err := ports.Authorize(a.authorizer, actor, ports.ActionIssueNumber); err != nil {
		return "", err
	}
	fields := map[string]string{}
	if year < 1 || year > 9999 {
		fields["year"] = "fuera de rango"
	}
	if month < 1 || month > 12 {
		fields["month"] = "debe estar entre 1 y 12"
	}
	if len(fields) > 0 {
		return "", domain.ValidationFields(fields)
	}
	at := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	var number string
	err := a.tx.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		n, err := a.Issue(ctx, r.Sequences, docType, at)
		number = n
		return err
	})
	if err != nil {
		return "", err
	}
	return number, nil
}
