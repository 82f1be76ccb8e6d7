// Package catalog carga el maestro inicial (productos, clientes, proveedores y
// existencias) desde un CSV exportado de otro sistema, que suele venir en
// ISO-8859-1 o Windows-1252.
//
// Columnas (encabezado obligatorio, orden libre):
//
//	type,id,code,name,cost_price,sale_price,tax_id,email,phone,qty,min_qty,max_qty,location
//
// type es product, client o supplier. Para terceros se ignoran precios y stock.
package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// ErrMissingHeader el archivo no trae fila de encabezado.
var ErrMissingHeader = errors.New("catalog: falta el encabezado")

// Catalog maestro leído del archivo.
type Catalog struct {
	Products []entity.Product
	Parties  []entity.Party
	Stock    []entity.StockRecord
}

// Decoder envuelve r según el charset: utf-8 (o vacío), iso-8859-1/latin1, windows-1252.
func Decoder(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("catalog: charset no soportado %q", charset)
	}
}

// Load lee el CSV completo. Un error de fila indica el número de línea.
func Load(r io.Reader, charset string, now time.Time) (*Catalog, error) {
	dec, err := Decoder(r, charset)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(dec)
	if bom, _ := br.Peek(3); len(bom) == 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["type"]; !ok {
		return nil, fmt.Errorf("catalog: falta la columna type")
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("catalog: falta la columna name")
	}

	out := &Catalog{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("catalog: línea %d: %w", line, err)
		}
		row := record{cols: cols, values: rec}
		if err := out.add(row, now); err != nil {
			return nil, fmt.Errorf("catalog: línea %d: %w", line, err)
		}
	}
	return out, nil
}

type record struct {
	cols   map[string]int
	values []string
}

func (r record) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func (r record) decimal(col string) (decimal.Decimal, error) {
	raw := r.get(col)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s inválido %q", col, raw)
	}
	return d, nil
}

func (r record) int(col string) (int64, error) {
	raw := r.get(col)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s inválido %q", col, raw)
	}
	return n, nil
}

func (c *Catalog) add(r record, now time.Time) error {
	id := r.get("id")
	if id == "" {
		id = uuid.New().String()
	}
	name := r.get("name")
	if name == "" {
		return fmt.Errorf("name vacío")
	}

	switch kind := strings.ToLower(r.get("type")); kind {
	case "product":
		cost, err := r.decimal("cost_price")
		if err != nil {
			return err
		}
		sale, err := r.decimal("sale_price")
		if err != nil {
			return err
		}
		if !domain.HasScale(cost, domain.CostScale) {
			return fmt.Errorf("cost_price con más de %d decimales", domain.CostScale)
		}
		if !domain.HasScale(sale, domain.MoneyScale) {
			return fmt.Errorf("sale_price con más de %d decimales", domain.MoneyScale)
		}
		code := r.get("code")
		if code == "" {
			code = id
		}
		c.Products = append(c.Products, entity.Product{
			ID: id, Code: code, Name: name, CostPrice: cost, SalePrice: sale,
			Active: true, CreatedAt: now, UpdatedAt: now,
		})

		qty, err := r.int("qty")
		if err != nil {
			return err
		}
		minQty, err := r.int("min_qty")
		if err != nil {
			return err
		}
		maxQty, err := r.int("max_qty")
		if err != nil {
			return err
		}
		if maxQty > 0 && maxQty < minQty {
			return fmt.Errorf("max_qty menor que min_qty")
		}
		c.Stock = append(c.Stock, entity.StockRecord{
			ProductID: id, CurrentQty: qty, MinQty: minQty, MaxQty: maxQty,
			Location: r.get("location"), UpdatedAt: now,
		})
	case "client", "supplier":
		c.Parties = append(c.Parties, entity.Party{
			ID: id, Kind: entity.PartyKind(kind), Name: name,
			TaxID: r.get("tax_id"), Email: r.get("email"), Phone: r.get("phone"),
			Active: true, CreatedAt: now, UpdatedAt: now,
		})
	default:
		return fmt.Errorf("type desconocido %q", kind)
	}
	return nil
}
