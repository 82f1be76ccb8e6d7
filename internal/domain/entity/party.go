package entity

import "time"

// PartyKind tipo de tercero.
type PartyKind string

const (
	PartyClient   PartyKind = "client"
	PartySupplier PartyKind = "supplier"
)

// Party cliente o proveedor (maestro de entidades, solo lectura aquí).
type Party struct {
	ID        string
	Kind      PartyKind
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
