package repository

// Repos repositorios atados a una misma unidad de trabajo (transacción).
type Repos struct {
	Products  ProductRepository
	Parties   PartyRepository
	Stock     StockRepository
	Movements MovementRepository
	Orders    OrderRepository
	Invoices  InvoiceRepository
	Accounts  AccountRepository
	Sequences SequenceRepository
}
