package entity

// Roles que llegan en el token del actor.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
	RoleFinanzas  = "finanzas"
)

// Actor quién ejecuta la operación (viene de la capa de autenticación, opaco para el núcleo).
type Actor struct {
	ID   string
	Role string
}
