package entity

import "time"

// User representa un usuario de la aplicación. Su nombre se usa como
// actor en los movimientos de inventario; no hay roles ni permisos.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}
