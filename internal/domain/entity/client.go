package entity

import "time"

// Client es un comprador registrado. La autenticación y el mantenimiento de su
// perfil son colaboradores externos; el motor solo verifica existencia.
type Client struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// Address es una dirección de envío de un cliente. Pertenece al cliente
// (se elimina en cascada con él).
type Address struct {
	ID       string
	ClientID string
	Full     string
	District string
	Province string
	IsMain   bool
}
