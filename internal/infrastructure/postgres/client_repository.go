package postgres

import (
	"context"
	"fmt"

	"github.com/DanielMoranV/master-color-app/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)
var _ repository.AddressRepository = (*AddressRepo)(nil)

// ClientRepo verificación de clientes sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador de clientes.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Exists verifica que el cliente exista.
func (r *ClientRepo) Exists(id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1)`
	if err := r.q.QueryRow(context.Background(), query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check client: %w", err)
	}
	return exists, nil
}

// AddressRepo verificación de direcciones sobre PostgreSQL.
type AddressRepo struct {
	q Querier
}

// NewAddressRepository construye el adaptador de direcciones.
func NewAddressRepository(q Querier) *AddressRepo {
	return &AddressRepo{q: q}
}

// ExistsForClient verifica que la dirección exista y pertenezca al cliente.
func (r *AddressRepo) ExistsForClient(addressID, clientID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM addresses WHERE id = $1 AND client_id = $2)`
	if err := r.q.QueryRow(context.Background(), query, addressID, clientID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check address: %w", err)
	}
	return exists, nil
}
