package repository

// ClientRepository verifica existencia de clientes (colaborador externo del motor).
type ClientRepository interface {
	Exists(id string) (bool, error)
}

// AddressRepository verifica que una dirección exista y pertenezca a un cliente.
type AddressRepository interface {
	ExistsForClient(addressID, clientID string) (bool, error)
}
