package repository

import "github.com/DanielMoranV/master-color-app/internal/domain/entity"

// ProductRepository define el puerto de consulta de productos del catálogo.
// El CRUD descriptivo del catálogo vive fuera del motor; aquí solo lecturas.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}
