package domain

import (
	"errors"
	"time"
)

// SupplierID représente l'identifiant unique d'un fournisseur
type SupplierID int64

// Supplier représente un fournisseur de produits
type Supplier struct {
	id        SupplierID
	code      string
	name      string
	country   string
	createdAt time.Time
}

// NewSupplier crée une nouvelle instance de Supplier avec validation
func NewSupplier(
	id SupplierID,
	code string,
	name string,
	country string,
	createdAt time.Time,
) (*Supplier, error) {
	if code == "" {
		return nil, errors.New("supplier code cannot be empty")
	}
	if name == "" {
		return nil, errors.New("supplier name cannot be empty")
	}

	return &Supplier{
		id:        id,
		code:      code,
		name:      name,
		country:   country,
		createdAt: createdAt,
	}, nil
}

// ID retourne l'identifiant du fournisseur
func (s *Supplier) ID() SupplierID {
	return s.id
}

// Code retourne le code fournisseur utilisé dans les mouvements
func (s *Supplier) Code() string {
	return s.code
}

// Name retourne le nom du fournisseur
func (s *Supplier) Name() string {
	return s.name
}

// Country retourne le pays
func (s *Supplier) Country() string {
	return s.country
}

// CreatedAt retourne la date de création
func (s *Supplier) CreatedAt() time.Time {
	return s.createdAt
}
