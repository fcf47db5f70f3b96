package domain

import (
	"errors"
	"time"
)

// ProductID représente l'identifiant unique d'un produit
type ProductID int64

// Product représente un produit du catalogue avec ses attributs de taxonomie
type Product struct {
	id             ProductID
	name           string
	department     string
	group          string
	family         string
	familyKeywords []string
	stone          string
	weight         float64
	image          string
	createdAt      time.Time
}

// NewProduct crée une nouvelle instance de Product avec validation
func NewProduct(
	id ProductID,
	name string,
	department string,
	group string,
	family string,
	familyKeywords []string,
	stone string,
	weight float64,
	image string,
	createdAt time.Time,
) (*Product, error) {
	if name == "" {
		return nil, errors.New("product name cannot be empty")
	}
	if department == "" {
		return nil, errors.New("product department cannot be empty")
	}

	return &Product{
		id:             id,
		name:           name,
		department:     department,
		group:          group,
		family:         family,
		familyKeywords: familyKeywords,
		stone:          stone,
		weight:         weight,
		image:          image,
		createdAt:      createdAt,
	}, nil
}

// ID retourne l'identifiant du produit
func (p *Product) ID() ProductID {
	return p.id
}

// Name retourne le nom du produit
func (p *Product) Name() string {
	return p.name
}

// Department retourne le rayon du produit
func (p *Product) Department() string {
	return p.department
}

// Group retourne le groupe du produit
func (p *Product) Group() string {
	return p.group
}

// Family retourne la famille du produit
func (p *Product) Family() string {
	return p.family
}

// FamilyKeywords retourne les mots-clés de famille
func (p *Product) FamilyKeywords() []string {
	return append([]string{}, p.familyKeywords...)
}

// Stone retourne la pierre principale du produit
func (p *Product) Stone() string {
	return p.stone
}

// Weight retourne le poids en grammes
func (p *Product) Weight() float64 {
	return p.weight
}

// Image retourne le chemin de l'image
func (p *Product) Image() string {
	return p.image
}

// CreatedAt retourne la date de création
func (p *Product) CreatedAt() time.Time {
	return p.createdAt
}

// HasStone vérifie si le produit porte une pierre
func (p *Product) HasStone() bool {
	return p.stone != ""
}

// HasKeyword vérifie si le produit porte un mot-clé de famille donné
func (p *Product) HasKeyword(keyword string) bool {
	for _, kw := range p.familyKeywords {
		if kw == keyword {
			return true
		}
	}
	return false
}
