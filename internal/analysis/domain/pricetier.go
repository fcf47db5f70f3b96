package domain

import "errors"

// PriceTier représente une gamme de prix avec ses seuils de gestion
type PriceTier struct {
	MinPrice     float64
	OrderDays    int
	MaintainDays int
	MinSaleCount int
}

// PriceTierTable représente la table ascendante des gammes de prix
// Valeur immuable injectée dans l'agrégateur et les statistiques ; jamais un
// état global de package, pour pouvoir tester des tables alternatives.
type PriceTierTable struct {
	tiers []PriceTier
}

// NewPriceTierTable crée une table de gammes avec validation d'ordre strict
func NewPriceTierTable(tiers []PriceTier) (PriceTierTable, error) {
	if len(tiers) == 0 {
		return PriceTierTable{}, errors.New("price tier table cannot be empty")
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].MinPrice <= tiers[i-1].MinPrice {
			return PriceTierTable{}, errors.New("price tiers must be strictly ascending")
		}
	}
	return PriceTierTable{tiers: append([]PriceTier{}, tiers...)}, nil
}

// DefaultPriceTierTable retourne la table de référence à 14 gammes
func DefaultPriceTierTable() PriceTierTable {
	table, _ := NewPriceTierTable([]PriceTier{
		{MinPrice: 100, OrderDays: 30, MaintainDays: 90, MinSaleCount: 12},
		{MinPrice: 200, OrderDays: 30, MaintainDays: 90, MinSaleCount: 10},
		{MinPrice: 300, OrderDays: 45, MaintainDays: 120, MinSaleCount: 8},
		{MinPrice: 500, OrderDays: 45, MaintainDays: 120, MinSaleCount: 6},
		{MinPrice: 800, OrderDays: 60, MaintainDays: 150, MinSaleCount: 5},
		{MinPrice: 1200, OrderDays: 60, MaintainDays: 150, MinSaleCount: 4},
		{MinPrice: 2000, OrderDays: 90, MaintainDays: 180, MinSaleCount: 3},
		{MinPrice: 3000, OrderDays: 90, MaintainDays: 180, MinSaleCount: 2},
		{MinPrice: 5000, OrderDays: 120, MaintainDays: 240, MinSaleCount: 2},
		{MinPrice: 8000, OrderDays: 120, MaintainDays: 240, MinSaleCount: 1},
		{MinPrice: 12000, OrderDays: 150, MaintainDays: 300, MinSaleCount: 1},
		{MinPrice: 20000, OrderDays: 180, MaintainDays: 365, MinSaleCount: 1},
		{MinPrice: 50000, OrderDays: 270, MaintainDays: 540, MinSaleCount: 1},
		{MinPrice: 999999, OrderDays: 365, MaintainDays: 730, MinSaleCount: 1},
	})
	return table
}

// Tiers retourne une copie des gammes
func (t PriceTierTable) Tiers() []PriceTier {
	return append([]PriceTier{}, t.tiers...)
}

// Len retourne le nombre de gammes
func (t PriceTierTable) Len() int {
	return len(t.tiers)
}

// Locate retourne l'index de la première gamme dont le seuil dépasse
// strictement le prix. Un prix au niveau ou au-delà du dernier seuil n'est
// rattaché à aucune gamme : l'article reste hors gamme, sans erreur.
func (t PriceTierTable) Locate(price float64) (int, bool) {
	for i, tier := range t.tiers {
		if price < tier.MinPrice {
			return i, true
		}
	}
	return 0, false
}
