package domain

import "time"

// MovementType représente la nature d'un mouvement, résolue en amont
type MovementType string

const (
	MovementSale      MovementType = "sale"
	MovementOrder     MovementType = "order"
	MovementDelivery  MovementType = "delivery"
	MovementReturn    MovementType = "return"
	MovementTransfer  MovementType = "transfer"
	MovementRegulate  MovementType = "regulate"
	MovementUnitOrder MovementType = "unit_order"
)

// MovementFact représente un mouvement par magasin, date et transaction
// Les quantités stock / commande client / vente sont déjà séparées par le
// collaborateur qui alimente le moteur ; aucune re-dérivation ici, et aucune
// validation : les faits sont consommés tels quels.
type MovementFact struct {
	ProductID           int64
	Supplier            string
	Reference           string
	Size                string
	StoreID             int64
	Date                time.Time
	Type                MovementType
	QtySold             int
	QtyUnitOrder        int
	QtyStock            int
	SaleRevenue         float64
	PurchaseCost        float64
	UnitSalePrice       float64
	PublicSalePrice     float64
	PublicSalePriceDate time.Time
}

// VariantKey retourne la clé (fournisseur, référence) du mouvement
func (f *MovementFact) VariantKey() string {
	return f.Supplier + "/" + f.Reference
}
