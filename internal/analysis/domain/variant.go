package domain

// SaleEvent représente les ventes réalisées à un prix unitaire donné
// Une entrée agrégée par prix unitaire distinct ; pour les commandes client
// ("unit orders") le prix retenu est le prix de base doublé, convention de
// facturation en deux échéances.
type SaleEvent struct {
	Price          float64
	CurrentCount   int
	PriorCount     int
	CurrentRevenue float64
	PriorRevenue   float64
	CurrentMargin  float64
	PriorMargin    float64
}

// VariantDetail représente le détail par (fournisseur, référence, taille) et magasin
type VariantDetail struct {
	Supplier          string
	Reference         string
	Size              string
	StoreID           int64
	CurrentSales      int
	CurrentUnitOrders int
	CurrentStock      int
	PriorSales        int
	PriorUnitOrders   int
	PriorStock        int
	CurrentRevenue    float64
	CurrentMargin     float64
	CurrentStockCost  float64
	PriorRevenue      float64
	PriorMargin       float64
	PriorStockCost    float64
}

// VariantAggregate représente l'agrégat par (fournisseur, référence),
// immuable une fois construit par le normaliseur
type VariantAggregate struct {
	Supplier       string
	Reference      string
	Department     string
	Group          string
	Family         string
	FamilyKeywords []string
	Stone          string

	PublicSalePrice float64

	CurrentSales      int
	CurrentUnitOrders int
	CurrentStock      int
	PriorSales        int
	PriorUnitOrders   int
	PriorStock        int

	CurrentRevenue   float64
	CurrentMargin    float64
	CurrentStockCost float64
	PriorRevenue     float64
	PriorMargin      float64
	PriorStockCost   float64

	Details    []VariantDetail
	SaleEvents []SaleEvent
}

// IsEmpty vérifie qu'aucun indicateur N ou N-1 n'est porté par la variante
// Les variantes entièrement à zéro sont éliminées, pas émises vides.
func (v *VariantAggregate) IsEmpty() bool {
	return v.CurrentSales == 0 &&
		v.CurrentUnitOrders == 0 &&
		v.CurrentStock == 0 &&
		v.PriorSales == 0 &&
		v.PriorUnitOrders == 0 &&
		v.PriorStock == 0
}

// HasStone vérifie si la variante porte une pierre
func (v *VariantAggregate) HasStone() bool {
	return v.Stone != ""
}

// HasAnyKeyword vérifie l'intersection avec une liste de mots-clés
func (v *VariantAggregate) HasAnyKeyword(keywords []string) bool {
	for _, kw := range keywords {
		for _, own := range v.FamilyKeywords {
			if own == kw {
				return true
			}
		}
	}
	return false
}

// BestSalePrice retourne le prix de l'événement de vente maximisant le
// cumul N + N-1, départagé par le prix le plus haut ; nil sans événement.
func (v *VariantAggregate) BestSalePrice() *float64 {
	var best *SaleEvent
	bestTotal := 0

	for i := range v.SaleEvents {
		ev := &v.SaleEvents[i]
		total := ev.CurrentCount + ev.PriorCount
		if best == nil || total > bestTotal || (total == bestTotal && ev.Price > best.Price) {
			best = ev
			bestTotal = total
		}
	}

	if best == nil {
		return nil
	}
	price := best.Price
	return &price
}
