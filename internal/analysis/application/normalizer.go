package application

import (
	"sort"
	"time"

	analysisdomain "bilan/internal/analysis/domain"
	catalogdomain "bilan/internal/catalog/domain"
	movementdomain "bilan/internal/movement/domain"
	shareddomain "bilan/internal/shared/domain"
)

// Normalizer pivote les mouvements bruts d'un produit en agrégats de variantes
// Une passe par produit ; aucun état partagé entre produits, aucune entrée-sortie.
type Normalizer struct {
	period shareddomain.Period
	prior  shareddomain.Period
}

// NewNormalizer crée un normaliseur pour une fenêtre de reporting
func NewNormalizer(period shareddomain.Period) *Normalizer {
	return &Normalizer{
		period: period,
		prior:  period.PriorYear(),
	}
}

type detailKey struct {
	supplier  string
	reference string
	size      string
	storeID   int64
}

// variantBuilder accumule les champs d'une variante (fournisseur, référence)
type variantBuilder struct {
	supplier  string
	reference string

	details     map[detailKey]*analysisdomain.VariantDetail
	detailOrder []detailKey

	events     map[float64]*analysisdomain.SaleEvent
	eventOrder []float64

	publicPrice     float64
	publicPriceDate time.Time
}

func newVariantBuilder(supplier, reference string) *variantBuilder {
	return &variantBuilder{
		supplier:  supplier,
		reference: reference,
		details:   make(map[detailKey]*analysisdomain.VariantDetail),
		events:    make(map[float64]*analysisdomain.SaleEvent),
	}
}

func (b *variantBuilder) detail(key detailKey) *analysisdomain.VariantDetail {
	if d, ok := b.details[key]; ok {
		return d
	}
	d := &analysisdomain.VariantDetail{
		Supplier:  key.supplier,
		Reference: key.reference,
		Size:      key.size,
		StoreID:   key.storeID,
	}
	b.details[key] = d
	b.detailOrder = append(b.detailOrder, key)
	return d
}

func (b *variantBuilder) event(price float64) *analysisdomain.SaleEvent {
	if ev, ok := b.events[price]; ok {
		return ev
	}
	ev := &analysisdomain.SaleEvent{Price: price}
	b.events[price] = ev
	b.eventOrder = append(b.eventOrder, price)
	return ev
}

// trackPublicPrice retient le prix public non nul le plus récent
// Une date postérieure gagne toujours ; à date égale, un prix supérieur ou
// égal remplace l'occurrence précédente.
func (b *variantBuilder) trackPublicPrice(price float64, date time.Time) {
	if price == 0 {
		return
	}
	switch {
	case b.publicPriceDate.IsZero() && b.publicPrice == 0:
		b.publicPrice, b.publicPriceDate = price, date
	case date.After(b.publicPriceDate):
		b.publicPrice, b.publicPriceDate = price, date
	case date.Equal(b.publicPriceDate) && price >= b.publicPrice:
		b.publicPrice, b.publicPriceDate = price, date
	}
}

// Normalize produit un agrégat par (fournisseur, référence) rencontré dans
// les mouvements du produit. Les variantes entièrement à zéro sont éliminées.
func (n *Normalizer) Normalize(
	product *catalogdomain.Product,
	facts []*movementdomain.MovementFact,
) []*analysisdomain.VariantAggregate {
	builders := make(map[string]*variantBuilder)
	var order []string

	for _, fact := range facts {
		key := fact.VariantKey()
		builder, ok := builders[key]
		if !ok {
			builder = newVariantBuilder(fact.Supplier, fact.Reference)
			builders[key] = builder
			order = append(order, key)
		}
		n.accumulate(builder, fact)
	}

	sort.Strings(order)

	aggregates := make([]*analysisdomain.VariantAggregate, 0, len(order))
	for _, key := range order {
		agg := n.build(product, builders[key])
		if agg.IsEmpty() {
			continue
		}
		aggregates = append(aggregates, agg)
	}

	return aggregates
}

// accumulate ventile un mouvement dans le détail et les événements de vente
// Règle de fenêtre : ventes/CA/marge/commandes client sur [début, fin] inclus,
// stock cumulé jusqu'à la fin de fenêtre. Même double règle pour N-1.
func (n *Normalizer) accumulate(b *variantBuilder, f *movementdomain.MovementFact) {
	d := b.detail(detailKey{
		supplier:  f.Supplier,
		reference: f.Reference,
		size:      f.Size,
		storeID:   f.StoreID,
	})

	revenue := shareddomain.Round2(f.SaleRevenue)
	margin := shareddomain.Round2(f.SaleRevenue - f.PurchaseCost)

	// Seuls les mouvements porteurs de vente ou de commande client alimentent
	// CA et marge : le coût d'achat d'une entrée en stock appartient au coût
	// de stock, pas à la marge de la période.
	isSale := f.QtySold != 0 || f.QtyUnitOrder != 0

	if n.period.Contains(f.Date) {
		d.CurrentSales += f.QtySold
		d.CurrentUnitOrders += f.QtyUnitOrder
		if isSale {
			d.CurrentRevenue = shareddomain.Round2(d.CurrentRevenue + revenue)
			d.CurrentMargin = shareddomain.Round2(d.CurrentMargin + margin)
		}
		n.accumulateEvents(b, f, revenue, margin, true)
	}

	if n.prior.Contains(f.Date) {
		d.PriorSales += f.QtySold
		d.PriorUnitOrders += f.QtyUnitOrder
		if isSale {
			d.PriorRevenue = shareddomain.Round2(d.PriorRevenue + revenue)
			d.PriorMargin = shareddomain.Round2(d.PriorMargin + margin)
		}
		n.accumulateEvents(b, f, revenue, margin, false)
	}

	if f.QtyStock != 0 {
		stockCost := shareddomain.Round2(f.PurchaseCost)
		if n.period.CoversStock(f.Date) {
			d.CurrentStock += f.QtyStock
			d.CurrentStockCost = shareddomain.Round2(d.CurrentStockCost + stockCost)
		}
		if n.prior.CoversStock(f.Date) {
			d.PriorStock += f.QtyStock
			d.PriorStockCost = shareddomain.Round2(d.PriorStockCost + stockCost)
		}
	}

	b.trackPublicPrice(f.PublicSalePrice, f.PublicSalePriceDate)
}

// accumulateEvents alimente la liste des prix unitaires réalisés
// Une commande client est valorisée au double du prix de base : facturation
// en deux échéances.
func (n *Normalizer) accumulateEvents(
	b *variantBuilder,
	f *movementdomain.MovementFact,
	revenue, margin float64,
	current bool,
) {
	if f.QtySold != 0 {
		ev := b.event(shareddomain.Round2(f.UnitSalePrice))
		if current {
			ev.CurrentCount += f.QtySold
			ev.CurrentRevenue = shareddomain.Round2(ev.CurrentRevenue + revenue)
			ev.CurrentMargin = shareddomain.Round2(ev.CurrentMargin + margin)
		} else {
			ev.PriorCount += f.QtySold
			ev.PriorRevenue = shareddomain.Round2(ev.PriorRevenue + revenue)
			ev.PriorMargin = shareddomain.Round2(ev.PriorMargin + margin)
		}
	}

	if f.QtyUnitOrder != 0 {
		ev := b.event(shareddomain.Round2(f.UnitSalePrice * 2))
		if current {
			ev.CurrentCount += f.QtyUnitOrder
			ev.CurrentRevenue = shareddomain.Round2(ev.CurrentRevenue + revenue)
			ev.CurrentMargin = shareddomain.Round2(ev.CurrentMargin + margin)
		} else {
			ev.PriorCount += f.QtyUnitOrder
			ev.PriorRevenue = shareddomain.Round2(ev.PriorRevenue + revenue)
			ev.PriorMargin = shareddomain.Round2(ev.PriorMargin + margin)
		}
	}
}

// build assemble l'agrégat final d'une variante à partir de ses détails
func (n *Normalizer) build(product *catalogdomain.Product, b *variantBuilder) *analysisdomain.VariantAggregate {
	agg := &analysisdomain.VariantAggregate{
		Supplier:        b.supplier,
		Reference:       b.reference,
		Department:      product.Department(),
		Group:           product.Group(),
		Family:          product.Family(),
		FamilyKeywords:  product.FamilyKeywords(),
		Stone:           product.Stone(),
		PublicSalePrice: b.publicPrice,
	}

	sort.Slice(b.detailOrder, func(i, j int) bool {
		a, z := b.detailOrder[i], b.detailOrder[j]
		if a.supplier != z.supplier {
			return a.supplier < z.supplier
		}
		if a.reference != z.reference {
			return a.reference < z.reference
		}
		if a.size != z.size {
			return a.size < z.size
		}
		return a.storeID < z.storeID
	})

	for _, key := range b.detailOrder {
		d := b.details[key]
		agg.CurrentSales += d.CurrentSales
		agg.CurrentUnitOrders += d.CurrentUnitOrders
		agg.CurrentStock += d.CurrentStock
		agg.PriorSales += d.PriorSales
		agg.PriorUnitOrders += d.PriorUnitOrders
		agg.PriorStock += d.PriorStock
		agg.CurrentRevenue = shareddomain.Round2(agg.CurrentRevenue + d.CurrentRevenue)
		agg.CurrentMargin = shareddomain.Round2(agg.CurrentMargin + d.CurrentMargin)
		agg.CurrentStockCost = shareddomain.Round2(agg.CurrentStockCost + d.CurrentStockCost)
		agg.PriorRevenue = shareddomain.Round2(agg.PriorRevenue + d.PriorRevenue)
		agg.PriorMargin = shareddomain.Round2(agg.PriorMargin + d.PriorMargin)
		agg.PriorStockCost = shareddomain.Round2(agg.PriorStockCost + d.PriorStockCost)
		agg.Details = append(agg.Details, *d)
	}

	sort.Float64s(b.eventOrder)
	for _, price := range b.eventOrder {
		agg.SaleEvents = append(agg.SaleEvents, *b.events[price])
	}

	return agg
}
