package application

import (
	"math"

	analysisdomain "bilan/internal/analysis/domain"
	shareddomain "bilan/internal/shared/domain"
)

// Aggregator construit le résultat d'un nœud de taxonomie à partir de ses
// variantes rattachées : totaux N / N-1, ventilation par gamme de prix,
// médiane et flags Pareto. La table de gammes est injectée, jamais globale.
type Aggregator struct {
	tiers analysisdomain.PriceTierTable
}

// NewAggregator crée un agrégateur sur une table de gammes
func NewAggregator(tiers analysisdomain.PriceTierTable) *Aggregator {
	return &Aggregator{tiers: tiers}
}

// Aggregate calcule le GroupingResult d'un regroupement
// L'agrégation est strictement séquentielle : le classement Pareto exige
// l'effectif complet avant tout tri.
func (a *Aggregator) Aggregate(
	label string,
	members []*analysisdomain.VariantAggregate,
) *analysisdomain.GroupingResult {
	result := &analysisdomain.GroupingResult{Label: label}

	for _, m := range members {
		result.CurrentSales += m.CurrentSales + m.CurrentUnitOrders
		result.PriorSales += m.PriorSales + m.PriorUnitOrders
		result.CurrentStock += m.CurrentStock
		result.PriorStock += m.PriorStock
		result.CurrentRevenue = shareddomain.Round2(result.CurrentRevenue + m.CurrentRevenue)
		result.PriorRevenue = shareddomain.Round2(result.PriorRevenue + m.PriorRevenue)
		result.CurrentMargin = shareddomain.Round2(result.CurrentMargin + m.CurrentMargin)
		result.PriorMargin = shareddomain.Round2(result.PriorMargin + m.PriorMargin)
		result.CurrentStockCost = shareddomain.Round2(result.CurrentStockCost + m.CurrentStockCost)
		result.PriorStockCost = shareddomain.Round2(result.PriorStockCost + m.PriorStockCost)
	}

	result.SalesDiff = result.CurrentSales - result.PriorSales
	result.RevenueDiff = shareddomain.Round2(result.CurrentRevenue - result.PriorRevenue)
	result.MarginDiff = shareddomain.Round2(result.CurrentMargin - result.PriorMargin)
	result.StockDiff = result.CurrentStock - result.PriorStock
	result.StockCostDiff = shareddomain.Round2(result.CurrentStockCost - result.PriorStockCost)

	result.Products = a.buildProducts(members, result)
	FlagProductPareto(result.Products)

	priceList := a.buildRanges(members, result)

	result.MedianPrice = Median(priceList)
	if !math.IsNaN(result.MedianPrice) {
		if idx, ok := a.tiers.Locate(result.MedianPrice); ok {
			result.Ranges[idx].IsMedian = true
		}
	}

	return result
}

// buildProducts construit les lignes produit du regroupement
// Les parts de CA ne sont calculées qu'ici, une fois le total connu ; un
// total nul produit une part non finie qui se propage.
func (a *Aggregator) buildProducts(
	members []*analysisdomain.VariantAggregate,
	totals *analysisdomain.GroupingResult,
) []*analysisdomain.GroupingProduct {
	products := make([]*analysisdomain.GroupingProduct, 0, len(members))

	for _, m := range members {
		share := shareddomain.Percentage(m.CurrentRevenue, totals.CurrentRevenue)
		priorShare := shareddomain.Percentage(m.PriorRevenue, totals.PriorRevenue)

		products = append(products, &analysisdomain.GroupingProduct{
			Supplier:          m.Supplier,
			Reference:         m.Reference,
			Department:        m.Department,
			Group:             m.Group,
			Family:            m.Family,
			Stone:             m.Stone,
			CurrentSales:      m.CurrentSales,
			PriorSales:        m.PriorSales,
			CurrentUnitOrders: m.CurrentUnitOrders,
			PriorUnitOrders:   m.PriorUnitOrders,
			CurrentRevenue:    m.CurrentRevenue,
			PriorRevenue:      m.PriorRevenue,
			CurrentMargin:     m.CurrentMargin,
			PriorMargin:       m.PriorMargin,
			CurrentStock:      m.CurrentStock,
			PriorStock:        m.PriorStock,
			CurrentStockCost:  m.CurrentStockCost,
			PriorStockCost:    m.PriorStockCost,
			RevenueShare:      share,
			PriorRevenueShare: priorShare,
			RevenueShareDiff:  share - priorShare,
			BestSalePrice:     m.BestSalePrice(),
			PublicSalePrice:   m.PublicSalePrice,
		})
	}

	return products
}

// rangeProductKey identifie un rollup produit au sein d'une gamme
type rangeProductKey struct {
	rangeIdx  int
	supplier  string
	reference string
}

// buildRanges ventile chaque événement de vente dans sa gamme de prix et
// retourne la liste plate pondérée des prix réalisés (une entrée par unité
// vendue sur la période) pour le calcul de médiane.
// Un prix au-delà du dernier seuil reste hors gamme mais compte dans les
// totaux du regroupement.
func (a *Aggregator) buildRanges(
	members []*analysisdomain.VariantAggregate,
	result *analysisdomain.GroupingResult,
) []float64 {
	result.Ranges = make([]analysisdomain.GroupingRange, a.tiers.Len())
	for i, tier := range a.tiers.Tiers() {
		result.Ranges[i].Tier = tier
	}

	rollups := make(map[rangeProductKey]*analysisdomain.GroupingProduct)
	var priceList []float64

	for _, m := range members {
		for _, ev := range m.SaleEvents {
			for i := 0; i < ev.CurrentCount; i++ {
				priceList = append(priceList, ev.Price)
			}

			idx, ok := a.tiers.Locate(ev.Price)
			if !ok {
				continue
			}

			rng := &result.Ranges[idx]
			rng.CurrentSales += ev.CurrentCount
			rng.PriorSales += ev.PriorCount
			rng.CurrentRevenue = shareddomain.Round2(rng.CurrentRevenue + ev.CurrentRevenue)
			rng.PriorRevenue = shareddomain.Round2(rng.PriorRevenue + ev.PriorRevenue)

			key := rangeProductKey{rangeIdx: idx, supplier: m.Supplier, reference: m.Reference}
			rp, exists := rollups[key]
			if !exists {
				rp = &analysisdomain.GroupingProduct{
					Supplier:        m.Supplier,
					Reference:       m.Reference,
					Department:      m.Department,
					Group:           m.Group,
					Family:          m.Family,
					Stone:           m.Stone,
					BestSalePrice:   m.BestSalePrice(),
					PublicSalePrice: m.PublicSalePrice,
				}
				rollups[key] = rp
				rng.Products = append(rng.Products, rp)
			}
			rp.CurrentSales += ev.CurrentCount
			rp.PriorSales += ev.PriorCount
			rp.CurrentRevenue = shareddomain.Round2(rp.CurrentRevenue + ev.CurrentRevenue)
			rp.PriorRevenue = shareddomain.Round2(rp.PriorRevenue + ev.PriorRevenue)
			rp.CurrentMargin = shareddomain.Round2(rp.CurrentMargin + ev.CurrentMargin)
			rp.PriorMargin = shareddomain.Round2(rp.PriorMargin + ev.PriorMargin)
		}

		a.bucketStock(m, result, rollups)
	}

	for i := range result.Ranges {
		rng := &result.Ranges[i]
		FlagProductPareto(rng.Products)
		for _, rp := range rng.Products {
			share := shareddomain.Percentage(rp.CurrentRevenue, rng.CurrentRevenue)
			priorShare := shareddomain.Percentage(rp.PriorRevenue, rng.PriorRevenue)
			rp.RevenueShare = share
			rp.PriorRevenueShare = priorShare
			rp.RevenueShareDiff = share - priorShare
		}
	}

	return priceList
}

// bucketStock rattache le stock d'une variante à la gamme de son prix public,
// à défaut de son meilleur prix de vente réalisé
func (a *Aggregator) bucketStock(
	m *analysisdomain.VariantAggregate,
	result *analysisdomain.GroupingResult,
	rollups map[rangeProductKey]*analysisdomain.GroupingProduct,
) {
	price := m.PublicSalePrice
	if price == 0 {
		if best := m.BestSalePrice(); best != nil {
			price = *best
		}
	}
	if price == 0 {
		return
	}

	idx, ok := a.tiers.Locate(price)
	if !ok {
		return
	}

	rng := &result.Ranges[idx]
	rng.CurrentStock += m.CurrentStock
	rng.PriorStock += m.PriorStock
	rng.CurrentStockCost = shareddomain.Round2(rng.CurrentStockCost + m.CurrentStockCost)
	rng.PriorStockCost = shareddomain.Round2(rng.PriorStockCost + m.PriorStockCost)

	if rp, exists := rollups[rangeProductKey{rangeIdx: idx, supplier: m.Supplier, reference: m.Reference}]; exists {
		rp.CurrentStock += m.CurrentStock
		rp.PriorStock += m.PriorStock
		rp.CurrentStockCost = shareddomain.Round2(rp.CurrentStockCost + m.CurrentStockCost)
		rp.PriorStockCost = shareddomain.Round2(rp.PriorStockCost + m.PriorStockCost)
	}
}
