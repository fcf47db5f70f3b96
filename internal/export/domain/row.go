package domain

import (
	"strconv"

	analysisdomain "bilan/internal/analysis/domain"
	shareddomain "bilan/internal/shared/domain"
)

// Row représente une ligne d'export aplatie : un produit feuille avec
// l'étiquette de son regroupement
type Row struct {
	Grouping          string
	Supplier          string
	Reference         string
	Department        string
	Group             string
	Family            string
	Stone             string
	CurrentSales      int
	PriorSales        int
	CurrentUnitOrders int
	PriorUnitOrders   int
	CurrentRevenue    float64
	PriorRevenue      float64
	CurrentMargin     float64
	PriorMargin       float64
	CurrentStock      int
	PriorStock        int
	CurrentStockCost  float64
	PriorStockCost    float64
	RevenueShare      float64
	PriorRevenueShare float64
	RevenueShareDiff  float64
	BestSalePrice     *float64
	PublicSalePrice   float64
	InPareto          bool
}

// NewRow crée une ligne d'export depuis une ligne produit de regroupement
func NewRow(grouping string, p *analysisdomain.GroupingProduct) *Row {
	return &Row{
		Grouping:          grouping,
		Supplier:          p.Supplier,
		Reference:         p.Reference,
		Department:        p.Department,
		Group:             p.Group,
		Family:            p.Family,
		Stone:             p.Stone,
		CurrentSales:      p.CurrentSales,
		PriorSales:        p.PriorSales,
		CurrentUnitOrders: p.CurrentUnitOrders,
		PriorUnitOrders:   p.PriorUnitOrders,
		CurrentRevenue:    p.CurrentRevenue,
		PriorRevenue:      p.PriorRevenue,
		CurrentMargin:     p.CurrentMargin,
		PriorMargin:       p.PriorMargin,
		CurrentStock:      p.CurrentStock,
		PriorStock:        p.PriorStock,
		CurrentStockCost:  p.CurrentStockCost,
		PriorStockCost:    p.PriorStockCost,
		RevenueShare:      p.RevenueShare,
		PriorRevenueShare: p.PriorRevenueShare,
		RevenueShareDiff:  p.RevenueShareDiff,
		BestSalePrice:     p.BestSalePrice,
		PublicSalePrice:   p.PublicSalePrice,
		InPareto:          p.InPareto,
	}
}

// FlattenResults aplatit l'arbre de résultats : une ligne par produit de
// chaque regroupement feuille, étiquetée par la feuille
func FlattenResults(results []*analysisdomain.GroupingResult) []*Row {
	var rows []*Row
	for _, result := range results {
		rows = append(rows, flattenResult(result)...)
	}
	return rows
}

func flattenResult(result *analysisdomain.GroupingResult) []*Row {
	if result.IsLeaf() {
		rows := make([]*Row, 0, len(result.Products))
		for _, p := range result.Products {
			rows = append(rows, NewRow(result.Label, p))
		}
		return rows
	}

	var rows []*Row
	for _, child := range result.Children {
		rows = append(rows, flattenResult(child)...)
	}
	return rows
}

// CSVHeaders retourne les en-têtes du fichier d'export
func CSVHeaders() []string {
	return []string{
		"grouping",
		"supplier",
		"reference",
		"department",
		"group",
		"family",
		"stone",
		"current_sales",
		"prior_sales",
		"current_unit_orders",
		"prior_unit_orders",
		"current_revenue",
		"prior_revenue",
		"current_margin",
		"prior_margin",
		"current_stock",
		"prior_stock",
		"current_stock_cost",
		"prior_stock_cost",
		"revenue_share",
		"prior_revenue_share",
		"revenue_share_diff",
		"best_sale_price",
		"public_sale_price",
		"in_pareto",
	}
}

// ToCSVRow convertit la ligne en tableau de chaînes
// Les pourcentages non finis et le meilleur prix absent sortent vides.
func (r *Row) ToCSVRow() []string {
	bestPrice := ""
	if r.BestSalePrice != nil {
		bestPrice = strconv.FormatFloat(*r.BestSalePrice, 'f', 2, 64)
	}

	return []string{
		r.Grouping,
		r.Supplier,
		r.Reference,
		r.Department,
		r.Group,
		r.Family,
		r.Stone,
		strconv.Itoa(r.CurrentSales),
		strconv.Itoa(r.PriorSales),
		strconv.Itoa(r.CurrentUnitOrders),
		strconv.Itoa(r.PriorUnitOrders),
		strconv.FormatFloat(r.CurrentRevenue, 'f', 2, 64),
		strconv.FormatFloat(r.PriorRevenue, 'f', 2, 64),
		strconv.FormatFloat(r.CurrentMargin, 'f', 2, 64),
		strconv.FormatFloat(r.PriorMargin, 'f', 2, 64),
		strconv.Itoa(r.CurrentStock),
		strconv.Itoa(r.PriorStock),
		strconv.FormatFloat(r.CurrentStockCost, 'f', 2, 64),
		strconv.FormatFloat(r.PriorStockCost, 'f', 2, 64),
		formatShare(r.RevenueShare),
		formatShare(r.PriorRevenueShare),
		formatShare(r.RevenueShareDiff),
		bestPrice,
		strconv.FormatFloat(r.PublicSalePrice, 'f', 2, 64),
		strconv.FormatBool(r.InPareto),
	}
}

// formatShare rend un pourcentage, vide quand il n'est pas fini
func formatShare(v float64) string {
	if !shareddomain.IsDefined(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
