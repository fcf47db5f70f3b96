package application

import (
	"math"
	"sort"

	analysisdomain "bilan/internal/analysis/domain"
)

// Median calcule la médiane pondérée d'une liste de prix
// Médiane d'ordre classique : moyenne des deux valeurs centrales pour une
// liste paire, valeur centrale exacte pour une liste impaire. NaN si vide.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// paretoFlags calcule l'appartenance au Pareto d'une liste déjà triée par
// CA décroissant. Un élément est dans le Pareto ssi la part cumulée AVANT
// lui est < 80 % ; le cumul est mis à jour après le test.
func paretoFlags(revenues []float64) []bool {
	total := 0.0
	for _, r := range revenues {
		total += r
	}

	flags := make([]bool, len(revenues))
	running := 0.0
	for i, r := range revenues {
		flags[i] = 100*running/total < 80
		running += r
	}
	return flags
}

// SortProductsByRevenue trie des lignes produit par CA décroissant
// Tri stable : les égalités de CA gardent leur ordre d'entrée.
func SortProductsByRevenue(products []*analysisdomain.GroupingProduct) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CurrentRevenue > products[j].CurrentRevenue
	})
}

// FlagProductPareto trie par CA décroissant puis pose les flags Pareto
func FlagProductPareto(products []*analysisdomain.GroupingProduct) {
	SortProductsByRevenue(products)

	revenues := make([]float64, len(products))
	for i, p := range products {
		revenues[i] = p.CurrentRevenue
	}
	for i, flag := range paretoFlags(revenues) {
		products[i].InPareto = flag
	}
}

// FlagResultPareto pose les flags Pareto sur des regroupements frères
// Le classement se fait par CA décroissant mais l'ordre déclaré des
// regroupements est conservé dans la sortie.
func FlagResultPareto(results []*analysisdomain.GroupingResult) {
	ranked := append([]*analysisdomain.GroupingResult{}, results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CurrentRevenue > ranked[j].CurrentRevenue
	})

	revenues := make([]float64, len(ranked))
	for i, r := range ranked {
		revenues[i] = r.CurrentRevenue
	}
	for i, flag := range paretoFlags(revenues) {
		ranked[i].InPareto = flag
	}
}
