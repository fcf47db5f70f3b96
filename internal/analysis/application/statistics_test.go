package application

import (
	"math"
	"testing"

	analysisdomain "bilan/internal/analysis/domain"
)

// TestMedian vérifie la médiane d'ordre sur listes paire, impaire et vide
func TestMedian(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd length", []float64{300, 100, 200}, 200},
		{"even length averages middles", []float64{100, 200, 300, 400}, 250},
		{"single value", []float64{42}, 42},
		{"repeated values", []float64{100, 100, 100, 100}, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Median(tc.values); got != tc.want {
				t.Errorf("Median(%v) = %v, want %v", tc.values, got, tc.want)
			}
		})
	}
}

// TestMedian_EmptyIsNaN vérifie qu'une liste vide donne une médiane indéfinie
func TestMedian_EmptyIsNaN(t *testing.T) {
	if got := Median(nil); !math.IsNaN(got) {
		t.Errorf("Median(nil) = %v, want NaN", got)
	}
}

// TestMedian_DoesNotMutateInput vérifie que l'entrée n'est pas triée en place
func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{300, 100, 200}
	Median(values)
	if values[0] != 300 || values[1] != 100 || values[2] != 200 {
		t.Errorf("input mutated: %v", values)
	}
}

// TestParetoFlags vérifie la règle du cumul AVANT l'élément
// Exemple de référence : 500, 300, 150, 50. Le cumul avant le troisième
// élément atteint exactement 80 %, qui ne passe plus le seuil strict.
func TestParetoFlags(t *testing.T) {
	flags := paretoFlags([]float64{500, 300, 150, 50})
	want := []bool{true, true, false, false}

	for i := range want {
		if flags[i] != want[i] {
			t.Errorf("flags[%d] = %v, want %v", i, flags[i], want[i])
		}
	}
}

// TestParetoFlags_FirstAlwaysIn vérifie que le premier élément est toujours retenu
func TestParetoFlags_FirstAlwaysIn(t *testing.T) {
	flags := paretoFlags([]float64{1000})
	if !flags[0] {
		t.Error("first element has zero cumulative share and is always in")
	}
}

// TestParetoFlags_EqualRevenues vérifie la répartition sur CA identiques
func TestParetoFlags_EqualRevenues(t *testing.T) {
	flags := paretoFlags([]float64{100, 100, 100, 100})
	// cumuls avant : 0 %, 25 %, 50 %, 75 % — tous < 80 %
	for i, f := range flags {
		if !f {
			t.Errorf("flags[%d] = false, want true", i)
		}
	}

	flags = paretoFlags([]float64{100, 100, 100, 100, 100})
	// cumuls avant : 0, 20, 40, 60, 80 — le dernier sort
	if flags[4] {
		t.Error("fifth element sits exactly at 80% and must be out")
	}
}

// TestSortProductsByRevenue_Stable vérifie le tri stable par CA décroissant
func TestSortProductsByRevenue_Stable(t *testing.T) {
	products := []*analysisdomain.GroupingProduct{
		{Reference: "A", CurrentRevenue: 100},
		{Reference: "B", CurrentRevenue: 300},
		{Reference: "C", CurrentRevenue: 100},
	}

	SortProductsByRevenue(products)

	if products[0].Reference != "B" {
		t.Errorf("first = %s, want B", products[0].Reference)
	}
	// Égalité de CA : A reste devant C
	if products[1].Reference != "A" || products[2].Reference != "C" {
		t.Errorf("ties reordered: %s, %s", products[1].Reference, products[2].Reference)
	}
}

// TestFlagResultPareto_PreservesDeclaredOrder vérifie que le classement
// Pareto ne réordonne pas la fratrie de regroupements
func TestFlagResultPareto_PreservesDeclaredOrder(t *testing.T) {
	results := []*analysisdomain.GroupingResult{
		{Label: "small", CurrentRevenue: 50},
		{Label: "big", CurrentRevenue: 900},
		{Label: "mid", CurrentRevenue: 50},
	}

	FlagResultPareto(results)

	if results[0].Label != "small" || results[1].Label != "big" || results[2].Label != "mid" {
		t.Fatal("declared sibling order must be preserved")
	}
	if !results[1].InPareto {
		t.Error("dominant grouping must be in the Pareto")
	}
	if results[0].InPareto || results[2].InPareto {
		t.Error("tail groupings past 80% must be out")
	}
}

// BenchmarkMedian_10kPrices mesure la médiane sur une liste pondérée réaliste
func BenchmarkMedian_10kPrices(b *testing.B) {
	values := make([]float64, 10000)
	for i := range values {
		values[i] = float64((i*37)%5000) + 0.99
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = Median(values)
	}
}
