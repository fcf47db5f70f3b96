package domain

import "testing"

// TestNewPriceTierTable_Validation vérifie le rejet des tables invalides
func TestNewPriceTierTable_Validation(t *testing.T) {
	if _, err := NewPriceTierTable(nil); err == nil {
		t.Error("empty table should be rejected")
	}

	_, err := NewPriceTierTable([]PriceTier{
		{MinPrice: 100},
		{MinPrice: 100},
	})
	if err == nil {
		t.Error("non-ascending thresholds should be rejected")
	}

	_, err = NewPriceTierTable([]PriceTier{
		{MinPrice: 300},
		{MinPrice: 200},
	})
	if err == nil {
		t.Error("descending thresholds should be rejected")
	}
}

// TestPriceTierTable_Locate vérifie le rattachement à la première gamme
// dont le seuil dépasse strictement le prix
func TestPriceTierTable_Locate(t *testing.T) {
	table := DefaultPriceTierTable()

	cases := []struct {
		name    string
		price   float64
		wantIdx int
		wantOK  bool
	}{
		{"below first threshold", 50, 0, true},
		{"between 200 and 300", 250, 2, true},
		{"exactly on a threshold goes up", 300, 3, true},
		{"just under top threshold", 999998.99, 13, true},
		{"at top threshold stays unbucketed", 999999, 0, false},
		{"above top threshold stays unbucketed", 1500000, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			idx, ok := table.Locate(tc.price)
			if idx != tc.wantIdx || ok != tc.wantOK {
				t.Errorf("Locate(%v) = (%d, %v), want (%d, %v)",
					tc.price, idx, ok, tc.wantIdx, tc.wantOK)
			}
		})
	}
}

// TestDefaultPriceTierTable_Shape vérifie la table de référence
func TestDefaultPriceTierTable_Shape(t *testing.T) {
	table := DefaultPriceTierTable()
	if table.Len() != 14 {
		t.Fatalf("default table has %d tiers, want 14", table.Len())
	}

	tiers := table.Tiers()
	if tiers[0].MinPrice != 100 {
		t.Errorf("first threshold = %v, want 100", tiers[0].MinPrice)
	}
	if tiers[13].MinPrice != 999999 {
		t.Errorf("last threshold = %v, want 999999", tiers[13].MinPrice)
	}
}

// TestPriceTierTable_TiersReturnsCopy vérifie l'immuabilité de la table
func TestPriceTierTable_TiersReturnsCopy(t *testing.T) {
	table := DefaultPriceTierTable()
	tiers := table.Tiers()
	tiers[0].MinPrice = 1

	if table.Tiers()[0].MinPrice != 100 {
		t.Error("mutating the returned slice must not affect the table")
	}
}
