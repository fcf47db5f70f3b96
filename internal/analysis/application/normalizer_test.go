package application

import (
	"testing"
	"time"

	catalogdomain "bilan/internal/catalog/domain"
	movementdomain "bilan/internal/movement/domain"
	shareddomain "bilan/internal/shared/domain"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func testPeriod(t *testing.T) shareddomain.Period {
	t.Helper()
	p, err := shareddomain.NewPeriod(day(2026, 1, 1), day(2026, 6, 30))
	if err != nil {
		t.Fatalf("period: %v", err)
	}
	return p
}

func testProduct(t *testing.T) *catalogdomain.Product {
	t.Helper()
	p, err := catalogdomain.NewProduct(
		1, "BAGUE SOLITAIRE 1", "OR", "BAGUE", "SOLITAIRE",
		[]string{"MARIAGE"}, "DIAMANT", 3.2, "img/1.jpg", day(2020, 1, 1),
	)
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	return p
}

func saleFact(date time.Time, qty int, revenue, cost, unitPrice float64) *movementdomain.MovementFact {
	return &movementdomain.MovementFact{
		ProductID:     1,
		Supplier:      "F001",
		Reference:     "REF1",
		StoreID:       1,
		Date:          date,
		Type:          movementdomain.MovementSale,
		QtySold:       qty,
		SaleRevenue:   revenue,
		PurchaseCost:  cost,
		UnitSalePrice: unitPrice,
	}
}

// TestNormalizer_WindowSplit vérifie la ventilation N / N-1 / hors fenêtre
func TestNormalizer_WindowSplit(t *testing.T) {
	n := NewNormalizer(testPeriod(t))

	facts := []*movementdomain.MovementFact{
		saleFact(day(2026, 3, 10), 2, 500, 200, 250), // fenêtre N
		saleFact(day(2025, 3, 10), 1, 240, 100, 240), // fenêtre N-1
		saleFact(day(2024, 3, 10), 5, 999, 400, 200), // hors des deux fenêtres
	}

	aggs := n.Normalize(testProduct(t), facts)
	if len(aggs) != 1 {
		t.Fatalf("got %d aggregates, want 1", len(aggs))
	}

	agg := aggs[0]
	if agg.CurrentSales != 2 || agg.PriorSales != 1 {
		t.Errorf("sales = %d/%d, want 2/1", agg.CurrentSales, agg.PriorSales)
	}
	if agg.CurrentRevenue != 500 || agg.PriorRevenue != 240 {
		t.Errorf("revenue = %v/%v, want 500/240", agg.CurrentRevenue, agg.PriorRevenue)
	}
	if agg.CurrentMargin != 300 || agg.PriorMargin != 140 {
		t.Errorf("margin = %v/%v, want 300/140", agg.CurrentMargin, agg.PriorMargin)
	}
}

// TestNormalizer_WindowBoundariesInclusive vérifie les bornes incluses
func TestNormalizer_WindowBoundariesInclusive(t *testing.T) {
	n := NewNormalizer(testPeriod(t))

	facts := []*movementdomain.MovementFact{
		saleFact(day(2026, 1, 1), 1, 100, 40, 100),
		saleFact(day(2026, 6, 30), 1, 100, 40, 100),
		saleFact(day(2026, 7, 1), 1, 100, 40, 100),
	}

	aggs := n.Normalize(testProduct(t), facts)
	if len(aggs) != 1 || aggs[0].CurrentSales != 2 {
		t.Fatalf("boundary days must count: got %+v", aggs)
	}
}

// TestNormalizer_StockIsCumulative vérifie le stock cumulé jusqu'à la fin
// de fenêtre, y compris les mouvements antérieurs au début
func TestNormalizer_StockIsCumulative(t *testing.T) {
	n := NewNormalizer(testPeriod(t))

	stock := func(date time.Time, qty int, cost float64) *movementdomain.MovementFact {
		return &movementdomain.MovementFact{
			ProductID: 1, Supplier: "F001", Reference: "REF1", StoreID: 1,
			Date: date, Type: movementdomain.MovementDelivery,
			QtyStock: qty, PurchaseCost: cost,
		}
	}

	facts := []*movementdomain.MovementFact{
		stock(day(2023, 5, 1), 3, 120), // avant les deux fenêtres : compte partout
		stock(day(2025, 4, 1), 2, 80),  // avant la fin N-1 : compte partout
		stock(day(2026, 2, 1), 1, 40),  // après la fin N-1 : compte en N seulement
		stock(day(2026, 8, 1), 9, 999), // après la fin N : ne compte nulle part
	}

	aggs := n.Normalize(testProduct(t), facts)
	if len(aggs) != 1 {
		t.Fatalf("got %d aggregates, want 1", len(aggs))
	}

	agg := aggs[0]
	if agg.CurrentStock != 6 || agg.PriorStock != 5 {
		t.Errorf("stock = %d/%d, want 6/5", agg.CurrentStock, agg.PriorStock)
	}
	if agg.CurrentStockCost != 240 || agg.PriorStockCost != 200 {
		t.Errorf("stock cost = %v/%v, want 240/200", agg.CurrentStockCost, agg.PriorStockCost)
	}
}

// TestNormalizer_DeliveryCostStaysOutOfMargin vérifie la séparation des coûts
// Le coût d'achat d'une entrée en stock ne sort que comme coût de stock :
// il ne doit jamais ronger la marge des ventes de la période.
func TestNormalizer_DeliveryCostStaysOutOfMargin(t *testing.T) {
	n := NewNormalizer(testPeriod(t))

	facts := []*movementdomain.MovementFact{
		saleFact(day(2026, 2, 1), 1, 100, 40, 100), // marge 60
		{
			ProductID: 1, Supplier: "F001", Reference: "REF1", StoreID: 1,
			Date: day(2026, 3, 1), Type: movementdomain.MovementDelivery,
			QtyStock: 2, PurchaseCost: 80,
		},
	}

	aggs := n.Normalize(testProduct(t), facts)
	if len(aggs) != 1 {
		t.Fatalf("got %d aggregates, want 1", len(aggs))
	}

	agg := aggs[0]
	if agg.CurrentMargin != 60 {
		t.Errorf("margin = %v, want 60 (delivery cost must not erode it)", agg.CurrentMargin)
	}
	if agg.CurrentRevenue != 100 {
		t.Errorf("revenue = %v, want 100", agg.CurrentRevenue)
	}
	if agg.CurrentStock != 2 || agg.CurrentStockCost != 80 {
		t.Errorf("stock = %d/%v, want 2/80", agg.CurrentStock, agg.CurrentStockCost)
	}
}

// TestNormalizer_UnitOrderDoublesPrice vérifie la valorisation au double
// du prix de base pour les commandes client
func TestNormalizer_UnitOrderDoublesPrice(t *testing.T) {
	n := NewNormalizer(testPeriod(t))

	facts := []*movementdomain.MovementFact{
		{
			ProductID: 1, Supplier: "F001", Reference: "REF1", StoreID: 1,
			Date: day(2026, 2, 15), Type: movementdomain.MovementUnitOrder,
			QtyUnitOrder: 1, SaleRevenue: 300, PurchaseCost: 60, UnitSalePrice: 150,
		},
	}

	aggs := n.Normalize(testProduct(t), facts)
	if len(aggs) != 1 {
		t.Fatalf("got %d aggregates, want 1", len(aggs))
	}

	agg := aggs[0]
	if agg.CurrentUnitOrders != 1 {
		t.Fatalf("unit orders = %d, want 1", agg.CurrentUnitOrders)
	}
	if len(agg.SaleEvents) != 1 || agg.SaleEvents[0].Price != 300 {
		t.Fatalf("event price = %+v, want a single event at 300", agg.SaleEvents)
	}
	if agg.SaleEvents[0].CurrentCount != 1 {
		t.Errorf("event count = %d, want 1", agg.SaleEvents[0].CurrentCount)
	}
}

// TestNormalizer_PublicPriceLatestNonZero vérifie la résolution du prix public
func TestNormalizer_PublicPriceLatestNonZero(t *testing.T) {
	n := NewNormalizer(testPeriod(t))

	withPublic := func(date time.Time, price float64, priceDate time.Time) *movementdomain.MovementFact {
		f := saleFact(date, 1, 100, 40, 100)
		f.PublicSalePrice = price
		f.PublicSalePriceDate = priceDate
		return f
	}

	facts := []*movementdomain.MovementFact{
		withPublic(day(2026, 1, 5), 390, day(2025, 6, 1)),
		withPublic(day(2026, 2, 5), 420, day(2026, 1, 1)), // plus récent : gagne
		withPublic(day(2026, 3, 5), 0, day(2026, 3, 1)),   // prix nul : ignoré
		withPublic(day(2026, 4, 5), 410, day(2025, 12, 1)),
	}

	aggs := n.Normalize(testProduct(t), facts)
	if aggs[0].PublicSalePrice != 420 {
		t.Errorf("public price = %v, want 420", aggs[0].PublicSalePrice)
	}
}

// TestNormalizer_PublicPriceSameDateHigherWins vérifie le départage à date égale
func TestNormalizer_PublicPriceSameDateHigherWins(t *testing.T) {
	n := NewNormalizer(testPeriod(t))
	sameDay := day(2026, 1, 1)

	withPublic := func(price float64) *movementdomain.MovementFact {
		f := saleFact(day(2026, 2, 1), 1, 100, 40, 100)
		f.PublicSalePrice = price
		f.PublicSalePriceDate = sameDay
		return f
	}

	facts := []*movementdomain.MovementFact{withPublic(390), withPublic(420), withPublic(400)}

	aggs := n.Normalize(testProduct(t), facts)
	if aggs[0].PublicSalePrice != 420 {
		t.Errorf("public price = %v, want 420", aggs[0].PublicSalePrice)
	}
}

// TestNormalizer_DropsAllZeroVariants vérifie l'élimination du bruit
func TestNormalizer_DropsAllZeroVariants(t *testing.T) {
	n := NewNormalizer(testPeriod(t))

	// Transfert sans quantité ni vente : la variante reste entièrement à zéro
	facts := []*movementdomain.MovementFact{
		{
			ProductID: 1, Supplier: "F001", Reference: "DEAD", StoreID: 1,
			Date: day(2026, 2, 1), Type: movementdomain.MovementTransfer,
		},
		saleFact(day(2026, 2, 1), 1, 100, 40, 100),
	}

	aggs := n.Normalize(testProduct(t), facts)
	if len(aggs) != 1 || aggs[0].Reference != "REF1" {
		t.Fatalf("all-zero variant must be dropped, got %d aggregates", len(aggs))
	}
}

// TestNormalizer_SplitsVariantsBySupplierReference vérifie la clé de variante
func TestNormalizer_SplitsVariantsBySupplierReference(t *testing.T) {
	n := NewNormalizer(testPeriod(t))

	f1 := saleFact(day(2026, 2, 1), 1, 100, 40, 100)
	f2 := saleFact(day(2026, 2, 2), 1, 200, 80, 200)
	f2.Reference = "REF2"
	f3 := saleFact(day(2026, 2, 3), 1, 150, 60, 150)
	f3.Supplier = "F002"

	aggs := n.Normalize(testProduct(t), []*movementdomain.MovementFact{f1, f2, f3})
	if len(aggs) != 3 {
		t.Fatalf("got %d aggregates, want 3", len(aggs))
	}

	// Ordre trié par clé fournisseur/référence
	if aggs[0].Reference != "REF1" || aggs[1].Reference != "REF2" || aggs[2].Supplier != "F002" {
		t.Errorf("unexpected variant order: %s/%s, %s/%s, %s/%s",
			aggs[0].Supplier, aggs[0].Reference,
			aggs[1].Supplier, aggs[1].Reference,
			aggs[2].Supplier, aggs[2].Reference)
	}
}

// TestNormalizer_DetailPerSizeAndStore vérifie l'éclatement du détail
func TestNormalizer_DetailPerSizeAndStore(t *testing.T) {
	n := NewNormalizer(testPeriod(t))

	f1 := saleFact(day(2026, 2, 1), 1, 100, 40, 100)
	f1.Size = "52"
	f2 := saleFact(day(2026, 2, 2), 1, 100, 40, 100)
	f2.Size = "54"
	f3 := saleFact(day(2026, 2, 3), 1, 100, 40, 100)
	f3.Size = "52"
	f3.StoreID = 2

	aggs := n.Normalize(testProduct(t), []*movementdomain.MovementFact{f1, f2, f3})
	if len(aggs) != 1 {
		t.Fatalf("got %d aggregates, want 1", len(aggs))
	}
	if len(aggs[0].Details) != 3 {
		t.Fatalf("got %d details, want 3", len(aggs[0].Details))
	}

	// Tri par taille puis magasin
	d := aggs[0].Details
	if d[0].Size != "52" || d[0].StoreID != 1 {
		t.Errorf("first detail = %s/%d", d[0].Size, d[0].StoreID)
	}
	if d[1].Size != "52" || d[1].StoreID != 2 {
		t.Errorf("second detail = %s/%d", d[1].Size, d[1].StoreID)
	}
	if d[2].Size != "54" {
		t.Errorf("third detail = %s", d[2].Size)
	}
}

// TestNormalizer_RoundsAtEveryStep vérifie l'arrondi monétaire par accumulation
func TestNormalizer_RoundsAtEveryStep(t *testing.T) {
	n := NewNormalizer(testPeriod(t))

	facts := []*movementdomain.MovementFact{
		saleFact(day(2026, 2, 1), 1, 10.004, 3.333, 10),
		saleFact(day(2026, 2, 2), 1, 10.004, 3.333, 10),
	}

	aggs := n.Normalize(testProduct(t), facts)
	// Chaque mouvement arrondi à 10.00 avant sommation : 20.00, pas 20.01
	if aggs[0].CurrentRevenue != 20 {
		t.Errorf("revenue = %v, want 20", aggs[0].CurrentRevenue)
	}
}
