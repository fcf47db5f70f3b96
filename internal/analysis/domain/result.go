package domain

// GroupingProduct représente la ligne produit au sein d'un regroupement
// Les parts de chiffre d'affaires peuvent être non finies quand le total de
// référence est nul ; elles se propagent telles quelles.
type GroupingProduct struct {
	Supplier   string
	Reference  string
	Department string
	Group      string
	Family     string
	Stone      string

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

	BestSalePrice   *float64
	PublicSalePrice float64
	InPareto        bool
}

// GroupingRange représente une gamme de prix au sein d'un regroupement
type GroupingRange struct {
	Tier PriceTier

	CurrentSales     int
	PriorSales       int
	CurrentRevenue   float64
	PriorRevenue     float64
	CurrentStock     int
	PriorStock       int
	CurrentStockCost float64
	PriorStockCost   float64

	// Products liste les contributions à cette gamme, triées par CA décroissant
	Products []*GroupingProduct

	IsMedian bool
}

// GroupingResult représente le résultat d'analyse d'un nœud de taxonomie
type GroupingResult struct {
	Label string

	Products []*GroupingProduct
	Ranges   []GroupingRange

	CurrentSales int
	PriorSales   int
	SalesDiff    int

	CurrentRevenue float64
	PriorRevenue   float64
	RevenueDiff    float64

	CurrentMargin float64
	PriorMargin   float64
	MarginDiff    float64

	CurrentStock int
	PriorStock   int
	StockDiff    int

	CurrentStockCost float64
	PriorStockCost   float64
	StockCostDiff    float64

	RevenueShare      float64
	PriorRevenueShare float64
	RevenueShareDiff  float64

	// MedianPrice est NaN quand le regroupement n'a aucune vente
	MedianPrice float64

	InPareto bool

	Children []*GroupingResult
}

// IsLeaf vérifie si le résultat n'a pas de sous-regroupements
func (r *GroupingResult) IsLeaf() bool {
	return len(r.Children) == 0
}
