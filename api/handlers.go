package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	analysisapp "bilan/internal/analysis/application"
	analysisdomain "bilan/internal/analysis/domain"
	exportapp "bilan/internal/export/application"
	shareddomain "bilan/internal/shared/domain"
	sharedinfra "bilan/internal/shared/infrastructure"
)

// Handlers contient les handlers HTTP du bilan
type Handlers struct {
	analysisService *analysisapp.AnalysisService
	exportService   *exportapp.ExportService
	log             *sharedinfra.Logger
}

// NewHandlers crée une nouvelle instance des handlers
func NewHandlers(
	analysisService *analysisapp.AnalysisService,
	exportService *exportapp.ExportService,
	log *sharedinfra.Logger,
) *Handlers {
	return &Handlers{
		analysisService: analysisService,
		exportService:   exportService,
		log:             log,
	}
}

// parseRequest construit la requête d'analyse depuis les paramètres d'URL
func parseRequest(r *http.Request) (analysisdomain.AnalysisRequest, error) {
	q := r.URL.Query()

	start, err := time.Parse("2006-01-02", q.Get("start"))
	if err != nil {
		return analysisdomain.AnalysisRequest{}, err
	}
	end, err := time.Parse("2006-01-02", q.Get("end"))
	if err != nil {
		return analysisdomain.AnalysisRequest{}, err
	}

	req := analysisdomain.AnalysisRequest{
		Start:       start,
		End:         end,
		Departments: splitList(q.Get("departments")),
	}

	if req.StoreIDs, err = splitIDs(q.Get("stores")); err != nil {
		return analysisdomain.AnalysisRequest{}, err
	}
	if req.SupplierIDs, err = splitIDs(q.Get("suppliers")); err != nil {
		return analysisdomain.AnalysisRequest{}, err
	}

	return req, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func splitIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Analyze handler pour GET /api/analysis
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		http.Error(w, "invalid parameters", http.StatusBadRequest)
		return
	}

	results, err := h.analysisService.Analyze(req, nil)
	if err != nil {
		h.log.WithError(err).Error("analysis failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resultsToJSON(results))
}

// ExportCSV handler pour GET /api/export/csv
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "text/csv", "bilan.csv", h.exportService.ExportCSV)
}

// ExportXLSX handler pour GET /api/export/xlsx
func (h *Handlers) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"bilan.xlsx", h.exportService.ExportXLSX)
}

// ExportParquet handler pour GET /api/export/parquet
func (h *Handlers) ExportParquet(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "application/octet-stream", "bilan.parquet", h.exportService.ExportParquet)
}

func (h *Handlers) export(
	w http.ResponseWriter,
	r *http.Request,
	contentType, filename string,
	fn func(analysisdomain.AnalysisRequest) ([]byte, error),
) {
	req, err := parseRequest(r)
	if err != nil {
		http.Error(w, "invalid parameters", http.StatusBadRequest)
		return
	}

	data, err := fn(req)
	if err != nil {
		h.log.WithError(err).Error("export failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(data)
}

// resultsToJSON convertit l'arbre de résultats en structure sérialisable
// encoding/json refuse NaN/Inf : les parts non finies sortent en null.
func resultsToJSON(results []*analysisdomain.GroupingResult) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		out = append(out, resultToJSON(r))
	}
	return out
}

func resultToJSON(r *analysisdomain.GroupingResult) map[string]interface{} {
	ranges := make([]map[string]interface{}, 0, len(r.Ranges))
	for i := range r.Ranges {
		ranges = append(ranges, rangeToJSON(&r.Ranges[i]))
	}

	products := make([]map[string]interface{}, 0, len(r.Products))
	for _, p := range r.Products {
		products = append(products, productToJSON(p))
	}

	m := map[string]interface{}{
		"label":               r.Label,
		"current_sales":       r.CurrentSales,
		"prior_sales":         r.PriorSales,
		"sales_diff":          r.SalesDiff,
		"current_revenue":     r.CurrentRevenue,
		"prior_revenue":       r.PriorRevenue,
		"revenue_diff":        r.RevenueDiff,
		"current_margin":      r.CurrentMargin,
		"prior_margin":        r.PriorMargin,
		"margin_diff":         r.MarginDiff,
		"current_stock":       r.CurrentStock,
		"prior_stock":         r.PriorStock,
		"stock_diff":          r.StockDiff,
		"current_stock_cost":  r.CurrentStockCost,
		"prior_stock_cost":    r.PriorStockCost,
		"stock_cost_diff":     r.StockCostDiff,
		"revenue_share":       floatOrNil(r.RevenueShare),
		"prior_revenue_share": floatOrNil(r.PriorRevenueShare),
		"revenue_share_diff":  floatOrNil(r.RevenueShareDiff),
		"median_price":        floatOrNil(r.MedianPrice),
		"in_pareto":           r.InPareto,
		"products":            products,
		"ranges":              ranges,
	}

	if len(r.Children) > 0 {
		m["children"] = resultsToJSON(r.Children)
	}

	return m
}

func rangeToJSON(rng *analysisdomain.GroupingRange) map[string]interface{} {
	products := make([]map[string]interface{}, 0, len(rng.Products))
	for _, p := range rng.Products {
		products = append(products, productToJSON(p))
	}

	return map[string]interface{}{
		"min_price":          rng.Tier.MinPrice,
		"current_sales":      rng.CurrentSales,
		"prior_sales":        rng.PriorSales,
		"current_revenue":    rng.CurrentRevenue,
		"prior_revenue":      rng.PriorRevenue,
		"current_stock":      rng.CurrentStock,
		"prior_stock":        rng.PriorStock,
		"current_stock_cost": rng.CurrentStockCost,
		"prior_stock_cost":   rng.PriorStockCost,
		"is_median":          rng.IsMedian,
		"products":           products,
	}
}

func productToJSON(p *analysisdomain.GroupingProduct) map[string]interface{} {
	var bestPrice interface{}
	if p.BestSalePrice != nil {
		bestPrice = *p.BestSalePrice
	}

	return map[string]interface{}{
		"supplier":            p.Supplier,
		"reference":           p.Reference,
		"department":          p.Department,
		"group":               p.Group,
		"family":              p.Family,
		"stone":               p.Stone,
		"current_sales":       p.CurrentSales,
		"prior_sales":         p.PriorSales,
		"current_unit_orders": p.CurrentUnitOrders,
		"prior_unit_orders":   p.PriorUnitOrders,
		"current_revenue":     p.CurrentRevenue,
		"prior_revenue":       p.PriorRevenue,
		"current_margin":      p.CurrentMargin,
		"prior_margin":        p.PriorMargin,
		"current_stock":       p.CurrentStock,
		"prior_stock":         p.PriorStock,
		"current_stock_cost":  p.CurrentStockCost,
		"prior_stock_cost":    p.PriorStockCost,
		"revenue_share":       floatOrNil(p.RevenueShare),
		"prior_revenue_share": floatOrNil(p.PriorRevenueShare),
		"revenue_share_diff":  floatOrNil(p.RevenueShareDiff),
		"best_sale_price":     bestPrice,
		"public_sale_price":   p.PublicSalePrice,
		"in_pareto":           p.InPareto,
	}
}

func floatOrNil(v float64) interface{} {
	if !shareddomain.IsDefined(v) {
		return nil
	}
	return v
}
