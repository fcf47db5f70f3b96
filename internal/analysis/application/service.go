package application

import (
	"fmt"
	"time"

	analysisdomain "bilan/internal/analysis/domain"
	cataloginfra "bilan/internal/catalog/infrastructure"
	movementinfra "bilan/internal/movement/infrastructure"
	sharedinfra "bilan/internal/shared/infrastructure"
)

// AnalysisService service d'analyse avec cache par paramètres de requête
type AnalysisService struct {
	productRepo  *cataloginfra.ProductQueryRepository
	movementRepo *movementinfra.MovementQueryRepository
	engine       *Engine
	groupings    []*analysisdomain.Grouping
	cache        sharedinfra.Cache
	cacheTTL     time.Duration
	log          *sharedinfra.Logger
}

// NewAnalysisService crée une nouvelle instance de AnalysisService
func NewAnalysisService(
	productRepo *cataloginfra.ProductQueryRepository,
	movementRepo *movementinfra.MovementQueryRepository,
	engine *Engine,
	groupings []*analysisdomain.Grouping,
	cache sharedinfra.Cache,
	log *sharedinfra.Logger,
) *AnalysisService {
	return &AnalysisService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		engine:       engine,
		groupings:    groupings,
		cache:        cache,
		cacheTTL:     5 * time.Minute,
		log:          log,
	}
}

// Analyze exécute l'analyse pour une requête, avec cache en lecture
// Une même requête sur les mêmes faits produit un arbre identique : le
// résultat est réutilisable tel quel pendant le TTL.
func (s *AnalysisService) Analyze(
	req analysisdomain.AnalysisRequest,
	progress analysisdomain.ProgressFunc,
) ([]*analysisdomain.GroupingResult, error) {
	cacheKey := s.buildCacheKey(req)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]*analysisdomain.GroupingResult), nil
	}

	inputs, err := s.materialize(req)
	if err != nil {
		return nil, err
	}

	results, err := s.engine.Run(req, s.groupings, inputs, progress)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, results, s.cacheTTL)
	return results, nil
}

// materialize charge les produits du périmètre puis leurs mouvements
// Le filtrage magasin/fournisseur se fait ici, en amont du moteur.
func (s *AnalysisService) materialize(req analysisdomain.AnalysisRequest) ([]ProductFacts, error) {
	products, err := s.productRepo.FindForAnalysis(req.Departments, req.SupplierIDs)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}

	inputs := make([]ProductFacts, 0, len(products))
	for _, product := range products {
		facts, err := s.movementRepo.FindByProduct(int64(product.ID()), req.StoreIDs, nil)
		if err != nil {
			return nil, fmt.Errorf("loading movements for product %d: %w", product.ID(), err)
		}
		inputs = append(inputs, ProductFacts{Product: product, Facts: facts})
	}

	return inputs, nil
}

// buildCacheKey construit la clé de cache d'une requête d'analyse
func (s *AnalysisService) buildCacheKey(req analysisdomain.AnalysisRequest) string {
	return sharedinfra.NewCacheKeyBuilder().
		Add("analysis").
		AddDate(req.Start).
		AddDate(req.End).
		AddStrings(req.Departments).
		AddInt64s(req.StoreIDs).
		AddInt64s(req.SupplierIDs).
		Build()
}

// InvalidateCache invalide le cache d'une requête donnée
func (s *AnalysisService) InvalidateCache(req analysisdomain.AnalysisRequest) {
	s.cache.Delete(s.buildCacheKey(req))
}

// ClearCache vide tout le cache
func (s *AnalysisService) ClearCache() {
	s.cache.Clear()
}
