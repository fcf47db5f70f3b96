package application

import (
	"fmt"

	"github.com/google/uuid"

	analysisdomain "bilan/internal/analysis/domain"
	catalogdomain "bilan/internal/catalog/domain"
	movementdomain "bilan/internal/movement/domain"
	shareddomain "bilan/internal/shared/domain"
	sharedinfra "bilan/internal/shared/infrastructure"
)

// ProductFacts associe un produit du catalogue à ses mouvements matérialisés
type ProductFacts struct {
	Product *catalogdomain.Product
	Facts   []*movementdomain.MovementFact
}

// Engine orchestre l'analyse complète : normalisation en éventail par
// produit, classification niveau par niveau, agrégation et Pareto global.
type Engine struct {
	tiers       analysisdomain.PriceTierTable
	classifier  *Classifier
	aggregator  *Aggregator
	workerCount int
	log         *sharedinfra.Logger
}

// NewEngine crée un moteur d'analyse
func NewEngine(tiers analysisdomain.PriceTierTable, workerCount int, log *sharedinfra.Logger) *Engine {
	if workerCount <= 0 {
		workerCount = 4
	}
	return &Engine{
		tiers:       tiers,
		classifier:  NewClassifier(),
		aggregator:  NewAggregator(tiers),
		workerCount: workerCount,
		log:         log,
	}
}

// Run exécute une analyse sur des mouvements déjà matérialisés
// Les produits sont normalisés en parallèle (aucun état partagé entre eux) ;
// l'avancement transite par un canal à écrivain unique vers le callback.
// Une analyse démarrée va au bout : pas d'annulation interne, un timeout
// éventuel enveloppe l'appel complet côté appelant.
func (e *Engine) Run(
	req analysisdomain.AnalysisRequest,
	groupings []*analysisdomain.Grouping,
	inputs []ProductFacts,
	progress analysisdomain.ProgressFunc,
) ([]*analysisdomain.GroupingResult, error) {
	period, err := req.Period()
	if err != nil {
		return nil, fmt.Errorf("invalid analysis period: %w", err)
	}

	runID := uuid.New().String()
	log := e.log.WithRun(runID)
	log.WithField("products", len(inputs)).Info("analysis run started")

	aggregates := e.normalizeAll(period, inputs, progress)
	results := e.classifyAll(groupings, aggregates)

	log.WithField("groupings", len(results)).Info("analysis run completed")
	return results, nil
}

// normalizeAll normalise chaque produit sur le pool de workers
// Chaque tâche écrit dans sa propre case du slice pré-dimensionné ; seul le
// compteur d'avancement est partagé, via le canal collecteur.
func (e *Engine) normalizeAll(
	period shareddomain.Period,
	inputs []ProductFacts,
	progress analysisdomain.ProgressFunc,
) []*analysisdomain.VariantAggregate {
	normalizer := NewNormalizer(period)
	perProduct := make([][]*analysisdomain.VariantAggregate, len(inputs))

	notify := make(chan struct{}, len(inputs))
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		done := 0
		for range notify {
			done++
			if progress != nil {
				progress(analysisdomain.Progress{Current: done, Total: len(inputs)})
			}
		}
	}()

	pool := sharedinfra.NewWorkerPool(e.workerCount)
	pool.Start()

	for i := range inputs {
		idx := i
		input := inputs[i]
		_ = pool.Submit(func() error {
			perProduct[idx] = normalizer.Normalize(input.Product, input.Facts)
			notify <- struct{}{}
			return nil
		})
	}

	pool.Wait()
	close(notify)
	<-collectorDone

	var aggregates []*analysisdomain.VariantAggregate
	for _, list := range perProduct {
		aggregates = append(aggregates, list...)
	}
	return aggregates
}

// classifyAll répartit les agrégats dans la taxonomie déclarée
// Chaque regroupement de tête consomme dans le pool restant ; le reliquat
// final alimente un "Autres" de tête, jamais écarté.
func (e *Engine) classifyAll(
	groupings []*analysisdomain.Grouping,
	aggregates []*analysisdomain.VariantAggregate,
) []*analysisdomain.GroupingResult {
	var results []*analysisdomain.GroupingResult
	pool := aggregates

	for _, grouping := range groupings {
		var matched []*analysisdomain.VariantAggregate
		matched, pool = e.classifier.Partition(grouping, pool)
		results = append(results, e.buildResult(grouping, matched))
	}

	if len(pool) > 0 {
		results = append(results, e.buildResult(analysisdomain.NewOtherGrouping(), pool))
	}

	total := 0.0
	priorTotal := 0.0
	for _, r := range results {
		total += r.CurrentRevenue
		priorTotal += r.PriorRevenue
	}
	applyShares(results, total, priorTotal)
	FlagResultPareto(results)

	return results
}

// buildResult agrège un nœud puis descend dans ses sous-regroupements
func (e *Engine) buildResult(
	grouping *analysisdomain.Grouping,
	members []*analysisdomain.VariantAggregate,
) *analysisdomain.GroupingResult {
	result := e.aggregator.Aggregate(grouping.Label, members)

	if len(grouping.Children) == 0 {
		return result
	}

	pool := members
	for _, child := range grouping.Children {
		var matched []*analysisdomain.VariantAggregate
		matched, pool = e.classifier.Partition(child, pool)
		result.Children = append(result.Children, e.buildResult(child, matched))
	}

	if len(pool) > 0 {
		result.Children = append(result.Children, e.buildResult(analysisdomain.NewOtherGrouping(), pool))
	}

	applyShares(result.Children, result.CurrentRevenue, result.PriorRevenue)
	FlagResultPareto(result.Children)

	return result
}

// applyShares pose les parts de CA d'une fratrie par rapport au total parent
// Division non gardée : un total nul propage une part non finie.
func applyShares(results []*analysisdomain.GroupingResult, total, priorTotal float64) {
	for _, r := range results {
		r.RevenueShare = shareddomain.Percentage(r.CurrentRevenue, total)
		r.PriorRevenueShare = shareddomain.Percentage(r.PriorRevenue, priorTotal)
		r.RevenueShareDiff = r.RevenueShare - r.PriorRevenueShare
	}
}
