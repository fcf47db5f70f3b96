package application

import (
	"testing"
	"time"

	analysisdomain "bilan/internal/analysis/domain"
	sharedinfra "bilan/internal/shared/infrastructure"
	"bilan/internal/testhelpers"
)

// ========================================
// INTEGRATION TESTS - REAL DATABASE
// ========================================

// setupAnalysisService crée le service d'analyse complet sur le contexte de test
func setupAnalysisService(ctx *testhelpers.TestContext) *AnalysisService {
	log := sharedinfra.NewLogger()
	engine := NewEngine(analysisdomain.DefaultPriceTierTable(), 4, log)
	return NewAnalysisService(
		ctx.ProductQueryRepo,
		ctx.MovementQueryRepo,
		engine,
		analysisdomain.DefaultGroupings(),
		ctx.Cache,
		log,
	)
}

func serviceRequest() analysisdomain.AnalysisRequest {
	end := time.Now()
	return analysisdomain.AnalysisRequest{
		Start: end.AddDate(0, -6, 0),
		End:   end,
	}
}

// TestAnalysisService_Analyze_Integration vérifie une analyse de bout en bout
func TestAnalysisService_Analyze_Integration(t *testing.T) {
	testhelpers.SkipIfNoDatabase(t)

	ctx := testhelpers.SetupTestContext(t)
	defer ctx.Cleanup()

	service := setupAnalysisService(ctx)

	results, err := service.Analyze(serviceRequest(), nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one grouping result")
	}

	for _, r := range results {
		if r.Label == "" {
			t.Error("every grouping carries a label")
		}
		if len(r.Ranges) != analysisdomain.DefaultPriceTierTable().Len() {
			t.Errorf("%s: %d ranges, want one per tier", r.Label, len(r.Ranges))
		}
	}
}

// TestAnalysisService_CacheHit vérifie la réutilisation du résultat en cache
func TestAnalysisService_CacheHit(t *testing.T) {
	testhelpers.SkipIfNoDatabase(t)

	ctx := testhelpers.SetupTestContext(t)
	defer ctx.Cleanup()

	service := setupAnalysisService(ctx)
	req := serviceRequest()

	first, err := service.Analyze(req, nil)
	if err != nil {
		t.Fatalf("first analyze: %v", err)
	}

	// Le second appel doit servir exactement le même arbre depuis le cache
	second, err := service.Analyze(req, nil)
	if err != nil {
		t.Fatalf("second analyze: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("cached result differs: %d vs %d groupings", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Error("cache hit must return the same result pointers")
		}
	}

	// Après invalidation, le service recalcule
	service.InvalidateCache(req)
	third, err := service.Analyze(req, nil)
	if err != nil {
		t.Fatalf("third analyze: %v", err)
	}
	if len(third) != len(first) {
		t.Errorf("recomputed result differs in shape: %d vs %d", len(third), len(first))
	}
}

// BenchmarkAnalysisService_Analyze_Cold mesure l'analyse sans cache
func BenchmarkAnalysisService_Analyze_Cold(b *testing.B) {
	testhelpers.SkipIfNoDatabase(b)

	ctx := testhelpers.SetupTestContext(b)
	defer ctx.Cleanup()

	service := setupAnalysisService(ctx)
	req := serviceRequest()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		service.ClearCache()
		if _, err := service.Analyze(req, nil); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkAnalysisService_Analyze_Warm mesure le chemin cache
func BenchmarkAnalysisService_Analyze_Warm(b *testing.B) {
	testhelpers.SkipIfNoDatabase(b)

	ctx := testhelpers.SetupTestContext(b)
	defer ctx.Cleanup()

	service := setupAnalysisService(ctx)
	req := serviceRequest()

	if _, err := service.Analyze(req, nil); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := service.Analyze(req, nil); err != nil {
			b.Fatal(err)
		}
	}
}
