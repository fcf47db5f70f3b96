package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/joho/godotenv"

	"bilan/api"
	"bilan/database"
	analysisapp "bilan/internal/analysis/application"
	analysisdomain "bilan/internal/analysis/domain"
	cataloginfra "bilan/internal/catalog/infrastructure"
	exportapp "bilan/internal/export/application"
	movementinfra "bilan/internal/movement/infrastructure"
	sharedinfra "bilan/internal/shared/infrastructure"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Pas de fichier .env, utilisation des variables d'environnement")
	}

	log := sharedinfra.NewLogger()

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", "postgres"),
		envOr("DB_NAME", "bilan"),
	)

	if err := database.Init("postgres", connStr); err != nil {
		log.WithError(err).Fatal("connexion base de données impossible")
	}
	defer database.Close()

	if err := database.EnsureSchema(); err != nil {
		log.WithError(err).Fatal("création du schéma impossible")
	}

	productRepo := cataloginfra.NewProductQueryRepository(database.DB)
	movementRepo := movementinfra.NewMovementQueryRepository(database.DB)

	engine := analysisapp.NewEngine(analysisdomain.DefaultPriceTierTable(), 4, log)
	cache := sharedinfra.NewShardedCache(16)

	analysisService := analysisapp.NewAnalysisService(
		productRepo,
		movementRepo,
		engine,
		analysisdomain.DefaultGroupings(),
		cache,
		log,
	)
	exportService := exportapp.NewExportService(analysisService, log)

	handlers := api.NewHandlers(analysisService, exportService, log)

	http.HandleFunc("/api/health", healthHandler)
	http.HandleFunc("/api/analysis", handlers.Analyze)
	http.HandleFunc("/api/export/csv", handlers.ExportCSV)
	http.HandleFunc("/api/export/xlsx", handlers.ExportXLSX)
	http.HandleFunc("/api/export/parquet", handlers.ExportParquet)

	addr := ":" + envOr("PORT", "8080")
	log.WithField("addr", addr).Info("serveur démarré")
	log.Fatal(http.ListenAndServe(addr, nil))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}
