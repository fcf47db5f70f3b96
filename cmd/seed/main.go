package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"bilan/database"

	"github.com/joho/godotenv"
)

func main() {
	// Charge .env
	err := godotenv.Load()
	if err != nil {
		log.Println("Attention: fichier .env non trouvé, utilisation des valeurs par défaut")
	}

	// Connexion PostgreSQL
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "bilan"),
		getEnv("DB_SSLMODE", "disable"),
	)

	err = database.Init("postgres", connStr)
	if err != nil {
		log.Fatal("❌ Erreur connexion DB:", err)
	}
	defer database.Close()

	fmt.Println("✅ Connexion PostgreSQL établie")

	if err := database.EnsureSchema(); err != nil {
		log.Fatal("❌ Erreur création schéma:", err)
	}

	products, _ := strconv.Atoi(getEnv("SEED_PRODUCTS", "500"))
	stores, _ := strconv.Atoi(getEnv("SEED_STORES", "8"))

	fmt.Println("🌱 Démarrage du seed de la base de données...")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	err = database.SeedDatabase(products, stores)
	if err != nil {
		log.Fatal("❌ Erreur lors du seed:", err)
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("✅ Seed terminé avec succès!")
	fmt.Println()
	fmt.Println("Vous pouvez maintenant démarrer l'application avec:")
	fmt.Println("  go run main.go")
	fmt.Println()
	fmt.Println("Et tester les endpoints:")
	fmt.Println("  http://localhost:8080/api/analysis?start=2026-01-01&end=2026-06-30")
	fmt.Println("  http://localhost:8080/api/export/csv?start=2026-01-01&end=2026-06-30")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
