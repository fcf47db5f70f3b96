package main

import (
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	analysisapp "bilan/internal/analysis/application"
	analysisdomain "bilan/internal/analysis/domain"
	catalogdomain "bilan/internal/catalog/domain"
	exportdomain "bilan/internal/export/domain"
	movementdomain "bilan/internal/movement/domain"
	sharedinfra "bilan/internal/shared/infrastructure"
)

// Analyse hors ligne sur un instantané SQLite : mêmes calculs que le
// service, sans serveur ni PostgreSQL. Le CSV sort sur stdout ou -out.
func main() {
	dbPath := flag.String("db", "bilan.db", "chemin de l'instantané SQLite")
	startStr := flag.String("start", "", "début de période (AAAA-MM-JJ)")
	endStr := flag.String("end", "", "fin de période (AAAA-MM-JJ)")
	depts := flag.String("departments", "", "rayons, séparés par des virgules")
	out := flag.String("out", "", "fichier CSV de sortie (défaut: stdout)")
	workers := flag.Int("workers", 4, "nombre de workers de normalisation")
	flag.Parse()

	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		fatalf("date de début invalide: %v", err)
	}
	end, err := time.Parse("2006-01-02", *endStr)
	if err != nil {
		fatalf("date de fin invalide: %v", err)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		fatalf("ouverture de l'instantané: %v", err)
	}
	defer db.Close()

	req := analysisdomain.AnalysisRequest{
		Start: start,
		End:   end,
	}
	if *depts != "" {
		req.Departments = strings.Split(*depts, ",")
	}

	inputs, err := loadInputs(db, req.Departments)
	if err != nil {
		fatalf("chargement de l'instantané: %v", err)
	}

	log := sharedinfra.NewLogger()
	engine := analysisapp.NewEngine(analysisdomain.DefaultPriceTierTable(), *workers, log)

	results, err := engine.Run(req, analysisdomain.DefaultGroupings(), inputs,
		func(p analysisdomain.Progress) {
			fmt.Fprintf(os.Stderr, "\rproduits analysés: %d/%d", p.Current, p.Total)
		})
	if err != nil {
		fatalf("analyse: %v", err)
	}
	fmt.Fprintln(os.Stderr)

	if err := writeCSV(*out, results); err != nil {
		fatalf("écriture CSV: %v", err)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// loadInputs matérialise produits et mouvements depuis l'instantané
// Placeholders "?" : la requête ne vise que SQLite.
func loadInputs(db *sql.DB, departments []string) ([]analysisapp.ProductFacts, error) {
	products, err := loadProducts(db, departments)
	if err != nil {
		return nil, err
	}

	inputs := make([]analysisapp.ProductFacts, 0, len(products))
	for _, product := range products {
		facts, err := loadMovements(db, int64(product.ID()))
		if err != nil {
			return nil, fmt.Errorf("mouvements du produit %d: %w", product.ID(), err)
		}
		inputs = append(inputs, analysisapp.ProductFacts{Product: product, Facts: facts})
	}

	return inputs, nil
}

func loadProducts(db *sql.DB, departments []string) ([]*catalogdomain.Product, error) {
	query := `
		SELECT id, name, department, grp, family, family_keywords, stone, weight, image, created_at
		FROM products`
	args := make([]interface{}, 0, len(departments))
	if len(departments) > 0 {
		placeholders := make([]string, len(departments))
		for i, d := range departments {
			placeholders[i] = "?"
			args = append(args, d)
		}
		query += " WHERE department IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY id"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*catalogdomain.Product
	for rows.Next() {
		var (
			id        int64
			name      string
			dept      string
			group     sql.NullString
			family    sql.NullString
			keywords  sql.NullString
			stone     sql.NullString
			weight    sql.NullFloat64
			image     sql.NullString
			createdAt time.Time
		)
		if err := rows.Scan(&id, &name, &dept, &group, &family, &keywords,
			&stone, &weight, &image, &createdAt); err != nil {
			return nil, err
		}

		product, err := catalogdomain.NewProduct(
			catalogdomain.ProductID(id), name, dept,
			group.String, family.String, splitKeywords(keywords.String),
			stone.String, weight.Float64, image.String, createdAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

func loadMovements(db *sql.DB, productID int64) ([]*movementdomain.MovementFact, error) {
	rows, err := db.Query(`
		SELECT product_id, supplier, reference, size, store_id, date, type,
			qty_sold, qty_unit_order, qty_stock, sale_revenue, purchase_cost,
			unit_sale_price, public_sale_price, public_sale_price_date
		FROM movements
		WHERE product_id = ?
		ORDER BY date, store_id
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []*movementdomain.MovementFact
	for rows.Next() {
		fact := &movementdomain.MovementFact{}
		var size sql.NullString
		var priceDate sql.NullTime
		if err := rows.Scan(
			&fact.ProductID, &fact.Supplier, &fact.Reference, &size,
			&fact.StoreID, &fact.Date, &fact.Type,
			&fact.QtySold, &fact.QtyUnitOrder, &fact.QtyStock,
			&fact.SaleRevenue, &fact.PurchaseCost,
			&fact.UnitSalePrice, &fact.PublicSalePrice, &priceDate,
		); err != nil {
			return nil, err
		}
		fact.Size = size.String
		fact.PublicSalePriceDate = priceDate.Time
		facts = append(facts, fact)
	}

	return facts, rows.Err()
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if kw := strings.TrimSpace(p); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

func writeCSV(path string, results []*analysisdomain.GroupingResult) error {
	output := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	w := csv.NewWriter(output)
	if err := w.Write(exportdomain.CSVHeaders()); err != nil {
		return err
	}
	for _, row := range exportdomain.FlattenResults(results) {
		if err := w.Write(row.ToCSVRow()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
