package database

import (
	"fmt"
	"math/rand"
	"time"
)

// Référentiel de démonstration : bijouterie multi-magasins
var (
	seedDepartments = []string{"OR", "ARGENT"}
	seedGroups      = []string{"BAGUE", "COLLIER", "BRACELET", "BOUCLES"}
	seedFamilies    = []string{"SOLITAIRE", "ALLIANCE", "CHAINE", "GOURMETTE", "CREOLES", "PENDENTIF"}
	seedStones      = []string{"", "", "DIAMANT", "SAPHIR", "RUBIS", "EMERAUDE", "PERLE"}
	seedKeywords    = []string{"ENFANT", "HOMME", "FEMME", "MARIAGE", "BAPTEME"}
	seedSizes       = []string{"", "50", "52", "54", "56", "58"}
)

// SeedDatabase peuple le référentiel et deux ans de mouvements
func SeedDatabase(productCount, storeCount int) error {
	fmt.Println("Génération des données de référence...")

	supplierIDs, err := seedSuppliers(12)
	if err != nil {
		return fmt.Errorf("erreur génération fournisseurs: %w", err)
	}

	productIDs, err := seedProducts(productCount, supplierIDs)
	if err != nil {
		return fmt.Errorf("erreur génération produits: %w", err)
	}

	if err := seedMovements(productIDs, storeCount); err != nil {
		return fmt.Errorf("erreur génération mouvements: %w", err)
	}

	fmt.Printf("Terminé: %d produits, %d magasins\n", len(productIDs), storeCount)
	return nil
}

// seedSuppliers génère les fournisseurs
func seedSuppliers(count int) ([]int64, error) {
	names := []string{
		"Orfèvrerie Blanchard", "Maison Delorme", "Atelier Vergne", "Comptoir des Pierres",
		"Joaillerie Estève", "Perles du Sud", "Créations Aubin", "Lapidaire Morel",
		"Atelier du Marais", "Maison Roussel", "Gemmes et Métaux", "Orfèvres Réunis",
	}
	countries := []string{"France", "Italie", "Belgique", "Suisse"}

	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		id := int64(i + 1)
		_, err := DB.Exec(`
			INSERT INTO suppliers (id, code, name, country, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, id,
			fmt.Sprintf("F%03d", id),
			names[i%len(names)],
			countries[rand.Intn(len(countries))],
			time.Now(),
		)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// seedProducts génère les produits avec leur taxonomie
func seedProducts(count int, supplierIDs []int64) ([]int64, error) {
	ids := make([]int64, 0, count)

	for i := 0; i < count; i++ {
		id := int64(i + 1)
		dept := seedDepartments[rand.Intn(len(seedDepartments))]
		group := seedGroups[rand.Intn(len(seedGroups))]
		family := seedFamilies[rand.Intn(len(seedFamilies))]
		stone := seedStones[rand.Intn(len(seedStones))]

		keywords := ""
		if rand.Intn(4) == 0 {
			keywords = seedKeywords[rand.Intn(len(seedKeywords))]
		}

		_, err := DB.Exec(`
			INSERT INTO products (id, name, department, grp, family, family_keywords, stone, weight, image, supplier_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, id,
			fmt.Sprintf("%s %s %d", group, family, id),
			dept,
			group,
			family,
			keywords,
			stone,
			1.0+rand.Float64()*20.0,
			fmt.Sprintf("img/%d.jpg", id),
			supplierIDs[rand.Intn(len(supplierIDs))],
			time.Now(),
		)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// seedMovements génère deux ans de mouvements par produit
func seedMovements(productIDs []int64, storeCount int) error {
	movementID := int64(0)
	now := time.Now()

	for _, productID := range productIDs {
		supplier := fmt.Sprintf("F%03d", 1+rand.Intn(12))
		reference := fmt.Sprintf("REF%05d", productID)
		basePrice := float64(50 + rand.Intn(3000))
		publicPrice := basePrice * 1.6
		cost := basePrice * 0.4

		movements := 10 + rand.Intn(40)
		for i := 0; i < movements; i++ {
			movementID++
			date := now.AddDate(0, 0, -rand.Intn(730))
			size := seedSizes[rand.Intn(len(seedSizes))]
			storeID := int64(1 + rand.Intn(storeCount))

			qtySold, qtyUnitOrder, qtyStock := 0, 0, 0
			revenue, purchase := 0.0, 0.0
			mType := "sale"

			switch rand.Intn(5) {
			case 0:
				mType = "delivery"
				qtyStock = 1 + rand.Intn(3)
				purchase = cost * float64(qtyStock)
			case 1:
				mType = "unit_order"
				qtyUnitOrder = 1
				revenue = basePrice * 2
				purchase = cost
			default:
				qtySold = 1 + rand.Intn(2)
				revenue = basePrice * float64(qtySold)
				purchase = cost * float64(qtySold)
			}

			_, err := DB.Exec(`
				INSERT INTO movements (id, product_id, supplier, reference, size, store_id, date, type,
					qty_sold, qty_unit_order, qty_stock, sale_revenue, purchase_cost,
					unit_sale_price, public_sale_price, public_sale_price_date)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			`, movementID, productID, supplier, reference, size, storeID, date, mType,
				qtySold, qtyUnitOrder, qtyStock, revenue, purchase,
				basePrice, publicPrice, date,
			)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
