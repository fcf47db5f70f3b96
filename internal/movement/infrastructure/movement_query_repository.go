package infrastructure

import (
	"database/sql"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"

	"bilan/internal/movement/domain"
	"bilan/internal/shared/infrastructure"
)

// MovementQueryRepository repository de lecture des mouvements
type MovementQueryRepository struct {
	infrastructure.BaseRepository
}

// NewMovementQueryRepository crée un nouveau repository de mouvements
func NewMovementQueryRepository(db *sql.DB) *MovementQueryRepository {
	return &MovementQueryRepository{
		BaseRepository: infrastructure.NewBaseRepository(db),
	}
}

// FindByProduct récupère tous les mouvements d'un produit, restreints aux
// magasins et fournisseurs demandés. Le filtrage par date reste dans le
// moteur : l'année N-1 et le stock cumulé ont besoin de l'historique complet.
// La requête est réessayée avec backoff exponentiel sur erreur transitoire.
func (r *MovementQueryRepository) FindByProduct(productID int64, storeIDs []int64, supplierCodes []string) ([]*domain.MovementFact, error) {
	query := `
		SELECT product_id, supplier, reference, size, store_id, date, type,
		       qty_sold, qty_unit_order, qty_stock,
		       sale_revenue, purchase_cost, unit_sale_price,
		       public_sale_price, public_sale_price_date
		FROM movements
		WHERE product_id = $1
		  AND (cardinality($2::bigint[]) = 0 OR store_id = ANY($2))
		  AND (cardinality($3::text[]) = 0 OR supplier = ANY($3))
		ORDER BY date, store_id
	`

	var facts []*domain.MovementFact

	operation := func() error {
		rows, err := r.Query(query, productID, pq.Array(storeIDs), pq.Array(supplierCodes))
		if err != nil {
			return err
		}
		defer rows.Close()

		facts = facts[:0]
		for rows.Next() {
			fact, err := scanMovement(rows)
			if err != nil {
				// Erreur de scan: pas transitoire, inutile de réessayer
				return backoff.Permanent(err)
			}
			facts = append(facts, fact)
		}
		return rows.Err()
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 10 * time.Second

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return facts, nil
}

// scanMovement matérialise une ligne de mouvement
func scanMovement(rows *sql.Rows) (*domain.MovementFact, error) {
	var (
		fact      domain.MovementFact
		size      sql.NullString
		mType     string
		priceDate sql.NullTime
	)

	err := rows.Scan(
		&fact.ProductID,
		&fact.Supplier,
		&fact.Reference,
		&size,
		&fact.StoreID,
		&fact.Date,
		&mType,
		&fact.QtySold,
		&fact.QtyUnitOrder,
		&fact.QtyStock,
		&fact.SaleRevenue,
		&fact.PurchaseCost,
		&fact.UnitSalePrice,
		&fact.PublicSalePrice,
		&priceDate,
	)
	if err != nil {
		return nil, err
	}

	fact.Size = size.String
	fact.Type = domain.MovementType(mType)
	fact.PublicSalePriceDate = priceDate.Time

	return &fact, nil
}
