package infrastructure

import (
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"

	"bilan/internal/catalog/domain"
	"bilan/internal/shared/infrastructure"
)

// ProductQueryRepository repository de lecture du catalogue
type ProductQueryRepository struct {
	infrastructure.BaseRepository
}

// NewProductQueryRepository crée un nouveau repository produit
func NewProductQueryRepository(db *sql.DB) *ProductQueryRepository {
	return &ProductQueryRepository{
		BaseRepository: infrastructure.NewBaseRepository(db),
	}
}

// FindByID récupère un produit par son identifiant
func (r *ProductQueryRepository) FindByID(id domain.ProductID) (*domain.Product, error) {
	query := `
		SELECT id, name, department, grp, family, family_keywords, stone, weight, image, created_at
		FROM products
		WHERE id = $1
	`

	return scanProduct(r.QueryRow(query, int64(id)))
}

// FindForAnalysis récupère les produits d'un ou plusieurs rayons,
// éventuellement restreints à une liste de fournisseurs
func (r *ProductQueryRepository) FindForAnalysis(departments []string, supplierIDs []int64) ([]*domain.Product, error) {
	query := `
		SELECT id, name, department, grp, family, family_keywords, stone, weight, image, created_at
		FROM products
		WHERE (cardinality($1::text[]) = 0 OR department = ANY($1))
		  AND (cardinality($2::bigint[]) = 0 OR supplier_id = ANY($2))
		ORDER BY id
	`

	rows, err := r.Query(query, pq.Array(departments), pq.Array(supplierIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProduct matérialise une ligne produit
// Les mots-clés de famille sont stockés en texte séparé par des virgules.
func scanProduct(row rowScanner) (*domain.Product, error) {
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

	if err := row.Scan(&id, &name, &dept, &group, &family, &keywords, &stone, &weight, &image, &createdAt); err != nil {
		return nil, err
	}

	return domain.NewProduct(
		domain.ProductID(id),
		name,
		dept,
		group.String,
		family.String,
		splitKeywords(keywords.String),
		stone.String,
		weight.Float64,
		image.String,
		createdAt,
	)
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
