package database

// Schéma minimal commun postgres/sqlite : types simples, clés simples.
// Les mots-clés de famille sont stockés en texte séparé par des virgules
// pour rester portables entre les deux moteurs.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
		id BIGINT PRIMARY KEY,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		country TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT NOT NULL,
		grp TEXT,
		family TEXT,
		family_keywords TEXT,
		stone TEXT,
		weight DOUBLE PRECISION,
		image TEXT,
		supplier_id BIGINT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movements (
		id BIGINT PRIMARY KEY,
		product_id BIGINT NOT NULL,
		supplier TEXT NOT NULL,
		reference TEXT NOT NULL,
		size TEXT,
		store_id BIGINT NOT NULL,
		date TIMESTAMP NOT NULL,
		type TEXT NOT NULL,
		qty_sold INTEGER NOT NULL DEFAULT 0,
		qty_unit_order INTEGER NOT NULL DEFAULT 0,
		qty_stock INTEGER NOT NULL DEFAULT 0,
		sale_revenue DOUBLE PRECISION NOT NULL DEFAULT 0,
		purchase_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
		unit_sale_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		public_sale_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		public_sale_price_date TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_product ON movements (product_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_store ON movements (store_id)`,
}

// EnsureSchema crée les tables si elles n'existent pas
func EnsureSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := DB.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
