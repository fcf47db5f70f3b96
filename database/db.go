package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// Init ouvre la connexion et configure le pool
// driver: "postgres" pour le service, "sqlite" pour l'analyse hors ligne.
func Init(driver, connStr string) error {
	var err error
	DB, err = sql.Open(driver, connStr)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(5 * time.Minute)

	return DB.Ping()
}

// Close ferme la connexion
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
