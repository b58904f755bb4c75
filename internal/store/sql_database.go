package store

import (
	"database/sql"

	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
