// Package postgres wires the GORM repositories into the engine's EntityStore
// and owns the connection and schema setup.
//
// There is no unit of work here. Each repository call commits on its own and
// the status engine keeps live state and history in agreement with per-entity
// locks and compensation. Handing out repositories bound to one *gorm.DB is
// all the store does.
//
// Usage:
//
//	db, err := postgres.Connect(postgres.Options{DSN: dsn, Driver: postgres.DriverPgx})
//	if err != nil {
//	    return err
//	}
//	if err := postgres.Migrate(db); err != nil {
//	    return err
//	}
//	store := postgres.NewGormEntityStore(db)
//	v, err := store.VehicleRepository().Get(ctx, id)
package postgres

import (
	"database/sql"
	"fmt"

	"fleet/internal/adapters/out/postgres/driverrepo"
	"fleet/internal/adapters/out/postgres/historyrepo"
	"fleet/internal/adapters/out/postgres/triprepo"
	"fleet/internal/adapters/out/postgres/vehiclerepo"
	"fleet/internal/core/ports"

	// registers the "postgres" database/sql driver used when Driver is DriverPq
	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	// DriverPgx lets the GORM dialector open its own pgx connection.
	DriverPgx = "pgx"
	// DriverPq opens the pool through lib/pq and hands it to GORM.
	DriverPq = "pq"
)

// Options describe how to reach the database.
type Options struct {
	DSN    string
	Driver string
	Config *gorm.Config
}

// Connect opens a GORM connection with the requested driver.
// An empty Driver means DriverPgx.
func Connect(opts Options) (*gorm.DB, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &gorm.Config{}
	}

	switch opts.Driver {
	case "", DriverPgx:
		return gorm.Open(gormpostgres.Open(opts.DSN), cfg)
	case DriverPq:
		sqlDB, err := sql.Open("postgres", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("open lib/pq pool: %w", err)
		}
		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), cfg)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q, want %q or %q", opts.Driver, DriverPgx, DriverPq)
	}
}

// Migrate creates or updates the entity and history tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&vehiclerepo.VehicleDTO{},
		&driverrepo.DriverDTO{},
		&triprepo.TripDTO{},
		&historyrepo.StatusChangeDTO{},
	)
}

// GormEntityStore implements ports.EntityStore on a single connection pool.
type GormEntityStore struct {
	db *gorm.DB
}

var _ ports.EntityStore = (*GormEntityStore)(nil)

func NewGormEntityStore(db *gorm.DB) *GormEntityStore {
	return &GormEntityStore{db: db}
}

func (s *GormEntityStore) VehicleRepository() ports.VehicleRepository {
	return vehiclerepo.NewGormVehicleRepository(s.db)
}

func (s *GormEntityStore) DriverRepository() ports.DriverRepository {
	return driverrepo.NewGormDriverRepository(s.db)
}

func (s *GormEntityStore) TripRepository() ports.TripRepository {
	return triprepo.NewGormTripRepository(s.db)
}
