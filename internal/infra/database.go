package infra

import (
	"fmt"

	"github.com/pweat/rejestr-prac/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx, sizes the pool and
// applies the schema. TranslateError makes unique violations surface as
// gorm.ErrDuplicatedKey.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)

	if err := ApplySchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open connects without touching the schema.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
}

// ApplySchema runs the idempotent DDL in order. GORM AutoMigrate is not used:
// the cascade rules between clients, jobs and the details tables must be
// exact, and AutoMigrate cannot express the details → jobs foreign keys.
func ApplySchema(db *gorm.DB) error {
	for _, step := range schema {
		if err := db.Exec(step.sql).Error; err != nil {
			return fmt.Errorf("schema %q: %w", step.descr, err)
		}
	}
	return nil
}

var schema = []struct{ descr, sql string }{
	{"users", `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    username      VARCHAR(50) NOT NULL UNIQUE,
    password_hash TEXT        NOT NULL,
    role          VARCHAR(20) NOT NULL DEFAULT 'viewer'
                  CHECK (role IN ('viewer', 'editor', 'admin')),
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"clients", `
CREATE TABLE IF NOT EXISTS clients (
    id           BIGSERIAL PRIMARY KEY,
    name         VARCHAR(200) NOT NULL,
    phone_number VARCHAR(30)  NOT NULL UNIQUE,
    address      TEXT,
    notes        TEXT,
    created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW()
)`},
	{"jobs", `
CREATE TABLE IF NOT EXISTS jobs (
    id         BIGSERIAL PRIMARY KEY,
    client_id  BIGINT      NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
    job_type   VARCHAR(30) NOT NULL
               CHECK (job_type IN ('well_drilling', 'connection', 'treatment_station', 'service')),
    job_date   DATE        NOT NULL,
    details_id BIGINT      NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"well_drilling_details", `
CREATE TABLE IF NOT EXISTS well_drilling_details (
    id                BIGSERIAL PRIMARY KEY,
    job_id            BIGINT REFERENCES jobs(id) ON DELETE CASCADE,
    miejscowosc       TEXT,
    pracownicy        TEXT,
    ilosc_metrow      DOUBLE PRECISION,
    lustro_statyczne  DOUBLE PRECISION,
    lustro_dynamiczne DOUBLE PRECISION,
    wydajnosc         DOUBLE PRECISION,
    cena_za_metr      NUMERIC(12,2) NOT NULL DEFAULT 0,
    labor_cost        NUMERIC(12,2) NOT NULL DEFAULT 0,
    casing_cost       NUMERIC(12,2) NOT NULL DEFAULT 0,
    other_costs       NUMERIC(12,2) NOT NULL DEFAULT 0
)`},
	{"connection_details", `
CREATE TABLE IF NOT EXISTS connection_details (
    id               BIGSERIAL PRIMARY KEY,
    job_id           BIGINT REFERENCES jobs(id) ON DELETE CASCADE,
    well_depth       DOUBLE PRECISION,
    pump_model       TEXT,
    controller_model TEXT,
    hydrophore_model TEXT,
    revenue          NUMERIC(12,2) NOT NULL DEFAULT 0,
    equipment_cost   NUMERIC(12,2) NOT NULL DEFAULT 0,
    labor_cost       NUMERIC(12,2) NOT NULL DEFAULT 0,
    materials_cost   NUMERIC(12,2) NOT NULL DEFAULT 0,
    other_costs      NUMERIC(12,2) NOT NULL DEFAULT 0
)`},
	{"treatment_station_details", `
CREATE TABLE IF NOT EXISTS treatment_station_details (
    id                  BIGSERIAL PRIMARY KEY,
    job_id              BIGINT REFERENCES jobs(id) ON DELETE CASCADE,
    station_model       TEXT,
    uv_lamp_model       TEXT,
    carbon_filter_model TEXT,
    revenue             NUMERIC(12,2) NOT NULL DEFAULT 0,
    equipment_cost      NUMERIC(12,2) NOT NULL DEFAULT 0,
    labor_cost          NUMERIC(12,2) NOT NULL DEFAULT 0,
    other_costs         NUMERIC(12,2) NOT NULL DEFAULT 0
)`},
	{"service_details", `
CREATE TABLE IF NOT EXISTS service_details (
    id          BIGSERIAL PRIMARY KEY,
    job_id      BIGINT REFERENCES jobs(id) ON DELETE CASCADE,
    description TEXT,
    is_warranty BOOLEAN       NOT NULL DEFAULT FALSE,
    revenue     NUMERIC(12,2) NOT NULL DEFAULT 0,
    labor_cost  NUMERIC(12,2) NOT NULL DEFAULT 0
)`},
	{"inventory_items", `
CREATE TABLE IF NOT EXISTS inventory_items (
    id                 BIGSERIAL PRIMARY KEY,
    name               VARCHAR(200)  NOT NULL UNIQUE,
    quantity           NUMERIC(12,2) NOT NULL DEFAULT 0,
    unit               VARCHAR(20)   NOT NULL DEFAULT 'szt.',
    min_stock          NUMERIC(12,2) NOT NULL DEFAULT 0,
    last_delivery_date TIMESTAMPTZ
)`},
	{"stock_history", `
CREATE TABLE IF NOT EXISTS stock_history (
    id              BIGSERIAL PRIMARY KEY,
    item_id         BIGINT        NOT NULL REFERENCES inventory_items(id) ON DELETE CASCADE,
    quantity_change NUMERIC(12,2) NOT NULL,
    operation_type  VARCHAR(40)   NOT NULL,
    user_id         BIGINT REFERENCES users(id) ON DELETE SET NULL,
    created_at      TIMESTAMPTZ   NOT NULL DEFAULT NOW()
)`},
	{"offers", `
CREATE TABLE IF NOT EXISTS offers (
    id           BIGSERIAL PRIMARY KEY,
    offer_number VARCHAR(40)  NOT NULL UNIQUE,
    client_id    BIGINT REFERENCES clients(id) ON DELETE SET NULL,
    issue_date   DATE         NOT NULL DEFAULT CURRENT_DATE,
    vat_rate     NUMERIC(5,2) NOT NULL DEFAULT 23,
    created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW()
)`},
	{"offer_items", `
CREATE TABLE IF NOT EXISTS offer_items (
    id        BIGSERIAL PRIMARY KEY,
    offer_id  BIGINT        NOT NULL REFERENCES offers(id) ON DELETE CASCADE,
    position  INT           NOT NULL,
    name      TEXT          NOT NULL,
    quantity  NUMERIC(12,2) NOT NULL,
    unit      VARCHAR(20)   NOT NULL,
    net_price NUMERIC(12,2) NOT NULL
)`},

	// Columns added after the first deployment.
	{"clients.email", `ALTER TABLE clients ADD COLUMN IF NOT EXISTS email VARCHAR(200)`},
	{"inventory_items.is_ordered", `ALTER TABLE inventory_items ADD COLUMN IF NOT EXISTS is_ordered BOOLEAN NOT NULL DEFAULT FALSE`},
	{"treatment_station_details.service_interval_months",
		`ALTER TABLE treatment_station_details ADD COLUMN IF NOT EXISTS service_interval_months INT NOT NULL DEFAULT 12`},
	{"offers.notes", `ALTER TABLE offers ADD COLUMN IF NOT EXISTS notes TEXT`},

	{"idx_jobs_client_id", `CREATE INDEX IF NOT EXISTS idx_jobs_client_id ON jobs (client_id)`},
	{"idx_jobs_job_date", `CREATE INDEX IF NOT EXISTS idx_jobs_job_date ON jobs (job_date)`},
	{"idx_stock_history_item", `CREATE INDEX IF NOT EXISTS idx_stock_history_item ON stock_history (item_id, created_at DESC)`},
	{"idx_offers_issue_date", `CREATE INDEX IF NOT EXISTS idx_offers_issue_date ON offers (issue_date)`},
	{"idx_offer_items_offer", `CREATE INDEX IF NOT EXISTS idx_offer_items_offer ON offer_items (offer_id, position)`},
}
