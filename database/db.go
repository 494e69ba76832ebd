package database

import (
	"database/sql"
	"log"
	"sync"

	"github.com/lorrybook/lorrybook/config"
	"github.com/lorrybook/lorrybook/internal/cache"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn  *sql.DB
	Cache cache.Cache
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con, Cache: nil}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database connection error: %v", err)
		return nil, err
	}
	err = ensureSchema(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// ensureSchema creates the lorrybook schema and tables when they do not exist
// yet. The sql/ migrations remain the source of truth for upgrades; this only
// covers first boot against an empty database.
func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE SCHEMA IF NOT EXISTS lorrybook`)
	if err != nil {
		return err
	}
	for _, create := range []func(*sql.DB) error{
		createOwnerTable,
		createCollaborationTable,
		createLorryTable,
		createDriverTable,
		createCustomerTable,
		createTripTable,
		createExpenseTable,
		createSalaryTable,
		createSettlementTable,
		createSettlementPaymentTable,
	} {
		if err := create(db); err != nil {
			return err
		}
	}
	return nil
}

func createOwnerTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lorrybook.owners (
			id SERIAL PRIMARY KEY,
			owner_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT,
			role TEXT NOT NULL DEFAULT 'owner',
			password_hash TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createCollaborationTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lorrybook.collaborations (
			id SERIAL PRIMARY KEY,
			collaboration_id TEXT NOT NULL UNIQUE,
			owner_a_id TEXT NOT NULL REFERENCES lorrybook.owners(owner_id),
			owner_b_id TEXT NOT NULL REFERENCES lorrybook.owners(owner_id),
			requested_by TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'requested',
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			responded_at TIMESTAMP,
			CHECK (owner_a_id <> owner_b_id)
		)
	`)
	return err
}

func createLorryTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lorrybook.lorries (
			id SERIAL PRIMARY KEY,
			lorry_id TEXT NOT NULL UNIQUE,
			owner_id TEXT NOT NULL REFERENCES lorrybook.owners(owner_id),
			registration_number TEXT NOT NULL,
			model TEXT,
			capacity TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createDriverTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lorrybook.drivers (
			id SERIAL PRIMARY KEY,
			driver_id TEXT NOT NULL UNIQUE,
			owner_id TEXT NOT NULL REFERENCES lorrybook.owners(owner_id),
			name TEXT NOT NULL,
			phone TEXT,
			license_number TEXT,
			monthly_salary NUMERIC(14,2) NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createCustomerTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lorrybook.customers (
			id SERIAL PRIMARY KEY,
			customer_id TEXT NOT NULL UNIQUE,
			owner_id TEXT NOT NULL REFERENCES lorrybook.owners(owner_id),
			name TEXT NOT NULL,
			phone TEXT,
			address TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createTripTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lorrybook.trips (
			id SERIAL PRIMARY KEY,
			trip_id TEXT NOT NULL UNIQUE,
			trip_number TEXT NOT NULL,
			delivered_by TEXT NOT NULL REFERENCES lorrybook.owners(owner_id),
			customer_owner_id TEXT REFERENCES lorrybook.owners(owner_id),
			customer_id TEXT REFERENCES lorrybook.customers(customer_id),
			lorry_id TEXT REFERENCES lorrybook.lorries(lorry_id),
			driver_id TEXT REFERENCES lorrybook.drivers(driver_id),
			material TEXT,
			from_location TEXT,
			to_location TEXT,
			trip_date DATE NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'scheduled',
			settlement_id TEXT,
			notes TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createExpenseTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lorrybook.expenses (
			id SERIAL PRIMARY KEY,
			expense_id TEXT NOT NULL UNIQUE,
			owner_id TEXT NOT NULL REFERENCES lorrybook.owners(owner_id),
			lorry_id TEXT,
			trip_id TEXT,
			category TEXT NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			expense_date DATE NOT NULL,
			notes TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createSalaryTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lorrybook.salary_entries (
			id SERIAL PRIMARY KEY,
			entry_id TEXT NOT NULL UNIQUE,
			owner_id TEXT NOT NULL REFERENCES lorrybook.owners(owner_id),
			driver_id TEXT NOT NULL REFERENCES lorrybook.drivers(driver_id),
			entry_type TEXT NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			entry_date DATE NOT NULL,
			notes TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createSettlementTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lorrybook.settlements (
			id SERIAL PRIMARY KEY,
			settlement_id TEXT NOT NULL UNIQUE,
			owner_a_id TEXT NOT NULL REFERENCES lorrybook.owners(owner_id),
			owner_b_id TEXT NOT NULL REFERENCES lorrybook.owners(owner_id),
			from_date DATE NOT NULL,
			to_date DATE NOT NULL,
			trip_ids TEXT[] NOT NULL,
			trip_breakdown JSONB NOT NULL,
			amount_breakdown JSONB NOT NULL,
			net_amount NUMERIC(14,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			notes TEXT,
			version INT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			CHECK (owner_a_id <> owner_b_id),
			CHECK (from_date <= to_date)
		)
	`)
	return err
}

func createSettlementPaymentTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lorrybook.settlement_payments (
			id SERIAL PRIMARY KEY,
			payment_id TEXT NOT NULL UNIQUE,
			settlement_id TEXT NOT NULL REFERENCES lorrybook.settlements(settlement_id),
			amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
			payment_date DATE NOT NULL,
			payment_mode TEXT NOT NULL,
			reference_number TEXT,
			notes TEXT,
			paid_by TEXT NOT NULL,
			paid_to TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			approved_at TIMESTAMP,
			rejection_reason TEXT,
			review_notes TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}
