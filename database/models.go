// Package database provides the relational store for historical property
// sales, backed by PostgreSQL through GORM with a raw lib/pq connection for
// bulk loading.
//
// One table (historical_properties) holds every persisted sale record, keyed
// by city+state. The ingestion pipeline reads a full market copy into memory,
// prunes at the reconciliation boundary, and appends only freshly scraped
// rows; the table is never updated in place.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"database/sql"

	_ "github.com/lib/pq" // raw connection for COPY-based bulk appends
)

// Property represents one observed sale or active listing.
//
// Nullable attributes are pointers: the scrape source omits fields freely and
// the feature pipeline decides what zero-fills versus what disqualifies a row.
// City and State are always populated for any record entering the store.
type Property struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"-"`
	PropertyURL string  `gorm:"column:property_url;size:512" json:"property_url"`
	MLS         *string `gorm:"column:mls;size:32" json:"mls"`
	MLSID       *string `gorm:"column:mls_id;size:32" json:"mls_id"`
	Status      string  `gorm:"size:20" json:"status"`
	Style       *string `gorm:"size:40" json:"style"`

	Street    *string  `gorm:"size:200" json:"street"`
	Unit      *string  `gorm:"size:40" json:"unit"`
	City      string   `gorm:"size:100;index:idx_properties_market;not null" json:"city"`
	State     string   `gorm:"size:2;index:idx_properties_market;not null" json:"state"`
	ZipCode   *int     `json:"zip_code"`
	Latitude  *float64 `gorm:"type:decimal(9,6)" json:"latitude"`
	Longitude *float64 `gorm:"type:decimal(9,6)" json:"longitude"`

	Beds          *float64 `gorm:"type:decimal(4,1)" json:"beds"`
	FullBaths     *float64 `gorm:"type:decimal(4,1)" json:"full_baths"`
	HalfBaths     *float64 `gorm:"type:decimal(4,1)" json:"half_baths"`
	Sqft          *float64 `gorm:"type:decimal(12,1)" json:"sqft"`
	LotSqft       *float64 `gorm:"type:decimal(14,1)" json:"lot_sqft"`
	YearBuilt     *float64 `gorm:"type:decimal(5,0)" json:"year_built"`
	Stories       *float64 `gorm:"type:decimal(4,1)" json:"stories"`
	ParkingGarage *float64 `gorm:"type:decimal(4,1)" json:"parking_garage"`
	HoaFee        *float64 `gorm:"type:decimal(10,2)" json:"hoa_fee"`

	ListPrice    *float64   `gorm:"type:decimal(14,2)" json:"list_price"`
	ListDate     *time.Time `json:"list_date"`
	SoldPrice    *float64   `gorm:"type:decimal(14,2)" json:"sold_price"`
	LastSoldDate *time.Time `gorm:"index" json:"last_sold_date"`
	PricePerSqft *float64   `gorm:"type:decimal(10,2)" json:"price_per_sqft"`
	DaysOnMLS    *int64     `gorm:"column:days_on_mls" json:"days_on_mls"`

	PrimaryPhoto *string `gorm:"size:512" json:"primary_photo"`
	AltPhotos    *string `gorm:"type:text" json:"alt_photos"` // comma-separated URLs, split at the API edge
}

// TableName specifies the table name for Property
func (Property) TableName() string {
	return "historical_properties"
}

// Database holds the GORM connection plus a raw lib/pq connection used for
// COPY-based bulk appends (pq.CopyIn is driver-specific and not available
// through the pgx-backed GORM dialector).
type Database struct {
	db   *gorm.DB
	bulk *sql.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes both database connections
func Connect(host, port, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	bulk, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open bulk connection: %w", err)
	}
	if err := bulk.Ping(); err != nil {
		bulk.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	bulk.SetMaxOpenConns(5)
	bulk.SetConnMaxLifetime(5 * time.Minute)

	return &Database{db: db, bulk: bulk}, nil
}

// Close closes both connections
func (d *Database) Close() error {
	if d.bulk != nil {
		d.bulk.Close()
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
