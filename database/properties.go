package database

import (
	"log"
	"strings"
	"time"

	"github.com/lib/pq"
)

// PropertyRepository handles database operations for historical property records
type PropertyRepository struct {
	db *Database
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *Database) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// InitSchema performs auto-migration and index setup
func (r *PropertyRepository) InitSchema() error {
	if err := r.db.db.AutoMigrate(&Property{}); err != nil {
		return WrapStoreError("init schema", err)
	}

	// Composite index covering the reconciliation boundary scan
	r.db.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_properties_market_sold
		ON historical_properties (city, state, last_sold_date)
	`)

	log.Println("✅ Historical property schema ready")
	return nil
}

// ReadMarket returns every persisted record for a market, ordered by sale date
func (r *PropertyRepository) ReadMarket(city, state string) ([]Property, error) {
	var rows []Property
	err := r.db.db.
		Where("city = ? AND state = ?", capitalize(city), strings.ToUpper(state)).
		Order("last_sold_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, WrapStoreError("read market", err)
	}
	return rows, nil
}

// bulkColumns is the COPY column order; must stay in sync with appendValues.
var bulkColumns = []string{
	"property_url", "mls", "mls_id", "status", "style",
	"street", "unit", "city", "state", "zip_code", "latitude", "longitude",
	"beds", "full_baths", "half_baths", "sqft", "lot_sqft", "year_built",
	"stories", "parking_garage", "hoa_fee",
	"list_price", "list_date", "sold_price", "last_sold_date",
	"price_per_sqft", "days_on_mls", "primary_photo", "alt_photos",
}

func appendValues(p *Property) []interface{} {
	return []interface{}{
		p.PropertyURL, p.MLS, p.MLSID, p.Status, p.Style,
		p.Street, p.Unit, p.City, p.State, p.ZipCode, p.Latitude, p.Longitude,
		p.Beds, p.FullBaths, p.HalfBaths, p.Sqft, p.LotSqft, p.YearBuilt,
		p.Stories, p.ParkingGarage, p.HoaFee,
		p.ListPrice, p.ListDate, p.SoldPrice, p.LastSoldDate,
		p.PricePerSqft, p.DaysOnMLS, p.PrimaryPhoto, p.AltPhotos,
	}
}

// BulkAppend inserts freshly scraped records through COPY on the raw lib/pq
// connection. A single ingestion run can move tens of thousands of rows,
// which row-at-a-time INSERTs handle poorly.
func (r *PropertyRepository) BulkAppend(rows []Property) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.bulk.Begin()
	if err != nil {
		return WrapStoreError("bulk append begin", err)
	}

	stmt, err := tx.Prepare(pq.CopyIn("historical_properties", bulkColumns...))
	if err != nil {
		tx.Rollback()
		return WrapStoreError("bulk append prepare", err)
	}

	for i := range rows {
		if _, err := stmt.Exec(appendValues(&rows[i])...); err != nil {
			stmt.Close()
			tx.Rollback()
			return WrapStoreError("bulk append exec", err)
		}
	}

	// Flush the COPY buffer
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		tx.Rollback()
		return WrapStoreError("bulk append flush", err)
	}
	if err := stmt.Close(); err != nil {
		tx.Rollback()
		return WrapStoreError("bulk append close", err)
	}
	if err := tx.Commit(); err != nil {
		return WrapStoreError("bulk append commit", err)
	}

	log.Printf("🗄️  Appended %d historical records", len(rows))
	return nil
}

// DeleteMarket removes persisted records for a market. With soldFrom set only
// records at or after that date are removed — the reconciliation boundary trim.
// A nil soldFrom removes the whole market.
func (r *PropertyRepository) DeleteMarket(city, state string, soldFrom *time.Time) (int64, error) {
	q := r.db.db.Where("city = ? AND state = ?", capitalize(city), strings.ToUpper(state))
	if soldFrom != nil {
		q = q.Where("last_sold_date >= ?", *soldFrom)
	}

	res := q.Delete(&Property{})
	if res.Error != nil {
		return 0, WrapStoreError("delete market", res.Error)
	}

	log.Printf("🗄️  Deleted %d rows for %s, %s", res.RowsAffected, capitalize(city), strings.ToUpper(state))
	return res.RowsAffected, nil
}

// capitalize normalizes a city name the way records are persisted
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
