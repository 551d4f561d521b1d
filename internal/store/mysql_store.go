package store

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/evyataryagoni/geosearch/internal/models"
)

// LocationModel is the GORM model for the locations table
// Nullable columns map to pointers so NULL and 0.0 stay distinct
type LocationModel struct {
	ID        uint     `gorm:"column:id;primaryKey"`
	Street    *string  `gorm:"column:street"`
	City      *string  `gorm:"column:city"`
	ZipCode   *string  `gorm:"column:zip_code"`
	County    *string  `gorm:"column:county"`
	Country   *string  `gorm:"column:country"`
	Latitude  *float64 `gorm:"column:latitude"`
	Longitude *float64 `gorm:"column:longitude"`
	TimeZone  *string  `gorm:"column:time_zone"`
	Geohash   *string  `gorm:"column:geohash"`
}

// TableName overrides GORM's default pluralization ("location_models")
func (LocationModel) TableName() string {
	return "locations"
}

// MySQLStore implements Store using MySQL with GORM
type MySQLStore struct {
	db *gorm.DB
}

// NewMySQLStore creates a new MySQL store
//
// Parameters:
//   - dsn: Data Source Name
//     Format: user:password@tcp(host:port)/dbname?parseTime=true
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Set to Info for query debugging
	}

	db, err := gorm.Open(mysql.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL with GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

// FindExact implements Store
// Equality match on the stored latitude/longitude columns; a missing
// record is not an error, it just means no short-circuit hit
func (s *MySQLStore) FindExact(lat, lon float64) (*models.Location, error) {
	var record LocationModel

	result := s.db.Where("latitude = ? AND longitude = ?", lat, lon).First(&record)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("database query failed: %w", result.Error)
	}

	return toLocation(&record), nil
}

// FindByText implements Store
// Case-insensitive substring OR-match across the five text fields with
// store-side pagination; total is counted before the page slice
func (s *MySQLStore) FindByText(text string, page, limit int) ([]*models.Location, int64, error) {
	pattern := "%" + text + "%"
	condition := s.db.Model(&LocationModel{}).Where(
		"LOWER(city) LIKE LOWER(?) OR LOWER(country) LIKE LOWER(?) OR LOWER(county) LIKE LOWER(?) OR LOWER(street) LIKE LOWER(?) OR LOWER(zip_code) LIKE LOWER(?)",
		pattern, pattern, pattern, pattern, pattern,
	)

	var total int64
	if err := condition.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database count failed: %w", err)
	}

	var records []LocationModel
	offset := (page - 1) * limit
	if err := condition.Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("database query failed: %w", err)
	}

	return toLocations(records), total, nil
}

// FindByGeohashPrefix implements Store
func (s *MySQLStore) FindByGeohashPrefix(prefix string) ([]*models.Location, error) {
	var records []LocationModel

	if err := s.db.Where("geohash LIKE ?", prefix+"%").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	return toLocations(records), nil
}

// Count implements Store
func (s *MySQLStore) Count() (int64, error) {
	var total int64
	if err := s.db.Model(&LocationModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("database count failed: %w", err)
	}
	return total, nil
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// toLocation converts a GORM model to the domain model
func toLocation(record *LocationModel) *models.Location {
	return &models.Location{
		ID:        record.ID,
		Street:    deref(record.Street),
		City:      deref(record.City),
		ZipCode:   deref(record.ZipCode),
		County:    deref(record.County),
		Country:   deref(record.Country),
		Latitude:  record.Latitude,
		Longitude: record.Longitude,
		TimeZone:  deref(record.TimeZone),
		Geohash:   deref(record.Geohash),
	}
}

func toLocations(records []LocationModel) []*models.Location {
	locations := make([]*models.Location, 0, len(records))
	for i := range records {
		locations = append(locations, toLocation(&records[i]))
	}
	return locations
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
