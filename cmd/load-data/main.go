package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/evyataryagoni/geosearch/internal/config"
	"github.com/evyataryagoni/geosearch/internal/geo"
	"github.com/evyataryagoni/geosearch/internal/store"
)

// This tool bulk-loads geolocation records from CSV into MySQL,
// deriving each record's geohash from its coordinates
// Usage: go run cmd/load-data/main.go
func main() {
	fmt.Println("🔄 Loading location data into MySQL...")

	// Load configuration
	appConfig := config.Load()

	db, err := gorm.Open(mysql.Open(appConfig.MySQLDSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to MySQL: %v", err)
	}

	// Create the table if it doesn't exist yet
	if err := db.AutoMigrate(&store.LocationModel{}); err != nil {
		log.Fatalf("Failed to migrate locations table: %v", err)
	}

	fmt.Printf("📁 Loading data from %s...\n", appConfig.DatastorePath)
	records, err := readCSV(appConfig.DatastorePath)
	if err != nil {
		log.Fatalf("Failed to read CSV data: %v", err)
	}

	if len(records) == 0 {
		log.Fatal("No records found to insert")
	}

	// Insert in batches; GORM splits the multi-row INSERTs for us
	if err := db.CreateInBatches(records, 500).Error; err != nil {
		log.Fatalf("Failed to insert location records: %v", err)
	}

	fmt.Printf("✅ Loaded %d location records into MySQL\n", len(records))
}

// readCSV parses the geolocation CSV into GORM models
// Expected columns: street,city,zip_code,county,country,latitude,longitude,time_zone
func readCSV(path string) ([]*store.LocationModel, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file has no data rows")
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) *string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return nil
		}
		value := strings.TrimSpace(row[i])
		if value == "" {
			return nil
		}
		return &value
	}

	var records []*store.LocationModel
	skipped := 0
	for _, row := range rows[1:] {
		record := &store.LocationModel{
			Street:   field(row, "street"),
			City:     field(row, "city"),
			ZipCode:  field(row, "zip_code"),
			County:   field(row, "county"),
			Country:  field(row, "country"),
			TimeZone: field(row, "time_zone"),
		}

		lat := parseFloat(field(row, "latitude"))
		lon := parseFloat(field(row, "longitude"))
		if lat != nil && lon != nil {
			record.Latitude = lat
			record.Longitude = lon
			hash := geo.EncodePoint(*lat, *lon, geo.StoredGeohashPrecision)
			record.Geohash = &hash
		}

		// Rows with no searchable content are skipped, not inserted
		if record.Latitude == nil && record.Street == nil && record.City == nil &&
			record.ZipCode == nil && record.County == nil && record.Country == nil {
			skipped++
			continue
		}

		records = append(records, record)
	}

	if skipped > 0 {
		fmt.Printf("⚠️  Skipped %d empty rows\n", skipped)
	}

	return records, nil
}

func parseFloat(s *string) *float64 {
	if s == nil {
		return nil
	}
	value, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil
	}
	return &value
}
