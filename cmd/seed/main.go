// Command seed loads the starter catalog and an optional bootstrap admin into
// a Postgres database that the server has already migrated.
package main

import (
	"database/sql"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"service-connect-server/utils"
)

type categorySeed struct {
	Name        string
	Description string
}

type serviceSeed struct {
	Category    string
	Name        string
	Description string
}

var categories = []categorySeed{
	{"Plumbing", "Leaks, taps, water heaters and drainage"},
	{"Electrical", "Wiring, fixtures, panels and appliance hookups"},
	{"Cleaning", "Home and office cleaning, one-off or recurring"},
	{"Air Conditioning", "Installation, servicing and gas refills"},
	{"Painting", "Interior and exterior painting and finishing"},
	{"Carpentry", "Furniture repair, assembly and custom woodwork"},
}

var catalog = []serviceSeed{
	{"Plumbing", "Leak repair", "Find and fix leaking pipes, joints and taps"},
	{"Plumbing", "Water heater service", "Descaling, element replacement and installation"},
	{"Plumbing", "Drain unblocking", "Clear blocked sinks, showers and toilets"},
	{"Electrical", "Fixture installation", "Fans, lights and switchboards"},
	{"Electrical", "Fault finding", "Trace tripping breakers and dead sockets"},
	{"Cleaning", "Deep home cleaning", "Kitchen, bathrooms and living areas"},
	{"Cleaning", "Sofa and carpet cleaning", "Shampoo and vacuum extraction"},
	{"Air Conditioning", "AC servicing", "Filter cleaning, coil wash and inspection"},
	{"Air Conditioning", "AC installation", "Split and window unit installation"},
	{"Painting", "Room repaint", "Two coats on walls and ceiling"},
	{"Carpentry", "Furniture assembly", "Flat-pack beds, wardrobes and tables"},
	{"Carpentry", "Door and hinge repair", "Alignment, locks and hinges"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}
	log.Println("✅ Successfully connected to database")

	tx, err := db.Begin()
	if err != nil {
		log.Fatal("Failed to start transaction:", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	added, err := seedCategories(tx, now)
	if err != nil {
		log.Fatal("Failed to seed categories:", err)
	}
	log.Printf("✅ %d categories added", added)

	added, err = seedServices(tx, now)
	if err != nil {
		log.Fatal("Failed to seed services:", err)
	}
	log.Printf("✅ %d services added", added)

	if username := os.Getenv("ADMIN_USERNAME"); username != "" {
		created, err := seedAdmin(tx, username, os.Getenv("ADMIN_PASSWORD"), now)
		if err != nil {
			log.Fatal("Failed to seed admin:", err)
		}
		if created {
			log.Printf("✅ Admin %q created", username)
		} else {
			log.Printf("⚠️ Admin %q already exists, left unchanged", username)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatal("Failed to commit seed data:", err)
	}
	log.Println("🎉 Seeding complete")
}

func seedCategories(tx *sql.Tx, now time.Time) (int64, error) {
	var total int64
	for _, c := range categories {
		res, err := tx.Exec(
			`INSERT INTO service_categories (name, description, created_at, updated_at)
			 VALUES ($1, $2, $3, $3)
			 ON CONFLICT (name) DO NOTHING`,
			c.Name, c.Description, now,
		)
		if err != nil {
			return total, err
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// seedServices skips services whose name already exists in the category
func seedServices(tx *sql.Tx, now time.Time) (int64, error) {
	var total int64
	for _, s := range catalog {
		res, err := tx.Exec(
			`INSERT INTO services (category_id, name, description, created_at, updated_at)
			 SELECT c.id, $2, $3, $4, $4 FROM service_categories c
			 WHERE c.name = $1
			   AND NOT EXISTS (SELECT 1 FROM services s WHERE s.category_id = c.id AND s.name = $2)`,
			s.Category, s.Name, s.Description, now,
		)
		if err != nil {
			return total, err
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

func seedAdmin(tx *sql.Tx, username, password string, now time.Time) (bool, error) {
	if len(password) < 8 {
		return false, errors.New("ADMIN_PASSWORD must be at least 8 characters")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, err
	}
	res, err := tx.Exec(
		`INSERT INTO admins (username, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (username) DO NOTHING`,
		username, hash, now,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
