package main

import (
	"flag"
	"log"
	"time"

	"tienda-u-backend/internal/model"
	"tienda-u-backend/internal/repository"
	"tienda-u-backend/pkg/database"

	"github.com/joho/godotenv"
)

// seed-stock resets today's daily stock counters for every active
// product. Run it each morning before opening.
func main() {
	qty := flag.Int("qty", 50, "initial quantity to assign to every active product")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	if *qty < 0 {
		log.Fatalf("❌ -qty must not be negative, got %d", *qty)
	}

	// 2. Setup Database
	db := database.ConnectDB()

	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)

	// 3. Find active products
	products, err := productRepo.FindActive(nil)
	if err != nil {
		log.Fatalf("❌ Failed to list active products: %v", err)
	}
	if len(products) == 0 {
		log.Fatal("❌ No active products found, nothing to seed")
	}

	// 4. Upsert today's counters for each
	today := model.DateKey(time.Now())
	for _, product := range products {
		stock := &model.DailyStock{
			ProductID:  product.ID,
			Date:       today,
			InitialQty: *qty,
			CurrentQty: *qty,
			SoldQty:    0,
		}
		stock.CreatedBy = "seed-stock"
		stock.UpdatedBy = "seed-stock"

		if err := stockRepo.Upsert(stock); err != nil {
			log.Fatalf("❌ Failed to seed stock for %s: %v", product.Name, err)
		}
	}

	log.Printf("✅ Success! Seeded stock for %d products on %s (qty %d each)", len(products), today, *qty)
}
