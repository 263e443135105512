package main

import (
	"fmt"
	"log"

	"github.com/oguzk/stockbasket-backend/config"
	"github.com/oguzk/stockbasket-backend/internal/app/model"
	"github.com/oguzk/stockbasket-backend/internal/app/repository"
	"github.com/oguzk/stockbasket-backend/internal/db"
	"github.com/oguzk/stockbasket-backend/pkg/util"
	"github.com/shopspring/decimal"
)

// Seeds the database with demo accounts and a small product catalog.
// Safe to run repeatedly: rows that already exist are skipped.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	users := []struct {
		email    string
		password string
		name     string
		role     model.UserRole
	}{
		{"admin@stockbasket.local", "admin1234", "Admin", model.RoleAdmin},
		{"demo@stockbasket.local", "demo1234", "Demo User", model.RoleUser},
	}

	createdUsers := 0
	for _, u := range users {
		if _, err := userRepo.FindByEmail(u.email); err == nil {
			fmt.Printf("User %s already exists, skipping\n", u.email)
			continue
		}

		hash, err := util.HashPassword(u.password)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}

		user := &model.User{
			Email:        u.email,
			PasswordHash: hash,
			Name:         u.name,
			Role:         u.role,
		}
		if err := userRepo.Create(user); err != nil {
			log.Fatal("Failed to create user:", err)
		}
		createdUsers++
	}

	products := []struct {
		name  string
		desc  string
		price string
		stock int
	}{
		{"Wireless Mouse", "Compact 2.4GHz wireless mouse", "10.00", 120},
		{"Mechanical Keyboard", "Tenkeyless board with brown switches", "74.90", 45},
		{"USB-C Hub", "7-in-1 hub with HDMI and card reader", "39.50", 80},
		{"27\" Monitor", "QHD IPS display, 75Hz", "219.00", 25},
		{"Laptop Stand", "Adjustable aluminium stand", "24.99", 150},
		{"Webcam", "1080p webcam with privacy shutter", "49.00", 60},
	}

	existing, err := productRepo.FindAll(1, 0)
	if err != nil {
		log.Fatal("Failed to inspect product catalog:", err)
	}
	if len(existing) > 0 {
		fmt.Printf("Product catalog is not empty, skipping product seed\n")
		fmt.Printf("Seed completed: %d users, 0 products created\n", createdUsers)
		return
	}

	createdProducts := 0
	for _, p := range products {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			log.Fatal("Invalid seed price:", err)
		}

		product := &model.Product{
			SKU:           util.GenerateSKU(),
			Name:          p.name,
			Description:   p.desc,
			Price:         price,
			StockQuantity: p.stock,
		}
		if err := productRepo.Create(product); err != nil {
			fmt.Printf("Skipping product %s: %v\n", p.name, err)
			continue
		}
		createdProducts++
	}

	fmt.Printf("Seed completed: %d users, %d products created\n", createdUsers, createdProducts)
}
