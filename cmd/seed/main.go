// Command seed loads the sample catalog into the database. Existing products
// (and, via cascade, their reviews) are removed first.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	appconfig "github.com/reviewme/catalog/internal/config"
	"github.com/reviewme/catalog/internal/domain"
	"github.com/reviewme/catalog/internal/repository/postgres"
	"github.com/reviewme/catalog/pkg/database"
	"github.com/reviewme/catalog/pkg/logger"
)

type sampleProduct struct {
	name        string
	description string
	priceCents  int64
	category    string
	imageURL    string
}

var sampleProducts = []sampleProduct{
	{
		name:        "iPhone 15 Pro",
		description: "Latest iPhone with pro camera system and A17 Pro chip",
		priceCents:  99999,
		category:    "Electronics",
		imageURL:    "https://images.unsplash.com/photo-1695048133142-1a20484d2569?w=500",
	},
	{
		name:        "Organic Fresh Fruits Basket",
		description: "Assorted seasonal organic fruits",
		priceCents:  4999,
		category:    "Groceries",
		imageURL:    "https://images.unsplash.com/photo-1610832958506-aa56368176cf?w=500",
	},
	{
		name:        "Yoga Mat Premium",
		description: "Non-slip yoga mat with alignment lines",
		priceCents:  3999,
		category:    "Sports & Exercise",
		imageURL:    "https://images.unsplash.com/photo-1592432678016-e910b452f9a2?w=500",
	},
	{
		name:        "Smart LED TV 65\"",
		description: "4K Ultra HD Smart TV with HDR and Dolby Vision",
		priceCents:  129999,
		category:    "Electronics",
		imageURL:    "https://images.unsplash.com/photo-1593359677879-a4bb92f829d1?w=500",
	},
	{
		name:        "First Aid Kit Premium",
		description: "Comprehensive first aid kit for home and travel",
		priceCents:  7999,
		category:    "Healthcare",
		imageURL:    "https://images.unsplash.com/photo-1603398938378-e54eab446dde?w=500",
	},
	{
		name:        "Fresh Organic Vegetables Box",
		description: "Weekly supply of fresh organic vegetables",
		priceCents:  5999,
		category:    "Groceries",
		imageURL:    "https://images.unsplash.com/photo-1542838132-92c53300491e?w=500",
	},
	{
		name:        "Dumbbell Set 20kg",
		description: "Professional rubber coated dumbbell set",
		priceCents:  14999,
		category:    "Sports & Exercise",
		imageURL:    "https://images.unsplash.com/photo-1581009146145-b5ef050c2e1e?w=500",
	},
	{
		name:        "Digital Blood Pressure Monitor",
		description: "Automatic upper arm blood pressure monitor",
		priceCents:  8999,
		category:    "Healthcare",
		imageURL:    "https://images.unsplash.com/photo-1631549916768-4119b2e5f926?w=500",
	},
}

func main() {
	cfg, err := appconfig.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(cfg.ServiceName+"-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, log)
	if err != nil {
		log.Error("connect postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, postgres.Migrations(), log); err != nil {
		log.Error("run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if _, err := pool.Exec(ctx, "DELETE FROM products"); err != nil {
		log.Error("clear products", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("cleared existing products")

	repo := postgres.NewProductRepository(pool)
	now := time.Now().UTC()

	for _, sp := range sampleProducts {
		p := &domain.Product{
			ID:          uuid.New().String(),
			Name:        sp.name,
			Description: sp.description,
			PriceCents:  sp.priceCents,
			Category:    sp.category,
			ImageURL:    sp.imageURL,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repo.Create(ctx, p); err != nil {
			log.Error("insert product",
				slog.String("name", sp.name),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	log.Info("seeding completed", slog.Int("products", len(sampleProducts)))
}
