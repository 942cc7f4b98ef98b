// Command seed fills a development database with demo providers, their
// profiles and a handful of active services per category.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"hausly/config"
	"hausly/database"
	"hausly/database/repository"
	"hausly/models"
	"hausly/utils"

	"go.uber.org/zap"
)

func main() {
	providers := flag.Int("providers", 3, "number of demo providers")
	perCategory := flag.Int("per-category", 2, "services per provider per category")
	flag.Parse()

	config.LoadConfig()
	logger := utils.GetLogger()
	database.InitDB()
	defer func() { _ = database.Disconnect(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repos := repository.NewMongoRepositories(false)
	if err := repos.Categories.EnsureDefaults(ctx, models.DefaultCategoryInfo()); err != nil {
		logger.Fatal("seed: categories", zap.Error(err))
	}

	created := 0
	for i := 1; i <= *providers; i++ {
		uid := fmt.Sprintf("seed-provider-%d", i)
		name := fmt.Sprintf("Demo Provider %d", i)
		now := time.Now()

		err := repos.Users.Create(ctx, &models.User{
			UID:       uid,
			Name:      name,
			Email:     fmt.Sprintf("provider%d@example.com", i),
			Role:      models.RoleProvider,
			Verified:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil && !errors.Is(err, database.ErrDuplicate) {
			logger.Fatal("seed: provider user", zap.String("uid", uid), zap.Error(err))
		}

		if _, err := repos.Profiles.Upsert(ctx, &models.ProviderProfile{
			UID:             uid,
			BusinessName:    name,
			Bio:             "Seeded for local development.",
			ServiceArea:     "Sample City",
			YearsExperience: rand.Intn(15) + 1,
			Verified:        true,
		}); err != nil {
			logger.Fatal("seed: provider profile", zap.String("uid", uid), zap.Error(err))
		}

		for _, category := range models.Categories {
			for j := 1; j <= *perCategory; j++ {
				svc := &models.Service{
					Title:        fmt.Sprintf("%s package %d", category, j),
					Description:  fmt.Sprintf("%s by %s", category, name),
					Price:        float64(50 + rand.Intn(20)*25),
					Category:     category,
					ProviderID:   uid,
					ProviderName: name,
					IsActive:     true,
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if err := repos.Services.Create(ctx, svc); err != nil {
					logger.Fatal("seed: service", zap.String("title", svc.Title), zap.Error(err))
				}
				created++
			}
		}
	}
	logger.Info("seed: done", zap.Int("providers", *providers), zap.Int("services", created))
}
