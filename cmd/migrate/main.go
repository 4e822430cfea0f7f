package main

import (
	"context"
	"flag"

	"pereval/internal/app/config"
	"pereval/internal/app/repository"

	"github.com/sirupsen/logrus"
)

func main() {
	area := flag.String("area", "", "название района, который нужно добавить")
	parent := flag.Uint("parent", 0, "id родительского района")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to read config: %v", err)
	}
	cfg.ConfigureLogger()

	// Open выполняет миграцию всех моделей
	repo, err := repository.Open(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}
	defer repo.Close()

	logrus.Info("Database migration completed successfully")

	ctx := context.Background()
	created, err := repo.SeedActivityTypes(ctx, repository.DefaultActivityTypes)
	if err != nil {
		logrus.Fatalf("Failed to seed activity types: %v", err)
	}
	logrus.Infof("Activity types seeded: %d new", created)

	if *area != "" {
		var parentID *uint
		if *parent != 0 {
			id := *parent
			parentID = &id
		}
		a, err := repo.CreateArea(ctx, *area, parentID)
		if err != nil {
			logrus.Fatalf("Failed to create area: %v", err)
		}
		logrus.Infof("Area %q created with id %d", a.Title, a.ID)
	}
}
