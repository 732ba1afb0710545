package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/pulsekeeper/internal/app"
	"github.com/dmitrijs2005/pulsekeeper/internal/config"
	"github.com/dmitrijs2005/pulsekeeper/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger, err := logging.NewZapLogger(false)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer logger.Sync()

	a, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := a.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
