package main

import (
	"os"

	"github.com/orgball2608/community-feed-engine/internal/app"
	"github.com/orgball2608/community-feed-engine/pkg/logger"
)

func main() {
	log := logger.New(logger.Opts{})

	if err := app.Run(log); err != nil {
		log.Error("Application error", "error", err)
		os.Exit(1)
	}
}
