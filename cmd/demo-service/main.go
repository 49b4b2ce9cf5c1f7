package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/MKhiriev/go-service-sdk/internal/logger"
	"github.com/MKhiriev/go-service-sdk/sdk"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

//go:embed migrations/*.sql
var embedded embed.FS

func main() {
	printBuildInfo()

	log := logger.NewLogger("demo-service")
	settings, err := sdk.LoadSettings(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting settings")
	}

	migrations, err := fs.Sub(embedded, "migrations")
	if err != nil {
		log.Fatal().Err(err).Msg("error reading embedded migrations")
	}

	ctx := context.Background()
	svc, err := sdk.New(ctx, settings,
		sdk.WithBuildInfo(sdk.BuildInfo{Name: "demo-service", Version: buildVersion, Commit: buildCommit}),
		sdk.WithLogger(log),
		sdk.WithMigrations(migrations),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating service context")
	}

	if err = register(svc); err != nil {
		log.Fatal().Err(err).Msg("error registering service components")
	}

	if err = svc.StartApplication(ctx); err != nil {
		log.Fatal().Err(err).Msg("service stopped with failure")
	}
}

func register(svc *sdk.ServiceContext) error {
	api := newEventsAPI(storageOf(svc), publisherOf(svc), svc.Logger())

	if err := svc.ConfigureHTTPServer(api.routes); err != nil {
		return err
	}

	if _, err := svc.RegisterTimer(30*time.Second, sdk.TickFunc(api.heartbeat)); err != nil {
		return fmt.Errorf("heartbeat timer: %w", err)
	}
	if err := svc.RegisterSchedule("@every 1h", "events-retention", sdk.TickFunc(api.purgeExpired)); err != nil {
		return fmt.Errorf("retention schedule: %w", err)
	}

	if svc.Has(sdk.CapabilityPubSub) {
		if err := svc.Subscribe(subjectEventCreated, sdk.SharedQueue, api.onEventCreated); err != nil {
			return fmt.Errorf("subscribe %s: %w", subjectEventCreated, err)
		}
	}

	return nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
