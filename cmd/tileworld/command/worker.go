package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-service"
	"github.com/pixil98/go-tileworld/internal/driver"
	"github.com/pixil98/go-tileworld/internal/game"
	"github.com/pixil98/go-tileworld/internal/messaging"
	"github.com/pixil98/go-tileworld/internal/world"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Create the messaging server carrying diagnostics and events
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Load resources and build the registry
	resources, err := cfg.Storage.BuildResourceManager(natsServer)
	if err != nil {
		return nil, fmt.Errorf("creating resource manager: %w", err)
	}

	// Set up the snapshot engine and the game supervisor
	engine := world.NewEngine(cfg.Map.root(), resources, world.WithEvents(natsServer))
	g := game.NewGame(resources, engine, cfg.Map.Name)

	// Drive the game on the configured cadence
	var driverOpts []driver.WorldDriverOpt
	if cfg.TickInterval != "" {
		d, err := time.ParseDuration(cfg.TickInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing tick_interval: %w", err)
		}
		driverOpts = append(driverOpts, driver.WithTickLength(d))
	}
	worldDriver := driver.NewWorldDriver([]driver.Manager{g}, driverOpts...)

	return service.WorkerList{
		"nats":    natsServer,
		"monitor": messaging.NewMonitor(natsServer),
		"game":    g,
		"driver":  worldDriver,
	}, nil
}
