package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/mateuspires/basetracker-go/internal/adapters/catalogfs"
	"github.com/mateuspires/basetracker-go/internal/adapters/persistence"
	snapshotStore "github.com/mateuspires/basetracker-go/internal/adapters/snapshot"
	"github.com/mateuspires/basetracker-go/internal/application/common"
	"github.com/mateuspires/basetracker-go/internal/application/village/commands"
	"github.com/mateuspires/basetracker-go/internal/application/village/queries"
	"github.com/mateuspires/basetracker-go/internal/domain/catalog"
	"github.com/mateuspires/basetracker-go/internal/domain/shared"
	"github.com/mateuspires/basetracker-go/internal/domain/village"
	"github.com/mateuspires/basetracker-go/internal/infrastructure/config"
	"github.com/mateuspires/basetracker-go/internal/infrastructure/database"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: search standard locations)")
	flag.Parse()

	fmt.Println("BaseTracker Daemon v0.1.0")
	fmt.Println("=========================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configPath)

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected")

	// 2. Catalog
	fmt.Printf("Loading catalog from %s...\n", cfg.Catalog.Dir)
	cat, err := catalogfs.Load(cfg.Catalog.Dir)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	for _, warning := range cat.Warnings() {
		log.Printf("Catalog warning: %s", warning)
	}
	fmt.Printf("Catalog loaded: %d families\n", len(cat.Families()))

	// 3. State
	store := persistence.NewGormStateStore(db)
	state, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	fmt.Printf("State loaded: %d accounts, %d structures\n", state.Roster.Len(), len(state.Structures.All()))

	clock := shared.NewRealClock()
	sched := village.NewScheduler(cat, state.Structures, cfg.Scheduler.FallbackBuildTime)

	// 4. Mediator wiring
	m := common.NewMediator()
	if err := registerHandlers(m, state, store, cat, sched, clock); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	var snapshots *snapshotStore.Store
	if cfg.Snapshot.Enabled {
		snapshots = snapshotStore.NewStore(cfg.Snapshot.Dir, cfg.Snapshot.Keep)
		fmt.Printf("Snapshots enabled: %s (keep %d)\n", cfg.Snapshot.Dir, cfg.Snapshot.Keep)
	}

	// 5. Tick loop. The limiter paces the loop at the configured interval
	// and absorbs clock hiccups without drift.
	fmt.Printf("Scheduler running, tick interval %s\n", cfg.Scheduler.TickInterval)
	limiter := rate.NewLimiter(rate.Every(cfg.Scheduler.TickInterval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			fmt.Println("Shutting down...")
			return nil
		}

		resp, err := m.Send(ctx, &commands.TickCommand{})
		if err != nil {
			log.Printf("Tick failed: %v", err)
			continue
		}

		completions := resp.(*commands.TickResponse).Completions
		for _, done := range completions {
			log.Printf("Upgrade complete: %s reached level %d", done.InstanceID, done.Level)
		}

		if snapshots != nil && len(completions) > 0 {
			if path, err := snapshots.Write(state, clock.Now()); err != nil {
				log.Printf("Snapshot write failed: %v", err)
			} else {
				log.Printf("Snapshot written: %s", path)
			}
		}
	}
}

func registerHandlers(
	m common.Mediator,
	state *village.State,
	store village.StateStore,
	cat *catalog.Snapshot,
	sched *village.Scheduler,
	clock shared.Clock,
) error {
	editHandler := commands.NewEditStructuresHandler(state, store, cat)
	updateHandler := commands.NewUpdateAccountHandler(state, store, cat)
	buildersHandler := commands.NewSetBuildersHandler(state, store)
	scheduleHandler := commands.NewScheduleWorkHandler(state, store, sched, clock)

	registrations := []error{
		common.RegisterHandler[*commands.CreateAccountCommand](m, commands.NewCreateAccountHandler(state, store)),
		common.RegisterHandler[*commands.DeleteAccountCommand](m, commands.NewDeleteAccountHandler(state, store)),
		common.RegisterHandler[*commands.RenameAccountCommand](m, updateHandler),
		common.RegisterHandler[*commands.SetAccountNotesCommand](m, updateHandler),
		common.RegisterHandler[*commands.SetAccountTierCommand](m, updateHandler),
		common.RegisterHandler[*commands.SetBuildersCommand](m, buildersHandler),
		common.RegisterHandler[*commands.SetSixthBuilderCommand](m, buildersHandler),
		common.RegisterHandler[*commands.SetResourceCommand](m, commands.NewSetResourceHandler(state, store, cat)),
		common.RegisterHandler[*commands.BuildStructureCommand](m, editHandler),
		common.RegisterHandler[*commands.RemoveStructureCommand](m, editHandler),
		common.RegisterHandler[*commands.SetStructureLevelCommand](m, editHandler),
		common.RegisterHandler[*commands.SetStructureNoteCommand](m, editHandler),
		common.RegisterHandler[*commands.StartUpgradeCommand](m, scheduleHandler),
		common.RegisterHandler[*commands.StartBuildCommand](m, scheduleHandler),
		common.RegisterHandler[*commands.CancelWorkCommand](m, scheduleHandler),
		common.RegisterHandler[*commands.TickCommand](m, commands.NewTickHandler(state, store, sched, clock)),
		common.RegisterHandler[*commands.ImportAccountsCommand](m, commands.NewImportAccountsHandler(state, store)),
		common.RegisterHandler[*queries.GetAvailabilityQuery](m, queries.NewGetAvailabilityHandler(state, cat)),
		common.RegisterHandler[*queries.ListStructuresQuery](m, queries.NewListStructuresHandler(state, cat, clock)),
		common.RegisterHandler[*queries.ExportAccountsQuery](m, queries.NewExportAccountsHandler(state)),
		common.RegisterHandler[*queries.GetDashboardQuery](m, queries.NewGetDashboardHandler(state, clock)),
	}
	for _, err := range registrations {
		if err != nil {
			return err
		}
	}
	return nil
}
