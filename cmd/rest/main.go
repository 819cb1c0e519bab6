package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kanzlei-ai-be/internal/bootstrap"
	"kanzlei-ai-be/internal/config"
	"kanzlei-ai-be/internal/server"
	"kanzlei-ai-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Start Background Services
	log.Println("Background: Starting Run Queue Consumer...")
	if err := container.Runner.Start(ctx, container.AgentService); err != nil {
		log.Panicf("Unable to start background runner: %v", err)
	}

	go sweepPendingPipelines(ctx, container)

	// 5. Initialize Server
	srv := server.New(cfg, container.Controllers, container.WebSocketHub)

	// 6. Run Server
	go func() {
		if err := srv.Listen(); err != nil {
			log.Panicf("Server stopped: %v", err)
		}
	}()

	// 7. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	container.Runner.Close()
	if container.NatsSub != nil {
		container.NatsSub.Close()
	}
	if container.NatsPub != nil {
		container.NatsPub.Close()
	}
	container.Logger.Sync()
}

// sweepPendingPipelines drops expired drafting state once per hour so
// abandoned question rounds do not pile up.
func sweepPendingPipelines(ctx context.Context, container *bootstrap.Container) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := container.PendingStore.Sweep(ctx)
			if err != nil {
				log.Printf("Pending sweep error: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("Pending sweep: removed %d expired pipelines", deleted)
			}
		}
	}
}
