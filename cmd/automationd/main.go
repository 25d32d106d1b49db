package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nextinvision/recruitment-os-sub001/internal/automation"
	"github.com/nextinvision/recruitment-os-sub001/internal/config"
	"github.com/nextinvision/recruitment-os-sub001/internal/db"
	internalhttp "github.com/nextinvision/recruitment-os-sub001/internal/http"
	"github.com/nextinvision/recruitment-os-sub001/internal/logging"
	"github.com/nextinvision/recruitment-os-sub001/internal/store"
	"github.com/nextinvision/recruitment-os-sub001/internal/sweeper"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, errLoad := config.Load(*configPath)
	if errLoad != nil {
		log.WithError(errLoad).Fatal("load config failed")
	}
	logging.Setup(cfg.Logging)

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		log.WithError(errOpen).Fatal("open database failed")
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		log.WithError(errMigrate).Fatal("migrate database failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	executor := automation.NewExecutor(
		store.NewNotifier(conn),
		store.NewUserDirectory(conn),
		store.NewActivityLog(conn),
		store.NewFollowUpScheduler(conn),
		store.NewStatusUpdater(conn),
	)
	runner := automation.NewRunner(
		store.NewRuleStore(conn),
		store.NewRecordSource(conn),
		automation.NewEvaluator(),
		executor,
		buildGuard(cfg),
	)

	if cfg.Sweep.Enabled {
		interval, _ := cfg.SweepInterval()
		sweeper.New(runner, interval).Start(ctx)
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: internalhttp.NewRouter(conn, runner),
	}

	go func() {
		log.Infof("automationd listening on %s", cfg.Server.Addr)
		if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			log.WithError(errServe).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
		log.WithError(errShutdown).Warn("http shutdown failed")
	}
}

// buildGuard wires the cooldown guard from config: disabled by default,
// redis-backed when an address is configured, in-process otherwise.
func buildGuard(cfg *config.Config) automation.Guard {
	cooldown, errParse := cfg.SweepCooldown()
	if errParse != nil || cooldown <= 0 {
		return nil
	}

	if addr := strings.TrimSpace(cfg.Redis.Addr); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Infof("automation cooldown guard using redis (window=%s)", cooldown)
		return automation.NewRedisGuard(client, cooldown)
	}

	log.Infof("automation cooldown guard in memory (window=%s)", cooldown)
	return automation.NewMemoryGuard(cooldown)
}
