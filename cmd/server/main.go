package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tgpcet-it/internal/activity"
	"tgpcet-it/internal/auth"
	"tgpcet-it/internal/backend"
	"tgpcet-it/internal/config"
	"tgpcet-it/internal/handlers"
	"tgpcet-it/internal/identity"
	"tgpcet-it/internal/models"
	"tgpcet-it/internal/netstatus"
	"tgpcet-it/internal/notify"
	"tgpcet-it/internal/pdf"
	"tgpcet-it/internal/retry"
	"tgpcet-it/internal/seed"
	"tgpcet-it/internal/server"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("backend connection failed: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("backend close error: %v", err)
		}
	}()

	var states auth.StateStore = auth.NewMemoryStates()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
		states = auth.NewRedisStates(redisClient)
	}

	var google identity.Federated
	if cfg.GoogleEnabled() {
		google = identity.NewGoogle(identity.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		})
	} else {
		log.Println("GOOGLE_CLIENT_ID is not set, google sign-in disabled")
	}

	retryOpts := retry.Options{
		OnRetry: func(attempt, total int) {
			log.Printf("retrying backend call (%d/%d)", attempt, total)
		},
	}

	coordinator := auth.NewCoordinator(auth.Options{
		Users:      db.Users,
		Google:     google,
		Passwords:  identity.NewPasswords(db.Users),
		States:     states,
		AdminEmail: cfg.AdminEmail,
		Retry:      retryOpts,
	})
	coordinator.OnStateChange(func(p *identity.Principal, role models.UserRole) {
		if p == nil {
			log.Println("user signed out")
			return
		}
		log.Printf("user signed in: %s (%s)", p.Email, role)
	})

	toasts := notify.NewContainer()
	monitor := netstatus.New(db.Ping, cfg.NetworkProbeInterval, toasts)
	monitor.Subscribe(func(online bool) {
		log.Printf("backend online: %v", online)
	})
	go monitor.Run(ctx)

	h := handlers.New(handlers.Deps{
		Backend:        db,
		Auth:           coordinator,
		Activity:       activity.NewLogger(db.Activity),
		PDF:            pdf.NewRenderer(pdf.DirImages(cfg.AssetsDir)),
		Seeder:         seed.NewSeeder(db.Staff, nil),
		Monitor:        monitor,
		Toasts:         toasts,
		Retry:          retryOpts,
		GalleryDir:     filepath.Join(cfg.AssetsDir, "events"),
		GoogleClientID: cfg.GoogleClientID,
	})

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(cfg, h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("starting server on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
