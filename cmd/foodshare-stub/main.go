// Package main запускает локальную заглушку бэкенда FoodShare.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/merictopal/FoodShareHungary-MericTopal/internal/middleware"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/model"
	"github.com/merictopal/FoodShareHungary-MericTopal/internal/stubapi"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	_ = godotenv.Load()

	addr := flag.String("a", "localhost:5000", "address and port for the stub API server")
	secret := flag.String("secret", "foodshare-stub-secret", "JWT signing secret")
	adminEmail := flag.String("admin-email", "", "seed an admin account with this email")
	adminPassword := flag.String("admin-password", "", "password for the seeded admin account")
	flag.Parse()

	if env := os.Getenv("FOODSHARE_STUB_ADDRESS"); env != "" {
		*addr = env
	}

	store := stubapi.NewStore()

	if *adminEmail != "" && *adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*adminPassword), bcrypt.DefaultCost)
		if err != nil {
			sugar.Fatalw("hash admin password", "error", err.Error())
		}
		if _, err := store.CreateUser("Admin", *adminEmail, hash, model.RoleAdmin, ""); err != nil {
			sugar.Fatalw("seed admin account", "error", err.Error())
		}
		sugar.Infow("admin account seeded", "email", *adminEmail)
	}

	authMiddleware := middleware.NewAuthMiddleware(*secret)
	h := stubapi.NewHandler(store, logger, authMiddleware)

	server := &http.Server{
		Addr:    *addr,
		Handler: h.SetupRouter(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting foodshare stub server", "addr", *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down stub server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("stub server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
