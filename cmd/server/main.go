package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/handywriterz/core/internal/app"
	"github.com/handywriterz/core/internal/config"
	"github.com/handywriterz/core/internal/database"
	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/modules/auth/user"
	"github.com/handywriterz/core/internal/pkg/nativelog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "handywriterz",
	Short:         "HandyWriterz content backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := database.EnsureSchema(cfg); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

var newUser user.CreateUserDTO

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an admin or site account",
	Example: "  handywriterz create-user --username editor --email editor@handywriterz.com --password 's3cret-pass'\n" +
		"  handywriterz create-user --provider site --role admin --username ops --email ops@handywriterz.com --password '...'",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		db, err := database.Connect(cfg, true)
		if err != nil {
			return err
		}
		u, err := user.NewService(db).Create(cmd.Context(), &newUser)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s account %s (%s)\n", u.Provider, u.Username, u.ID)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to YAML config file")

	f := createUserCmd.Flags()
	f.StringVar(&newUser.Username, "username", "", "login name")
	f.StringVar(&newUser.Email, "email", "", "email address")
	f.StringVar(&newUser.Password, "password", "", "password, at least 8 characters")
	f.StringVar(&newUser.Name, "name", "", "display name")
	f.StringVar((*string)(&newUser.Provider), "provider", string(models.ProviderAdmin), "admin or site")
	f.StringVar(&newUser.Role, "role", "", "role of a site account: admin, editor or user")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(serveCmd, migrateCmd, createUserCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := nativelog.NewZapLogger(nativelog.Options{Dir: cfg.LogDir(), Debug: cfg.IsDev()})
	if err != nil {
		logger, _ = zap.NewProduction()
		logger.Warn("file log unavailable, logging to stdout only", zap.Error(err))
	}
	defer logger.Sync()

	application, err := app.New(logger, cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}

	srv := &http.Server{
		Addr:              application.Addr(),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		application.Shutdown()
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		application.Shutdown()
		return fmt.Errorf("forced shutdown: %w", err)
	}
	application.Shutdown()
	logger.Info("server exited")
	return nil
}
