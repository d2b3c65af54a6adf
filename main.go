package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tournevent/storefront/internal/server"
	"github.com/tournevent/storefront/internal/telemetry"
	"github.com/tournevent/storefront/pkg/access"
	"github.com/tournevent/storefront/pkg/shipping"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "storefront",
	Short:   "Delivro Storefront - shipping quotes and role routing service",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var landingCmd = &cobra.Command{
	Use:   "landing",
	Short: "Print the landing path for a role",
	Args:  cobra.NoArgs,
	RunE:  runLanding,
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote shipping from a partner to a user's saved address",
	Args:  cobra.NoArgs,
	RunE:  runQuote,
}

func init() {
	landingCmd.Flags().String("role", "", "account role (admin, market, restaurant, delivery, customer)")
	landingCmd.Flags().String("next", "", "requested post-login path")

	quoteCmd.Flags().String("partner", "", "partner id")
	quoteCmd.Flags().String("address", "", "user address id")
	quoteCmd.Flags().String("user", "", "id of the user who owns the address")
	for _, name := range []string{"partner", "address", "user"} {
		_ = quoteCmd.MarkFlagRequired(name)
	}

	rootCmd.AddCommand(serveCmd, landingCmd, quoteCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(context.Background())
	}

	st, err := initStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	provider, err := initRouteProvider(cfg, logger)
	if err != nil {
		return err
	}
	calculator, err := initCalculator(cfg, st, provider, logger, shipping.WithObserver(metrics))
	if err != nil {
		return err
	}

	verifier, exchanger, err := initAuth(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting Delivro Storefront",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.String("route_provider", provider.Name()),
	)

	deps := server.Deps{
		Calculator:    calculator,
		Roles:         access.NewRoleResolver(st, logger),
		Authenticator: verifier,
		Store:         st,
		Metrics:       metrics,
		Gatherer:      prometheus.DefaultGatherer,
		Logger:        logger,
	}
	if exchanger != nil {
		deps.Exchanger = exchanger
	}

	// Start HTTP server
	srv := server.New(server.Config{
		Port:             cfg.Port,
		ReadinessTimeout: cfg.ReadinessTimeout,
		SecureCookies:    cfg.SecureCookies,
	}, deps)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runLanding(cmd *cobra.Command, args []string) error {
	role, _ := cmd.Flags().GetString("role")
	next := access.NoNext
	if cmd.Flags().Changed("next") {
		raw, _ := cmd.Flags().GetString("next")
		next = access.ParseNext(raw)
	}
	fmt.Fprintln(cmd.OutOrStdout(), access.RouteForString(role, next))
	return nil
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := initStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	provider, err := initRouteProvider(cfg, logger)
	if err != nil {
		return err
	}
	calculator, err := initCalculator(cfg, st, provider, logger)
	if err != nil {
		return err
	}

	partner, _ := cmd.Flags().GetString("partner")
	address, _ := cmd.Flags().GetString("address")
	user, _ := cmd.Flags().GetString("user")

	quote, err := calculator.Calculate(ctx, shipping.QuoteRequest{
		PrincipalID:   user,
		PartnerID:     partner,
		UserAddressID: address,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(quote)
}
