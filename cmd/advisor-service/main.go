package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	delivery "golang-stock-advisor/internal/advisor/delivery/http"
	_ "golang-stock-advisor/internal/advisor/docs"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/telegram"
	"golang-stock-advisor/web"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the stock advisor service",
	Run:   runServe,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answers a single question and exits",
	Args:  cobra.ExactArgs(1),
	Run:   runAsk,
}

func buildServices(cfg *config.Config, appLogger *logger.Logger) (service.PipelineService, service.AdvisorService) {
	// Initialize repositories
	stockDataRepo := repository.NewYahooFinanceRepository(cfg, appLogger)
	newsRepo := repository.NewYahooNewsRepository(cfg, appLogger)

	// Initialize optional Telegram notifier
	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
		notifier = client
	}

	// Initialize services
	marketSvc := service.NewMarketDataService(appLogger, stockDataRepo)
	fundamentalsSvc := service.NewFundamentalsService(cfg, appLogger, stockDataRepo, newsRepo)
	riskSvc := service.NewRiskService(appLogger)
	pipelineSvc := service.NewPipelineService(appLogger, marketSvc, fundamentalsSvc, riskSvc, notifier)

	parserSvc := service.NewQuestionParserService()
	simpleSvc := service.NewSimpleQueryService(appLogger, stockDataRepo)
	complexSvc := service.NewComplexQueryService(cfg, appLogger, pipelineSvc)
	advisorSvc := service.NewAdvisorService(appLogger, parserSvc, simpleSvc, complexSvc)

	return pipelineSvc, advisorSvc
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Stock Advisor Service", logger.Field("name", cfg.App.Name))

	pipelineSvc, advisorSvc := buildServices(cfg, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	queryHandler := delivery.NewQueryHandler(pipelineSvc, advisorSvc, appLogger)
	apiV1 := e.Group("/api/v1")
	queryHandler.RegisterRoutes(apiV1)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Serve the embedded dashboard
	e.StaticFS("/", echo.MustSubFS(web.Static, "static"))

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func runAsk(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	_, advisorSvc := buildServices(cfg, appLogger)

	response, err := advisorSvc.Ask(ctx, args[0])
	if err != nil {
		appLogger.Fatal("Failed to answer question", logger.ErrorField(err))
	}

	fmt.Println(response.Answer)
}

// @title Stock Advisor API
// @version 1.0
// @description Rule-based stock analysis and recommendation service.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "advisor-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-advisor.yaml", "Path to the configuration file")
	askCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-advisor.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing advisor-service CLI: %s\n", err)
		os.Exit(1)
	}
}
