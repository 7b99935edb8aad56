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

	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/application/invoicing"
	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"github.com/invoicing/backend/internal/infrastructure/mail"
	"github.com/invoicing/backend/internal/infrastructure/printing"
	"github.com/invoicing/backend/internal/interfaces/http/handler"
	"github.com/invoicing/backend/internal/interfaces/http/middleware"
	"github.com/invoicing/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

//	@title			Invoice Service API
//	@version		1.0
//	@description	Renders invoices to PDF and emails them to the client and the business
//	@BasePath		/api

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		logger.Sync(log)
		os.Exit(1)
	}
}

// run wires the service and serves until ctx ends or the listener fails.
// Every resource opened here is released before it returns.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting invoice service",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("renderer", cfg.Renderer.Engine),
		zap.String("mail_provider", cfg.Mail.Provider))

	pdfRenderer, err := printing.NewPDFRenderer(printing.EngineConfig{
		Engine:          cfg.Renderer.Engine,
		RemoteURL:       cfg.Renderer.RemoteURL,
		NoSandbox:       cfg.Renderer.NoSandbox,
		Timeout:         cfg.Renderer.Timeout,
		WkhtmltopdfPath: cfg.Renderer.WkhtmltopdfPath,
	}, log)
	if err != nil {
		return fmt.Errorf("initialize PDF renderer: %w", err)
	}
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Warn("Failed to close PDF renderer", zap.Error(err))
		}
	}()

	sender, err := mail.NewSender(mail.Config{
		Provider:             cfg.Mail.Provider,
		Host:                 cfg.Mail.Host,
		Port:                 cfg.Mail.Port,
		Username:             cfg.Mail.Username,
		Password:             cfg.Mail.Password,
		TLSPolicy:            cfg.Mail.TLSPolicy,
		InsecureSkipVerify:   cfg.Mail.InsecureSkipVerify,
		From:                 cfg.Mail.From,
		Timeout:              cfg.Mail.Timeout,
		PostmarkServerToken:  cfg.Mail.PostmarkServerToken,
		PostmarkAccountToken: cfg.Mail.PostmarkAccountToken,
		DevDir:               cfg.Mail.DevDir,
	}, log)
	if err != nil {
		return fmt.Errorf("initialize mail sender: %w", err)
	}
	defer func() {
		if err := sender.Close(); err != nil {
			log.Warn("Failed to close mail sender", zap.Error(err))
		}
	}()

	tmpl, err := printing.DefaultInvoiceTemplate()
	if err != nil {
		return fmt.Errorf("load invoice template: %w", err)
	}

	renderer := invoicing.NewDocumentRenderer(printing.NewTemplateEngine(), tmpl, pdfRenderer, log.Named("renderer"))
	invoiceService := invoicing.NewService(renderer, sender, invoicing.ServiceConfig{
		From:              cfg.Mail.From,
		InternalRecipient: cfg.Mail.InternalRecipient,
	}, log.Named("invoicing"))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.IsProduction()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	// Order: request id, panic recovery, access log, headers, CORS, body limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure(securityConfig))
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var invoiceMiddleware []gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Close()
		invoiceMiddleware = append(invoiceMiddleware, middleware.RateLimit(limiter))
	}

	systemHandler := handler.NewSystemHandler()
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, renderer)

	router.NewRouter(engine).
		Register(handler.InvoiceRoutes(invoiceHandler, systemHandler, invoiceMiddleware...)).
		RegisterRoot(handler.RootRoutes(systemHandler)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var listenErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case listenErr = <-serverErr:
		log.Error("Server failed", zap.Error(listenErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Join(listenErr, fmt.Errorf("shutdown: %w", err))
	}
	if listenErr != nil {
		return fmt.Errorf("listen: %w", listenErr)
	}

	log.Info("Server exited gracefully")
	return nil
}
