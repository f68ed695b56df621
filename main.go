package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"verdura/auth"
	"verdura/categories"
	"verdura/config"
	"verdura/contact"
	"verdura/content"
	"verdura/db"
	"verdura/filemgr"
	"verdura/live"
	"verdura/middleware"
	"verdura/mq"
	"verdura/orders"
	"verdura/products"
	"verdura/ratelim"
	"verdura/rdx"
	"verdura/recipes"
	"verdura/routes"
	"verdura/seed"
	"verdura/settings"
	"verdura/uploads"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		// HSTS (must be on HTTPS)
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.RequestURI,
			"remote":   r.RemoteAddr,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	mongo, err := db.Connect(ctx, cfg.MongoURI, cfg.DBName)
	cancel()
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to mongodb")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongo.Close(ctx); err != nil {
			logrus.WithError(err).Warn("mongodb disconnect failed")
		}
	}()

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := seed.Run(seedCtx, mongo, cfg); err != nil {
		seedCancel()
		logrus.WithError(err).Fatal("failed to seed database")
	}
	seedCancel()

	cache := rdx.Connect(cfg.RedisAddr)
	defer cache.Close()

	hub := live.NewHub()
	go hub.Run()

	events := mq.NewEmitter(cache, hub)
	authMW := middleware.NewAuth(cfg.JwtSecret)
	rateLimiter := ratelim.NewRateLimiter()
	store := filemgr.NewStore(cfg.UploadsDir)

	authHandler := auth.NewHandler(mongo, authMW)
	router := routes.New(routes.Handlers{
		Auth:       authHandler,
		Categories: categories.NewHandler(mongo, cache),
		Products:   products.NewHandler(mongo, cache),
		Orders:     orders.NewHandler(mongo, authHandler, events, cfg.AnalyticsIncludeCancelled),
		Content:    content.NewHandler(mongo),
		Contact:    contact.NewHandler(mongo),
		Recipes:    recipes.NewHandler(mongo),
		Settings:   settings.NewHandler(mongo),
		Uploads:    uploads.NewHandler(mongo, store),
		Hub:        hub,
	}, authMW, rateLimiter)

	// middleware order: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		logrus.Info("shutting down live feed hub")
		hub.Stop()
	})

	go func() {
		logrus.WithField("addr", cfg.Addr()).Info("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("listen and serve")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logrus.Info("shutdown signal received; shutting down gracefully")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Fatal("graceful shutdown failed")
	}

	logrus.Info("server stopped cleanly")
}
