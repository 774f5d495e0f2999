// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/lib/pq"

	"carelink/internal/audit"
	auditkafka "carelink/internal/audit/kafka"
	"carelink/internal/connection"
	connhandler "carelink/internal/connection/handler"
	connmetrics "carelink/internal/connection/metrics"
	connservice "carelink/internal/connection/service"
	connstore "carelink/internal/connection/store"
	jwttoken "carelink/internal/jwt_token"
	"carelink/internal/platform/config"
	"carelink/internal/platform/httpserver"
	"carelink/internal/platform/logger"
	platformredis "carelink/internal/platform/redis"
	"carelink/internal/profile"
	profilecache "carelink/internal/profile/cache"
	httptransport "carelink/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var store connection.Store = connstore.NewInMemoryStore()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		store = connstore.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory connection store")
	}

	var profiles profile.Store = profile.NewInMemoryStore()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		profiles = profilecache.NewRedisCache(profiles, redisClient.Client, config.ProfileCacheTTL, log)
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	auditSinks := []audit.Sink{audit.NewInMemoryStore()}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := auditkafka.NewSink(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()

		// The producer runs behind a queue so a slow broker cannot stall
		// request handling.
		queue := audit.NewChannelSink(1024)
		worker := audit.NewWorker(kafkaSink, queue.Events())
		go func() {
			if err := worker.Run(workerCtx); err != nil && workerCtx.Err() == nil {
				log.Error("audit worker stopped", "error", err)
			}
		}()
		auditSinks = append(auditSinks, queue)
	}
	auditPublisher := audit.NewPublisher(log, auditSinks...)

	engineMetrics := connmetrics.New()
	engine := connservice.New(store, profiles, auditPublisher, engineMetrics, log)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "carelink", "carelink-api")
	handler := connhandler.New(engine, log, jwttoken.NewMiddlewareAdapter(jwtService))

	router := httptransport.NewRouter(handler)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting carelink connection engine", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
