package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Diffraction-Limited/goboltwood/internal/client"
	"github.com/Diffraction-Limited/goboltwood/internal/exporter"
	"github.com/Diffraction-Limited/goboltwood/internal/logging"
	"github.com/Diffraction-Limited/goboltwood/internal/mqtt"
	"github.com/Diffraction-Limited/goboltwood/internal/observability"
	"github.com/Diffraction-Limited/goboltwood/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var startedAt = time.Now()

func main() {
	logging.ConfigureRuntime()

	// broker credentials come from the environment, not the config file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("exporter: .env not loaded")
	}

	configPath := flag.String("config", "exporter.toml", "toml config file")
	flag.Parse()

	cfg, err := loadExporterConfig(*configPath)
	if err != nil {
		fatal(err)
	}

	serial, err := transport.OpenSerial(cfg.Transport)
	if err != nil {
		fatal(err)
	}
	defer serial.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cl := client.New(serial)
	deviceSerial, err := cl.Serial(ctx)
	if err != nil {
		fatal(fmt.Errorf("read device serial: %w", err))
	}
	log.Info().Str("serial", deviceSerial).Msg("exporter: device identified")

	var pub *mqtt.Publisher
	if cfg.MQTT.Broker != "" {
		mc, err := mqtt.NewClient(mqtt.ClientConfig{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: os.Getenv("BOLTWOOD_MQTT_USERNAME"),
			Password: os.Getenv("BOLTWOOD_MQTT_PASSWORD"),
		})
		if err != nil {
			fatal(err)
		}
		defer mc.Close()
		pub = mqtt.NewPublisher(mc, cfg.MQTT.TopicPrefix, deviceSerial)
	}

	observability.RegisterMetrics()
	svc := exporter.New(cl, pub, cfg.Exporter)

	router := newRouter(svc, deviceSerial)
	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: router}
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("exporter: http listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("exporter: http server failed")
		}
	}()

	err = svc.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if herr := httpServer.Shutdown(shutdownCtx); herr != nil {
		log.Error().Err(herr).Msg("exporter: http shutdown failed")
	}
	if err != nil {
		fatal(err)
	}
}

func newRouter(svc *exporter.Service, deviceSerial string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.RequestLogger(log.Logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"serial": deviceSerial,
			"uptime": time.Since(startedAt).String(),
		})
	})
	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Status())
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "boltwood-exporter: %v\n", err)
	os.Exit(1)
}
