package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"haxball/config"
	"haxball/game"
	"haxball/logger"
	"haxball/network"
	"haxball/room"
	"haxball/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", true)
		log.Fatal().Err(err).Msg("load config")
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	if !cfg.LogPretty {
		gin.SetMode(gin.ReleaseMode)
	}

	gameCfg := game.DefaultConfig()
	gameCfg.Delay = cfg.Tick

	rooms := room.NewRegistry()
	for _, spec := range cfg.Rooms {
		if _, err := rooms.Create(spec.Name, gameCfg, spec.Password); err != nil {
			log.Fatal().Err(err).Str("room", spec.Name).Msg("create room")
		}
		log.Info().Str("room", spec.Name).Bool("locked", spec.Password != "").Msg("room created")
	}

	hub := session.NewHub(rooms, session.Options{
		InputRate:  rate.Limit(cfg.InputRate),
		InputBurst: cfg.InputBurst,
	})
	srv := network.NewServer(rooms, hub, network.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		SendBuffer:     cfg.SendBuffer,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	rooms.StopAll()
}
