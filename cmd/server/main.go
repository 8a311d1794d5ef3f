package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/config"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/infra"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/receipt"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/router"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger — dev: pretty console, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// One breaker per external payment channel: a downed maquininha must not
	// take PIX with it.
	cbTerminal := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	cbPix := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	// Worker pool for the async cupom pipeline (PDF, thermal print, e-mail).
	// Handlers are wired here (composition root) so the pool has full access
	// to the infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	impressora := infra.NewImpressoraClient(cfg.ImpressoraURL)
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	loja := receipt.Loja{
		Nome:     cfg.LojaNome,
		CNPJ:     cfg.LojaCNPJ,
		Endereco: cfg.LojaEndereco,
		Telefone: cfg.LojaTelefone,
	}

	workerHandlers := &worker.WorkerHandlers{
		Impressao: worker.NewImpressaoWorker(impressora, dispatcher, rdb, loja, cfg.PDFStoragePath),
		Email:     worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)
	worker.StartRetryCron(ctx, rdb, dispatcher)

	r := router.New(cfg, db, rdb, cbTerminal, cbPix)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * cfg.PagamentoTimeout(), // terminal hand-off blocks the request
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Paulo Cell POS backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
