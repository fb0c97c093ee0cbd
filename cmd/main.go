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

	"github.com/gatat123/studioo-backend/config"
	"github.com/gatat123/studioo-backend/internal/collab"
	participation_repo "github.com/gatat123/studioo-backend/internal/repo/participation"
	user_repo "github.com/gatat123/studioo-backend/internal/repo/user"
	"github.com/gatat123/studioo-backend/internal/routers"
	"github.com/gatat123/studioo-backend/internal/websocket"
	"github.com/gatat123/studioo-backend/internal/worker"
	"github.com/gatat123/studioo-backend/state"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// initialize the application
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appState, err := state.InitAppState(ctx, stop)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application state")
	}
	defer appState.Close()

	manager := collab.NewManager(collab.ConfigFromApp(), participation_repo.NewParticipationRepo(appState))
	defer manager.Close()
	log.Info().Msg("Collab manager initialized")

	authFunc := websocket.JWTWebSocketAuth(appState.JwtSecret.Public, appState.Redis, user_repo.NewUserRepo(appState))
	wsHandler := websocket.NewWebSocketHandler(manager, authFunc)
	log.Info().Msg("Websocket handler initialized")

	r := routers.NewRouter(appState, manager, wsHandler)

	workerPool := worker.NewWorkerPool(appState, config.Conf.WORKER.Num, manager)
	workerPool.Start(ctx)
	workerPool.StartDLQWorker(ctx)
	workerPool.StartDLQRetryConsumer(ctx)

	server := &http.Server{
		Addr:         config.Conf.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// serve the application
	go func() {
		log.Info().Msgf("Starting server on http://localhost%s", config.Conf.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(fmt.Sprintf("ListenAndServe failed: %v", err))
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown initiated...")
	// gracefully shutdown the application
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("Graceful shutdown failed: %v\n", err)
	} else {
		fmt.Println("Server exited gracefully.")
	}
	workerPool.Wait()
}
