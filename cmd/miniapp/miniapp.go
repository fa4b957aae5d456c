package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	accountRepoPkg "github.com/KeynihAV/aladdin/pkg/account/repo"
	configPkg "github.com/KeynihAV/aladdin/pkg/config"
	"github.com/KeynihAV/aladdin/pkg/logging"
	screenDeliveryPkg "github.com/KeynihAV/aladdin/pkg/screen/delivery"
	"go.uber.org/zap"
)

var appName = "miniapp"

func main() {
	config := &configPkg.Config{}
	err := configPkg.Read(appName, config)
	if err != nil {
		log.Fatalln(err)
	}

	logger, err := logging.New(config.Log.Level)
	if err != nil {
		log.Fatalln(err)
	}
	defer logger.Zap.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = StartMiniApp(ctx, config, logger)
	if err != nil {
		logger.Zap.Fatal("start mini app",
			zap.String("logger", "ZAP"),
			zap.Error(err))
	}
}

func StartMiniApp(ctx context.Context, config *configPkg.Config, logger *logging.Logger) error {
	backendRepo := accountRepoPkg.NewBackendRepo(config, logger.Named("backend"))

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(config.HTTP.Port),
		Handler:           screenDeliveryPkg.NewRouter(logger.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Zap.Info("starting http server",
			zap.String("logger", "http"),
			zap.Int("port", config.HTTP.Port),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Zap.Fatal("error starting http server",
				zap.String("logger", "http"),
				zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	return screenDeliveryPkg.StartTgBot(ctx, config, backendRepo, logger.Named("tgbot"))
}
