// Package main initializes and starts the data-source and data-sink
// HTTP services: configuration, logging, the shared credential store,
// the sandboxed storage layer, handlers, and routing.
package main

import (
	"cmp"
	"context"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/config"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/logger"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/repository"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/sandbox"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/server/handler/http"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/service"
	"github.com/OWSqix/sovity-ce-local-demo-datasource-and-datasink/internal/storage"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options := config.Parse()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log, err := logger.New(options.LogLevel, options.LogFile, options.DetailedLogs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// The sandbox root confines every file operation of both services.
	resolver, err := sandbox.NewResolver(options.DataDir)
	if err != nil {
		log.Fatal("cannot init sandbox root", zap.Error(err))
	}

	// One credential store and one token service, shared by both
	// services, so subject-existence checks have a single source of
	// truth no matter which service validates a token.
	credentials := repository.NewMemoryCredentialStore()
	authService := service.NewAuthService(credentials)
	tokenService := service.NewTokenService([]byte(options.JWTSecret), options.TokenTTL, credentials)

	store := storage.NewStore(resolver)
	receiver, err := storage.NewReceiver(resolver)
	if err != nil {
		log.Fatal("cannot init receive sub-root", zap.Error(err))
	}

	var servers []*nethttp.Server

	if options.Service == config.ServiceDataSource || options.Service == config.ServiceAll {
		authHandler := &http.AuthHandler{Auth: authService, Tokens: tokenService, Logger: log}
		filesHandler := &http.FilesHandler{Store: store, Logger: log, MaxUploadSize: options.MaxUploadSize}
		router := http.NewSourceRouter(authHandler, filesHandler, tokenService, options.CORSOrigin, log)
		servers = append(servers, &nethttp.Server{Addr: options.SourceAddr, Handler: router})
		log.Info("data-source service configured", zap.String("addr", options.SourceAddr), zap.String("data_dir", resolver.Root()))
	}

	if options.Service == config.ServiceDataSink || options.Service == config.ServiceAll {
		receiveHandler := &http.ReceiveHandler{
			Receiver:      receiver,
			Secret:        options.ReceiveSecret,
			Logger:        log,
			MaxUploadSize: options.MaxUploadSize,
		}
		router := http.NewSinkRouter(receiveHandler, tokenService, options.CORSOrigin, log)
		servers = append(servers, &nethttp.Server{Addr: options.SinkAddr, Handler: router})
		log.Info("data-sink service configured", zap.String("addr", options.SinkAddr))
	}

	if len(servers) == 0 {
		log.Fatal("unknown service selection", zap.String("service", options.Service))
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		srv := srv
		go func() {
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
				errCh <- err
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("server failed", zap.Error(err))
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown failed", zap.String("addr", srv.Addr), zap.Error(err))
		}
	}
}
