package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/mcp-protocol/schema"
	mcpsrv "github.com/viant/mcp/server"

	"github.com/esglex/esglex/dictionary"
	"github.com/esglex/esglex/embedding"
	emcp "github.com/esglex/esglex/mcp"
	"github.com/esglex/esglex/service"
)

func serveCmd(args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	common := addCommonFlags(flags)
	addr := flags.String("addr", "127.0.0.1:6061", "MCP server address")
	_ = flags.Parse(args)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	initLogging(*common.logLevel, *common.logJSON)

	cfg, err := service.LoadConfig(ctx, *common.config)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	fs := afs.New()
	modelURL := url.Join(cfg.DataDir, "model.bin")
	model, err := embedding.Load(ctx, fs, modelURL)
	if err != nil {
		log.Fatalf("serve: load model %v: %v", modelURL, err)
	}
	dictURL := url.Join(cfg.DataDir, "dictionary", "dictionary.xlsx")
	expansions, err := dictionary.ReadXLSX(ctx, fs, dictURL)
	if err != nil {
		log.Fatalf("serve: load dictionary %v: %v", dictURL, err)
	}

	server, err := mcpsrv.New(
		mcpsrv.WithImplementation(schema.Implementation{Name: "esglex-mcp", Version: "0.1.0"}),
		mcpsrv.WithNewHandler(emcp.NewHandler(model, expansions)),
		mcpsrv.WithEndpointAddress(*addr),
		mcpsrv.WithRootRedirect(true),
		mcpsrv.WithStreamableURI("/mcp"),
	)
	if err != nil {
		log.Fatal(err)
	}

	server.UseStreamableHTTP(true)
	httpServer := server.HTTP(ctx, *addr)
	httpServer.ReadHeaderTimeout = 10 * time.Second
	httpServer.ReadTimeout = 60 * time.Second
	httpServer.WriteTimeout = 60 * time.Second
	httpServer.IdleTimeout = 120 * time.Second

	log.Printf("esglex-mcp listening on %s", httpServer.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	cancel()
	log.Printf("shutdown signal received: %v", sig)

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	log.Printf("esglex-mcp stopped")
}
