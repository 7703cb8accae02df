package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vetsoftlabs/vetstore/config"
	"github.com/vetsoftlabs/vetstore/internal/adminapi"
	"github.com/vetsoftlabs/vetstore/internal/app"
	"github.com/vetsoftlabs/vetstore/internal/storeapi"
	"github.com/vetsoftlabs/vetstore/internal/webserver"
)

var (
	h         = flag.Bool("h", false, "help usage")
	showVer   = flag.Bool("v", false, "show version")
	conffile  = flag.String("c", "/etc/vetstore.yml", "config file path")
	initdb    = flag.Bool("initdb", false, "drop and recreate all tables")
	initcfg   = flag.Bool("initcfg", false, "write a default config file and exit")
	buildVer  = "unknown"
	buildTime = "unknown"
)

func printVersion() {
	fmt.Printf("vetstore %s (built %s)\n", buildVer, buildTime)
}

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		return
	}
	if *showVer {
		printVersion()
		return
	}

	cfg := config.LoadConfig(*conffile)
	if *initcfg {
		if err := config.WriteDefaultConfig(*conffile); err != nil {
			fmt.Fprintln(os.Stderr, "failed to write config:", err)
			os.Exit(1)
		}
		fmt.Println("wrote default config to", *conffile)
		return
	}
	cfg.InitDirs()

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	ws := webserver.Init(application)
	adminapi.InitRouter()
	storeapi.InitRouter()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ws.Start(ctx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		zap.S().Errorf("server stopped: %v", err)
	}
}
