package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/joho/godotenv"
	"gitlab.com/open-soft/altcoin-autosell/src/config"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

func main() {
	pwd, _ := os.Getwd()
	if _, err := os.Stat(fmt.Sprintf("%s/.env", pwd)); err == nil {
		log.Println(".env is found, loading variables...")
		err = godotenv.Load()
		if err != nil {
			log.Println(err)
		}
	}

	defaultPath := config.DefaultConfigPath
	if path, ok := os.LookupEnv(config.ConfigPathEnv); ok && path != "" {
		defaultPath = path
	}

	var configPath string
	flag.StringVar(&configPath, "config", defaultPath, "path to the configuration file")
	flag.StringVar(&configPath, "c", defaultPath, "path to the configuration file (shorthand)")
	verbose := flag.Bool("v", false, "log every market the seller looks at")
	flag.Parse()

	log.Printf("Using config from \"%s\".", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Println(err.Error())
		os.Exit(1)
	}
	if *verbose {
		cfg.AutoSell.Verbose = true
	}

	container, err := config.InitServiceContainer(cfg, config.GetExchangeFactories())
	if err != nil {
		log.Println(err.Error())
		os.Exit(1)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	container.StartBackgroundTasks(ctx, &wg)

	container.AutoSeller.Run(ctx)

	log.Println("Shutting down, waiting for market refreshers...")
	wg.Wait()
	log.Println("Stopped.")
}
