package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pstuifzand/tui-listview/internal/app"
	"github.com/pstuifzand/tui-listview/internal/config"
)

func main() {
	logFile, err := os.Create("tui-listview.log")
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "", "Path to a config file (default: ~/.config/tui-listview/config.toml)")
	dbPath := flag.String("db", "", "Mirror a SQLite database instead of running the in-memory demo")
	themeName := flag.String("theme", "", "Theme name (overrides config)")
	flag.Parse()

	var cfg *config.Config
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dbPath != "" {
		cfg.Database = *dbPath
	}
	if *themeName != "" {
		cfg.Theme = *themeName
	}

	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}
}
