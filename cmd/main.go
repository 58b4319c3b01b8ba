// Package main is the production entry point for the govis player.
//
// govis plays a local audio file and draws a live spectrum of it in one of
// three modes (bars, wave, circle). When no spectrum can be read from the
// audio output it keeps animating on simulated data.
//
// Build:
//
//	go build -o build/govis ./cmd
//
// Run:
//
//	./build/govis [-config govis.yaml] [-mock-audio]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tejashwikalptaru/govis/internal/app"
	"github.com/tejashwikalptaru/govis/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	mockAudio := flag.Bool("mock-audio", false, "use the silent audio output")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(app.GetVersionInfo().FullString())
		return
	}

	settings := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		settings = loaded
	}

	cfg := app.DefaultConfig()
	cfg.Settings = settings
	cfg.UseMockAudio = *mockAudio

	// Create the application with dependency injection
	application, err := app.NewApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	// Run application (blocks until the window closed)
	if err := application.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}
}
