// Package main provides studyhubd, the HTTP server for the per-user
// productivity tracker.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"studyhub/internal/accounts"
	"studyhub/internal/advisor"
	"studyhub/internal/config"
	"studyhub/internal/docs"
	"studyhub/internal/store"
	"studyhub/internal/web"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "studyhubd:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// .env is optional; flags and the config file still apply without it.
	_ = godotenv.Load()

	flags := flag.NewFlagSet("studyhubd", flag.ContinueOnError)

	configPath := flags.StringP("config", "c", "", "path to config file (JSONC)")
	dataDir := flags.String("data-dir", "", "override data directory")
	uploadDir := flags.String("upload-dir", "", "override upload directory")
	usersFile := flags.String("users-file", "", "override users file")
	listen := flags.StringP("listen", "l", "", "override listen address")

	err := flags.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	if *uploadDir != "" {
		cfg.UploadDir = *uploadDir
	}

	if *usersFile != "" {
		cfg.UsersFile = *usersFile
	}

	if *listen != "" {
		cfg.Listen = *listen
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.GeminiAPIKey = key
	}

	err = config.Validate(cfg)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "studyhubd ", log.LstdFlags)

	st, err := store.New(cfg.DataDir)
	if err != nil {
		return err
	}

	files, err := docs.NewFiles(cfg.UploadDir)
	if err != nil {
		return err
	}

	server := web.New(
		logger,
		st,
		accounts.NewRegistry(cfg.UsersFile),
		files,
		advisor.New(cfg.GeminiAPIKey, cfg.GeminiModel),
	)

	logger.Printf("listening on %s (data=%s uploads=%s)", cfg.Listen, cfg.DataDir, cfg.UploadDir)

	err = http.ListenAndServe(cfg.Listen, server) //nolint:gosec // timeouts are the reverse proxy's concern here
	if err != nil {
		return fmt.Errorf("serving: %w", err)
	}

	return nil
}
