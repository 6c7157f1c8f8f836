// ====================================
// File: cmd/sniper/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-sniper/internal/bot"
	"github.com/rovshanmuradov/pump-sniper/internal/config"
	"github.com/rovshanmuradov/pump-sniper/internal/logger"
	"github.com/rovshanmuradov/pump-sniper/internal/ui"
)

func main() {
	envPath := flag.String("env", ".env", "path to the dotenv configuration file")
	skipMenu := flag.Bool("start", false, "start immediately without the menu")
	flag.Parse()

	if err := run(*envPath, *skipMenu); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(envPath string, skipMenu bool) error {
	bootstrap, _ := zap.NewDevelopment()
	defer func() { _ = bootstrap.Sync() }()

	if !skipMenu {
		choice, err := ui.NewLauncher(envPath, bootstrap).Run()
		if err != nil {
			return err
		}
		if choice != ui.ChoiceStart {
			return nil
		}
	}

	cfg, err := config.LoadConfig(envPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Debug = cfg.DebugLogging
	log, err := logger.New(logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	// Паника вне цикла обработки: логируем и завершаем штатно.
	defer func() {
		if r := recover(); r != nil {
			log.Events.Log(logger.CategoryError, fmt.Sprintf("Unhandled error: %v", r),
				zap.String("stack", string(debug.Stack())))
		}
	}()

	fmt.Println(ui.Banner())

	runner := bot.NewRunner(cfg, log)
	if err := runner.Run(context.Background()); err != nil {
		log.Events.Log(logger.CategoryError, fmt.Sprintf("Bot execution error: %v", err))
		return err
	}
	return nil
}
