package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/rewired-gh/lottoracle/internal/config"
	"github.com/rewired-gh/lottoracle/internal/logger"
	"github.com/rewired-gh/lottoracle/internal/provider"
	"github.com/rewired-gh/lottoracle/internal/records"
	"github.com/rewired-gh/lottoracle/internal/rng"
	"github.com/rewired-gh/lottoracle/internal/server"
	"github.com/rewired-gh/lottoracle/internal/service"
	"github.com/rewired-gh/lottoracle/internal/storage"
)

const defaultConfigPath = "configs/config.yaml"

var configPath = flag.String("config", defaultConfigPath, "Path to configuration file")

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: lottoracle [-config path] <command> [arguments]

Commands:
  import [-merge] [-format csv|xlsx] <file>   load a draw history file
  export <file>                               write the history as .csv or .xlsx
  analyze                                     print the analysis report
  predict [-save]                             generate candidate numbers
  lucky -name <name> -birth <date>            personal lucky numbers
  numerology -name <name> -birth <date>       life-path and name numbers
  dream <text>                                dream book numbers
  check -date <date> <number>...              check tickets against a draw
  fetch [-history]                            fetch draws from the provider
  cache [-clear]                              show or clear the stored history
  serve [-watch]                              run the HTTP API
  watch                                       poll for new draws and notify
`)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	os.Exit(realMain())
}

func realMain() int {
	if flag.NArg() < 1 {
		usage()
		return 2
	}

	envErr := godotenv.Load()

	cfg, path, err := loadConfig()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid configuration: %v", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	if path != "" {
		logger.Debug("Configuration loaded from %s", path)
	}
	if envErr != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	store, err := storage.New(cfg.Storage.DBPath)
	if err != nil {
		logger.Error("Failed to initialize storage: %v", err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage: %v", err)
		}
	}()

	svc := service.New(store, newProvider(cfg.Provider),
		service.WithHistoryMonths(cfg.Provider.HistoryMonths),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, svc, flag.Arg(0), flag.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		logger.Error("%s failed: %v", flag.Arg(0), err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads the config file. A missing default file falls back to
// defaults plus LOTTORACLE_* environment variables.
func loadConfig() (*config.Config, string, error) {
	path := *configPath
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	return cfg, path, err
}

func newProvider(cfg config.ProviderConfig) provider.Provider {
	mock := provider.NewMock(rng.NewTimeSeeded())
	if cfg.BaseURL == "" {
		return mock
	}

	client := provider.NewClient(provider.ClientConfig{
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.Timeout,
		MaxRetries:        cfg.MaxRetries,
		RetryDelayBase:    cfg.RetryDelayBase,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if cfg.Mock {
		return provider.NewFallback(client, mock)
	}
	return client
}

func run(ctx context.Context, cfg *config.Config, svc *service.Service, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)

	switch cmd {
	case "import":
		merge := fs.Bool("merge", false, "merge into the stored history instead of replacing it")
		format := fs.String("format", "", "file format (csv or xlsx); inferred from the extension when empty")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errors.New("import needs exactly one file")
		}
		return runImport(svc, fs.Arg(0), *format, *merge)

	case "export":
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errors.New("export needs exactly one file")
		}
		return runExport(svc, fs.Arg(0))

	case "analyze":
		report, err := svc.Report()
		if err != nil {
			return err
		}
		return printJSON(report)

	case "predict":
		save := fs.Bool("save", false, "persist the prediction set")
		if err := fs.Parse(args); err != nil {
			return err
		}
		set, err := svc.Predict()
		if err != nil {
			return err
		}
		if *save {
			saved, err := svc.SavePrediction(set)
			if err != nil {
				return err
			}
			logger.Info("Saved prediction %s", saved.ID)
		}
		return printJSON(set)

	case "lucky", "numerology":
		name := fs.String("name", "", "full name")
		birth := fs.String("birth", "", "birth date, e.g. 1990-05-15")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if strings.TrimSpace(*name) == "" {
			return errors.New("-name is required")
		}
		date, ok := records.ParseDate(*birth)
		if !ok {
			return fmt.Errorf("invalid birth date %q", *birth)
		}
		if cmd == "numerology" {
			return printJSON(svc.Numerology(*name, date))
		}
		set, err := svc.Lucky(*name, date)
		if err != nil {
			return err
		}
		return printJSON(set)

	case "dream":
		return printJSON(svc.Dream(strings.Join(args, " ")))

	case "check":
		date := fs.String("date", "", "draw date")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *date == "" || fs.NArg() == 0 {
			return errors.New("check needs -date and at least one number")
		}
		result, err := svc.Check(fs.Args(), *date)
		if err != nil {
			return err
		}
		return printJSON(result)

	case "fetch":
		history := fs.Bool("history", false, "fetch the configured number of past months")
		if err := fs.Parse(args); err != nil {
			return err
		}
		var (
			result service.FetchResult
			err    error
		)
		if *history {
			result, err = svc.FetchHistory(ctx)
		} else {
			result, err = svc.FetchLatest(ctx)
		}
		if err != nil {
			return err
		}
		return printJSON(result)

	case "cache":
		clearCache := fs.Bool("clear", false, "remove the stored history")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *clearCache {
			if err := svc.ClearCache(); err != nil {
				return err
			}
			logger.Info("Stored history cleared")
		}
		info, err := svc.CacheInfo()
		if err != nil {
			return err
		}
		return printJSON(info)

	case "serve":
		watch := fs.Bool("watch", false, "also run the watch loop")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return runServe(ctx, cfg, svc, *watch)

	case "watch":
		notifier, err := newNotifier(cfg.Telegram)
		if err != nil {
			return err
		}
		return runWatch(ctx, svc, cfg.Watch.PollInterval, notifier)

	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runImport(svc *service.Service, path, format string, merge bool) error {
	if format == "" {
		format = formatFromPath(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	result, err := svc.Import(f, format, merge)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runExport(svc *service.Service, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := svc.Export(f, formatFromPath(path)); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("Exported history to %s", path)
	return nil
}

// runServe runs the HTTP API and, with watch, the watch loop. The notifier
// is built before anything starts so a bad Telegram setup fails fast.
func runServe(ctx context.Context, cfg *config.Config, svc *service.Service, watch bool) error {
	var n notifier
	if watch {
		var err error
		if n, err = newNotifier(cfg.Telegram); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.New(svc).Run(ctx, cfg.Server)
	})
	if watch {
		g.Go(func() error {
			return runWatch(ctx, svc, cfg.Watch.PollInterval, n)
		})
	}
	return g.Wait()
}

func formatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return service.FormatXLSX
	}
	return service.FormatCSV
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
