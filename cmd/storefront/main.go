package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/resolver"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config.Load: %v\n", err)
		os.Exit(2)
	}

	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error("storefront failed", zap.Error(err))
		os.Exit(1)
	}
}

type options struct {
	catalogPath string
	product     string
	selection   string
	quantity    int
	sessionID   string
	add         bool
}

func parseFlags(cfg config.Config, args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.StringVar(&opts.catalogPath, "catalog", cfg.CatalogPath, "path to the YAML catalog")
	fs.StringVar(&opts.product, "product", "", "product id or slug")
	fs.StringVar(&opts.selection, "select", "", "option selection, e.g. Size=M,Color=Red")
	fs.IntVar(&opts.quantity, "qty", 1, "quantity to add")
	fs.StringVar(&opts.sessionID, "session", "", "cart session id, a new one when empty")
	fs.BoolVar(&opts.add, "add", true, "add the resolved variant to the cart")

	if err := fs.Parse(args); err != nil {
		return options{}, fmt.Errorf("fs.Parse: %w", err)
	}
	if opts.product == "" {
		return options{}, fmt.Errorf("-product is required")
	}
	if opts.quantity < 1 {
		return options{}, fmt.Errorf("-qty[%d]: %w", opts.quantity, domain.ErrInvalidQuantity)
	}
	if opts.sessionID == "" {
		opts.sessionID = uuid.NewString()
	}

	return opts, nil
}

func run(ctx context.Context, cfg config.Config, args []string, stdout io.Writer, logger *zap.Logger) error {
	opts, err := parseFlags(cfg, args)
	if err != nil {
		return err
	}

	cat, err := catalog.LoadFile(opts.catalogPath, logger)
	if cat == nil {
		return fmt.Errorf("catalog.LoadFile: %w", err)
	}
	if err != nil {
		logger.Warn("catalog loaded with rejected products", zap.Error(err))
	}

	product, ok := cat.Product(opts.product)
	if !ok {
		product, ok = cat.BySlug(opts.product)
	}
	if !ok {
		return fmt.Errorf("product[%s] not found", opts.product)
	}
	if product.BasePrice.Currency != cfg.Currency {
		return fmt.Errorf("product[%s] is priced in %s, store currency is %s",
			product.ID, product.BasePrice.Currency, cfg.Currency)
	}

	sel, err := parseSelection(opts.selection)
	if err != nil {
		return fmt.Errorf("parseSelection: %w", err)
	}
	if len(sel) == 0 {
		sel = resolver.DefaultSelection(product)
	}

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("openRepository: %w", err)
	}
	defer closeRepo()

	store, err := cart.Open(ctx, opts.sessionID, cfg.Currency, repo, cart.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("cart.Open: %w", err)
	}

	view := resolver.Resolve(product, sel, opts.quantity)

	added := false
	if opts.add && view.CanAddToCart {
		if err := store.AddLine(ctx, product.ID, view.Variant.ID, view.Pricing.Current, opts.quantity); err != nil {
			return fmt.Errorf("store.AddLine: %w", err)
		}
		added = true
	}

	return writeOutput(stdout, mapResultToOutput(view, store, added))
}

// parseSelection reads "Name=Value" pairs separated by commas.
func parseSelection(raw string) (domain.Selection, error) {
	sel := domain.Selection{}
	if strings.TrimSpace(raw) == "" {
		return sel, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		name, value, found := strings.Cut(pair, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !found || name == "" || value == "" {
			return nil, fmt.Errorf("pair[%s] is not Name=Value", pair)
		}
		if _, dup := sel[name]; dup {
			return nil, fmt.Errorf("option[%s] selected twice", name)
		}
		sel[name] = value
	}

	return sel, nil
}

func openRepository(ctx context.Context, cfg config.Config, logger *zap.Logger) (port.CartSnapshotRepository, func(), error) {
	switch cfg.CartBackend {
	case config.BackendMemory:
		return repository.NewMemoryCart(), func() {}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}

		repo, err := repository.NewRedisCart(client, cfg.CartTTL, logger)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("repository.NewRedisCart: %w", err)
		}

		return repo, func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}

		repo, err := repository.NewCart(pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repository.NewCart: %w", err)
		}

		return repo, pool.Close, nil
	}

	return nil, nil, fmt.Errorf("backend[%s] is not supported", cfg.CartBackend)
}
