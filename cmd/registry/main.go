package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ogurasousui/facility-admission/internal/adapters/export"
	"github.com/ogurasousui/facility-admission/internal/adapters/repository/kvstore"
	"github.com/ogurasousui/facility-admission/internal/adapters/repository/memory"
	"github.com/ogurasousui/facility-admission/internal/adapters/repository/postgres"
	"github.com/ogurasousui/facility-admission/internal/core/employee"
	"github.com/ogurasousui/facility-admission/internal/core/kv"
	"github.com/ogurasousui/facility-admission/internal/platform/config"
	pg "github.com/ogurasousui/facility-admission/internal/platform/db/postgres"
	"github.com/ogurasousui/facility-admission/internal/platform/logging"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		query      = flag.String("q", "", "filter by name or role")
		outPath    = flag.String("out", "", "write CSV to this file instead of stdout")
	)
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		logrus.Fatalf("failed to load .env: %v", err)
	}

	path := *configPath
	if path == "" {
		path = config.PathFromEnv()
	}
	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		logrus.Fatalf("failed to build logger: %v", err)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to create output file")
		}
		defer f.Close()
		out = f
	}

	if err := run(context.Background(), cfg, logger, *query, out); err != nil {
		logger.WithError(err).Fatal("registry export failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger, query string, out io.Writer) error {
	var store kv.Store
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("initialize database pool: %w", err)
		}
		defer pool.Close()
		store = postgres.NewKVStore(pool)
	default:
		memStore, err := memory.NewKVStore(cfg.Store.SnapshotPath)
		if err != nil {
			return fmt.Errorf("open memory store: %w", err)
		}
		store = memStore
	}

	svc := employee.NewService(kvstore.NewEmployeeRepository(store, logger), nil)
	records, err := svc.ListEmployees(ctx, employee.ListEmployeesInput{Query: query})
	if err != nil {
		return fmt.Errorf("list employees: %w", err)
	}

	if err := export.WriteEmployeesCSV(out, records); err != nil {
		return err
	}
	logger.WithField("employees", len(records)).Info("registry exported")
	return nil
}
