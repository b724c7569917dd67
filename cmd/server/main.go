package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/facility-admission/internal/adapters/grpc/handler"
	"github.com/ogurasousui/facility-admission/internal/adapters/http/portal"
	"github.com/ogurasousui/facility-admission/internal/adapters/repository/degraded"
	"github.com/ogurasousui/facility-admission/internal/adapters/repository/kvstore"
	"github.com/ogurasousui/facility-admission/internal/adapters/repository/memory"
	"github.com/ogurasousui/facility-admission/internal/adapters/repository/postgres"
	"github.com/ogurasousui/facility-admission/internal/core/admission"
	"github.com/ogurasousui/facility-admission/internal/core/employee"
	"github.com/ogurasousui/facility-admission/internal/core/hiring"
	"github.com/ogurasousui/facility-admission/internal/core/kv"
	"github.com/ogurasousui/facility-admission/internal/platform/config"
	pg "github.com/ogurasousui/facility-admission/internal/platform/db/postgres"
	"github.com/ogurasousui/facility-admission/internal/platform/logging"
	"github.com/ogurasousui/facility-admission/internal/platform/server"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		logrus.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log, nil)
	if err != nil {
		logrus.Fatalf("failed to build logger: %v", err)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	store, tx, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Store.DegradedEnabled() {
		opts := []degraded.Option{degraded.WithStrictReads(kv.HiringCasesKey, kv.ActiveEmployeesKey)}
		if cfg.Store.Driver == config.StoreDriverPostgres {
			opts = append(opts, degraded.WithBypass(pg.InTransaction))
		}
		store = degraded.NewKVStore(store, logger.WithField("component", "store"), opts...)
	}

	admissionRepo := kvstore.NewAdmissionRepository(store, logger)
	caseRepo := kvstore.NewCaseRepository(store, logger)
	employeeRepo := kvstore.NewEmployeeRepository(store, logger)

	employeeSvc := employee.NewService(employeeRepo, nil)
	if wrote, err := employeeSvc.Seed(ctx, seedEmployees(cfg.SeedEmployees)); err != nil {
		logger.WithError(err).Warn("seed active employees")
	} else if wrote {
		logger.WithField("employees", len(cfg.SeedEmployees)).Info("active employee registry seeded")
	}
	workflow := hiring.NewWorkflow(hiring.Options{
		Snapshots:     admissionRepo,
		Cache:         caseRepo,
		Registry:      employeeSvc,
		Tx:            tx,
		PortalBaseURL: cfg.Portal.BaseURL,
		Logger:        logger.WithField("component", "hiring"),
	})
	if err := workflow.Load(ctx, seedCases(cfg.SeedCases)); err != nil {
		return fmt.Errorf("load hiring cases: %w", err)
	}

	admissionSvc := admission.NewService(admissionRepo, nil, workflow)
	poller := hiring.NewPoller(workflow, cfg.Sync.PollInterval, logger.WithField("component", "poller"))

	grpcServer := server.New(cfg.Server.ListenAddr, handler.NewHiringGrpcHandler(workflow, employeeSvc), logger.WithField("component", "grpc"))

	accessLog := logger.WriterLevel(logrus.InfoLevel)
	defer accessLog.Close()
	app := portal.NewApp(portal.NewHandler(admissionSvc, logger.WithField("component", "portal")), portal.Options{
		BodyLimit: cfg.Portal.BodyLimit,
		AccessLog: accessLog,
	})

	portalLis, err := net.Listen("tcp", cfg.Portal.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Portal.ListenAddr, err)
	}
	logger.WithField("addr", portalLis.Addr().String()).Info("admission portal listening")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Run(gctx)
	})
	g.Go(func() error {
		return portal.Serve(gctx, app, portalLis)
	})
	g.Go(func() error {
		return poller.Run(gctx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (kv.Store, hiring.TransactionManager, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("initialize database pool: %w", err)
		}
		logger.WithField("driver", cfg.Store.Driver).Info("shared store opened")
		return postgres.NewKVStore(pool), pg.NewTransactionManager(pool), pool.Close, nil
	default:
		store, err := memory.NewKVStore(cfg.Store.SnapshotPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open memory store: %w", err)
		}
		logger.WithFields(logrus.Fields{
			"driver":        cfg.Store.Driver,
			"snapshot_path": cfg.Store.SnapshotPath,
		}).Info("shared store opened")
		return store, nil, func() {}, nil
	}
}

func seedCases(seeds []config.SeedCaseConfig) []*hiring.Case {
	cases := make([]*hiring.Case, 0, len(seeds))
	for _, s := range seeds {
		cases = append(cases, &hiring.Case{
			ID:                   s.ID,
			CandidateName:        s.CandidateName,
			Role:                 s.Role,
			StartDate:            s.StartDate,
			ProbationEndDate:     s.ProbationEndDate,
			MedicalClearanceDone: s.MedicalClearanceDone,
			IntegrationDone:      s.IntegrationDone,
			DocumentsStatus:      hiring.DocumentsStatus(s.DocumentsStatus),
			DocumentsSubmitted:   s.DocumentsSubmitted,
			Token:                s.Token,
			OverallStatus:        hiring.StatusInProgress,
		})
	}
	return cases
}

func seedEmployees(seeds []config.SeedEmployeeConfig) []*employee.Record {
	records := make([]*employee.Record, 0, len(seeds))
	for _, s := range seeds {
		records = append(records, &employee.Record{
			ID:        s.ID,
			Name:      s.Name,
			Role:      s.Role,
			StartDate: s.StartDate,
			Status:    employee.StatusActive,
			Documents: s.Documents,
			BankInfo: employee.BankInfo{
				Name:    s.Bank.Name,
				Agency:  s.Bank.Agency,
				Account: s.Bank.Account,
			},
			TransportValue: s.TransportValue,
		})
	}
	return records
}
