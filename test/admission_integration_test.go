//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/facility-admission/internal/adapters/repository/kvstore"
	repo "github.com/ogurasousui/facility-admission/internal/adapters/repository/postgres"
	"github.com/ogurasousui/facility-admission/internal/core/admission"
	"github.com/ogurasousui/facility-admission/internal/core/employee"
	"github.com/ogurasousui/facility-admission/internal/core/hiring"
	"github.com/ogurasousui/facility-admission/internal/platform/config"
	pg "github.com/ogurasousui/facility-admission/internal/platform/db/postgres"
)

const migrationsDir = "../assets/migrations"

func TestAdmissionToEmployeeIntegration(t *testing.T) {
	cfg, err := config.Load(configPathFromEnv())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if err := resetMigrations(cfg.Database.DSN(), migrationsDir); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	store := repo.NewKVStore(pool)
	admissionRepo := kvstore.NewAdmissionRepository(store, nil)
	employeeRepo := kvstore.NewEmployeeRepository(store, nil)

	wf := hiring.NewWorkflow(hiring.Options{
		Snapshots: admissionRepo,
		Cache:     kvstore.NewCaseRepository(store, nil),
		Registry:  employee.NewService(employeeRepo, nil),
		Tx:        pg.NewTransactionManager(pool),
	})
	if err := wf.Load(ctx, nil); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	created, err := wf.CreateCase(ctx, hiring.CreateCaseInput{
		CandidateName: "Candidate",
		Role:          "Operadora",
		StartDate:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Token:         "integration-token",
	})
	if err != nil {
		t.Fatalf("CreateCase error: %v", err)
	}

	intake := admission.NewService(admissionRepo, stubClock{now: time.Now().UTC()}, wf)
	if _, err := intake.Submit(ctx, admission.Form{
		Token:     "integration-token",
		Personal:  admission.PersonalInfo{FullName: "Ana Silva", CPF: "123"},
		Banking:   admission.BankingInfo{BankName: "Nubank", BankAgency: "0001", BankAccount: "999-1"},
		Documents: map[admission.DocumentType]string{admission.DocumentRG: "rg.pdf", admission.DocumentCPF: "cpf.pdf"},
	}); err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	merged, err := wf.GetCase(ctx, hiring.GetCaseInput{ID: created.ID})
	if err != nil {
		t.Fatalf("GetCase error: %v", err)
	}
	if merged.DocumentsStatus != hiring.DocumentsPartial || merged.CandidateName != "Ana Silva" {
		t.Fatalf("submission was not merged: %+v", merged)
	}

	rec, err := wf.Complete(ctx, merged)
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}

	records, err := employeeRepo.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(records) != 1 || records[0].ID != rec.ID || records[0].Documents[1] != "CPF" {
		t.Fatalf("unexpected registry: %+v", records)
	}

	if _, err := wf.Complete(ctx, merged); !errors.Is(err, hiring.ErrCaseNotFound) {
		t.Fatalf("expected ErrCaseNotFound, got %v", err)
	}
}

func resetMigrations(dsn, dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "../assets/postgres.yaml"
}

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}
