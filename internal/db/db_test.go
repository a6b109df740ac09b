package db

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kilerd/todoki/internal/config"
	"github.com/Kilerd/todoki/internal/models"
)

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Dialect: config.DialectSQLite,
		Path:    filepath.Join(t.TempDir(), "test.db"),
	}
}

func TestConnect_SQLite(t *testing.T) {
	db, err := Connect(sqliteConfig(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db == nil {
		t.Fatal("Connect returned nil db")
	}
}

func TestConnect_UnknownDialect(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Dialect: "oracle"})
	if err == nil {
		t.Fatal("expected error for unknown dialect")
	}
	if !strings.Contains(err.Error(), "oracle") {
		t.Errorf("error = %q, want to mention oracle", err.Error())
	}
}

func TestAutoMigrate_CreatesTables(t *testing.T) {
	db, err := Connect(sqliteConfig(t))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, m := range AllModels() {
		if !db.Migrator().HasTable(m) {
			t.Errorf("missing table for %T", m)
		}
	}
}

func TestReset_EmptiesTables(t *testing.T) {
	db, err := Connect(sqliteConfig(t))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	task := models.Task{ID: "reset-1", Workflow: models.WorkflowTodo, Status: models.StatusTodo}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}

	if err := Reset(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var n int64
	if err := db.Model(&models.Task{}).Count(&n).Error; err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	if n != 0 {
		t.Errorf("tasks after reset = %d, want 0", n)
	}
	if !db.Migrator().HasTable(&models.Task{}) {
		t.Error("tasks table missing after reset")
	}
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(config.DatabaseConfig{
		Dialect:  config.DialectMySQL,
		Host:     "10.0.0.5",
		Port:     3307,
		User:     "tasks",
		Password: "hunter2",
		Name:     "tasks_prod",
	})

	for _, want := range []string{"tasks:hunter2@", "tcp(10.0.0.5:3307)", "/tasks_prod", "parseTime=true"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn = %q, want to contain %q", dsn, want)
		}
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Dialect: config.DialectPostgres,
		Host:    "db.internal",
		Port:    5433,
		User:    "tasks",
		Name:    "tasks_prod",
	}

	dsn := PostgresDSN(cfg)
	want := "host=db.internal port=5433 user=tasks dbname=tasks_prod sslmode=disable"
	if dsn != want {
		t.Errorf("dsn = %q, want %q", dsn, want)
	}

	cfg.Password = "hunter2"
	if got := PostgresDSN(cfg); !strings.Contains(got, "password=hunter2") {
		t.Errorf("dsn = %q, want to contain password", got)
	}
}
