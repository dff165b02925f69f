package db

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/pkg/config"
)

type balanceRow struct {
	ID     int
	Code   string
	OnHand int
}

func openClient(t *testing.T, dsn string) *Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&balanceRow{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return &Client{orm: conn}
}

func countRows(t *testing.T, client *Client) int64 {
	t.Helper()
	var count int64
	if err := client.DB().Model(&balanceRow{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return count
}

func TestWithTxCommits(t *testing.T) {
	client := openClient(t, "file:withtx_commit?mode=memory&cache=shared")

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&balanceRow{Code: "FAC-001", OnHand: 40}).Error
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if got := countRows(t, client); got != 1 {
		t.Fatalf("rows = %d, want 1", got)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := openClient(t, "file:withtx_rollback?mode=memory&cache=shared")

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&balanceRow{Code: "FAC-002"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("WithTx should surface the callback error")
	}
	if got := countRows(t, client); got != 0 {
		t.Fatalf("rollback left %d rows", got)
	}
}

func TestWithTxReraisesPanics(t *testing.T) {
	client := openClient(t, "file:withtx_panic?mode=memory&cache=shared")

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic should propagate out of WithTx")
			}
		}()
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			_ = tx.Create(&balanceRow{Code: "FAC-003"}).Error
			panic("mid-transaction crash")
		})
	}()

	if got := countRows(t, client); got != 0 {
		t.Fatalf("panic left %d rows behind", got)
	}
}

func TestNewOpensSQLiteAndTunesPool(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{
		DSN:          "file:newclient?mode=memory&cache=shared",
		Driver:       DriverSQLite,
		MaxOpenConns: 7,
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		t.Fatalf("SQLDB: %v", err)
	}
	if got := sqlDB.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("MaxOpenConnections = %d, want 7", got)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{Driver: DriverPostgres}, nil); err == nil {
		t.Fatal("empty DSN should fail")
	}
	if _, err := New(context.Background(), config.DBConfig{DSN: "x", Driver: "oracle"}, nil); err == nil {
		t.Fatal("unknown driver should fail")
	}
}
