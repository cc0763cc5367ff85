package dao

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"server-luck-app/internal/db"
	"server-luck-app/internal/model"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	cli, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := cli.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	err = cli.AutoMigrate(
		&model.PlatformPrizePool{},
		&model.Commission{},
		&model.PlatformFundsFlow{},
	)
	if err != nil {
		t.Fatal(err)
	}
	old := db.Cli
	db.Cli = cli
	t.Cleanup(func() { db.Cli = old })
}

func TestTotalPrizePool(t *testing.T) {
	setupTestDB(t)
	pool := "0x1000000000000000000000000000000000000002"
	rows := []*model.PlatformPrizePool{
		{UserAddress: pool, FromAddress: "0xa", Amount: decimal.RequireFromString("0.2"), TransactionHash: "0x1"},
		{UserAddress: pool, FromAddress: "0xb", Amount: decimal.RequireFromString("0.4"), TransactionHash: "0x2"},
		{UserAddress: "0xother", FromAddress: "0xc", Amount: decimal.RequireFromString("9"), TransactionHash: "0x3"},
	}
	for _, r := range rows {
		if err := Ledger.RecordPrizePool(r); err != nil {
			t.Fatal(err)
		}
	}

	total, err := Ledger.TotalPrizePool(pool)
	if err != nil {
		t.Fatal(err)
	}
	if !total.Equal(decimal.RequireFromString("0.6")) {
		t.Fatalf("total = %s, want 0.6", total)
	}
}

func TestTotalPrizePoolEmpty(t *testing.T) {
	setupTestDB(t)
	total, err := Ledger.TotalPrizePool("0xnothing")
	if err != nil {
		t.Fatal(err)
	}
	if !total.IsZero() {
		t.Fatalf("total = %s, want 0", total)
	}
}
