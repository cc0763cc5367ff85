package dao

import (
	"github.com/shopspring/decimal"

	"server-luck-app/internal/db"
	"server-luck-app/internal/model"
)

type ledger struct {
}

var Ledger = new(ledger)

func (*ledger) RecordCommission(c *model.Commission) error {
	return db.Cli.Create(c).Error
}

func (*ledger) RecordFundsFlow(f *model.PlatformFundsFlow) error {
	return db.Cli.Create(f).Error
}

func (*ledger) RecordPrizePool(p *model.PlatformPrizePool) error {
	return db.Cli.Create(p).Error
}

func (*ledger) RecordGas(g *model.PlatformTransactionGas) error {
	return db.Cli.Create(g).Error
}

func (*ledger) RecordDistribution(d *model.LotteryDistributionDetail) error {
	return db.Cli.Create(d).Error
}

// TotalPrizePool 某账户名下累计的奖池入账总额。
func (*ledger) TotalPrizePool(account string) (total decimal.Decimal, err error) {
	var s struct {
		Total decimal.Decimal
	}
	err = db.Cli.Model(&model.PlatformPrizePool{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_address = ?", account).
		Scan(&s).Error
	return s.Total, err
}

func (*ledger) DeleteCommissions() error {
	return db.Cli.Exec("DELETE FROM commissions").Error
}

func (*ledger) DeleteFundsFlow() error {
	return db.Cli.Exec("DELETE FROM platform_funds_flow").Error
}

func (*ledger) DeletePrizePool() error {
	return db.Cli.Exec("DELETE FROM platform_prize_pool").Error
}

func (*ledger) DeleteGas() error {
	return db.Cli.Exec("DELETE FROM platform_transaction_gas").Error
}

func (*ledger) DeleteDistributions() error {
	return db.Cli.Exec("DELETE FROM lottery_distribution_detail").Error
}
