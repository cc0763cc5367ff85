package dao

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"server-luck-app/internal/db"
	"server-luck-app/internal/model"
)

type bet struct {
}

var Bet = new(bet)

func (*bet) Create(b *model.BetRecord) (err error) {
	return db.Cli.Create(b).Error
}

func (*bet) UpdateStatus(txHash, status string) (err error) {
	return db.Cli.Model(&model.BetRecord{}).
		Where("transaction_hash = ?", txHash).
		Update("status", status).Error
}

func (*bet) GetByHash(txHash string) (b *model.BetRecord, err error) {
	b = new(model.BetRecord)
	err = db.Cli.Where("transaction_hash = ?", txHash).First(b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return
}

func (*bet) ListByAddress(address string) (bs []model.BetRecord, err error) {
	err = db.Cli.Where("account_address = ?", address).
		Order("id desc").Find(&bs).Error
	return
}

// TopStakers 按已确认投注总额排名, 金额相同时取最早投注者。
// excludeLevels 中的代理等级持有者不参与排名。
func (*bet) TopStakers(limit int, excludeLevels ...string) (addrs []string, err error) {
	q := db.Cli.Model(&model.BetRecord{}).
		Select("account_address").
		Where("status = ?", model.BetStatusConfirmed)
	if len(excludeLevels) > 0 {
		sub := db.Cli.Model(&model.Agent{}).
			Select("user_address").
			Where("level_agent IN ?", excludeLevels)
		q = q.Where("account_address NOT IN (?)", sub)
	}
	err = q.Group("account_address").
		Order("SUM(amount) DESC, MIN(created_at) ASC").
		Limit(limit).
		Pluck("account_address", &addrs).Error
	return
}

// StakersWithMinTotal 已确认投注总额不低于 min 的地址, 按总额降序。
func (*bet) StakersWithMinTotal(min decimal.Decimal, excludeLevels ...string) (addrs []string, err error) {
	q := db.Cli.Model(&model.BetRecord{}).
		Select("account_address").
		Where("status = ?", model.BetStatusConfirmed)
	if len(excludeLevels) > 0 {
		sub := db.Cli.Model(&model.Agent{}).
			Select("user_address").
			Where("level_agent IN ?", excludeLevels)
		q = q.Where("account_address NOT IN (?)", sub)
	}
	err = q.Group("account_address").
		Having("SUM(amount) >= ?", min).
		Order("SUM(amount) DESC").
		Pluck("account_address", &addrs).Error
	return
}

func (*bet) DeleteAll() error {
	return db.Cli.Exec("DELETE FROM bet_records").Error
}
