package dao

import (
	"server-luck-app/internal/db"
	"server-luck-app/internal/model"
)

type luckNumber struct {
}

var LuckNumber = new(luckNumber)

func (*luckNumber) CreateBatch(ns []model.LuckNumber) error {
	if len(ns) == 0 {
		return nil
	}
	return db.Cli.CreateInBatches(ns, 500).Error
}

// AgentTickets 持有者为代理的未中奖号码。
func (*luckNumber) AgentTickets() (ns []model.LuckNumber, err error) {
	sub := db.Cli.Model(&model.Agent{}).
		Select("user_address").
		Where("level_agent <> ?", model.LevelNone)
	err = db.Cli.Where("is_winner = ?", false).
		Where("user_address IN (?)", sub).
		Find(&ns).Error
	return
}

// UserTickets 持有者为普通用户的未中奖号码。
func (*luckNumber) UserTickets() (ns []model.LuckNumber, err error) {
	sub := db.Cli.Model(&model.Agent{}).
		Select("user_address").
		Where("level_agent <> ?", model.LevelNone)
	err = db.Cli.Where("is_winner = ?", false).
		Where("user_address NOT IN (?)", sub).
		Find(&ns).Error
	return
}

func (*luckNumber) MarkWinner(id int64, grade string) error {
	return db.Cli.Model(&model.LuckNumber{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_winner":   true,
			"prize_grade": grade,
		}).Error
}

func (*luckNumber) DeleteAll() error {
	return db.Cli.Exec("DELETE FROM buy_luck_numbers").Error
}
