package dao

import (
	"errors"

	"gorm.io/gorm"

	"server-luck-app/internal/db"
	"server-luck-app/internal/model"
)

type agent struct {
}

var Agent = new(agent)

// Ensure 不存在则以初始等级创建。
func (*agent) Ensure(address string) (err error) {
	return db.Cli.Where(model.Agent{UserAddress: address}).
		Attrs(model.Agent{LevelAgent: model.LevelNone}).
		FirstOrCreate(&model.Agent{}).Error
}

func (*agent) Get(address string) (a *model.Agent, err error) {
	a = new(model.Agent)
	err = db.Cli.Where("user_address = ?", address).First(a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return
}

// FrozenByLevel 某等级下已锁定的代理, 按晋升时间先后排序。
func (*agent) FrozenByLevel(level string) (as []model.Agent, err error) {
	err = db.Cli.Where("level_agent = ? AND is_frozen = ?", level, true).
		Order("created_at asc, id asc").Find(&as).Error
	return
}

func (*agent) IsFrozenLevel(address, level string) (ok bool, err error) {
	var cnt int64
	err = db.Cli.Model(&model.Agent{}).
		Where("user_address = ? AND level_agent = ? AND is_frozen = ?", address, level, true).
		Count(&cnt).Error
	return cnt > 0, err
}

// SuperiorOf 已锁定代理的上级地址, 无上级返回空串。
func (*agent) SuperiorOf(address, level string) (superior string, err error) {
	var a model.Agent
	err = db.Cli.Where("user_address = ? AND level_agent = ? AND is_frozen = ?", address, level, true).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if a.SuperiorAddress == nil {
		return "", nil
	}
	return *a.SuperiorAddress, nil
}

// Promote 晋升并锁定, superior 为空时不设置上级。
func (*agent) Promote(address, level, superior string) (err error) {
	update := map[string]interface{}{
		"level_agent": level,
		"is_frozen":   true,
	}
	if superior != "" {
		update["superior_address"] = superior
	}
	var a model.Agent
	err = db.Cli.Where("user_address = ?", address).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		a = model.Agent{UserAddress: address, LevelAgent: level, IsFrozen: true}
		if superior != "" {
			a.SuperiorAddress = &superior
		}
		return db.Cli.Create(&a).Error
	}
	if err != nil {
		return err
	}
	return db.Cli.Model(&model.Agent{}).
		Where("user_address = ?", address).
		Updates(update).Error
}

// ResetAll 所有代理回退为非代理, 清除上级关系。
func (*agent) ResetAll() error {
	return db.Cli.Model(&model.Agent{}).
		Where("1 = 1").
		Updates(map[string]interface{}{
			"level_agent":      model.LevelNone,
			"superior_address": nil,
		}).Error
}
