package agent

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"server-luck-app/internal/model"
)

const (
	levelOneQuota = 100
	levelTwoQuota = 1000
)

// 普通代理的投注总额门槛
var commonMinStake = decimal.RequireFromString("0.1")

// RankSource 投注排行查询。
type RankSource interface {
	TopStakers(limit int, excludeLevels ...string) ([]string, error)
	StakersWithMinTotal(min decimal.Decimal, excludeLevels ...string) ([]string, error)
}

// Directory 代理写入与上级查询。
type Directory interface {
	FrozenByLevel(level string) ([]model.Agent, error)
	Promote(address, level, superior string) error
}

// PromotionJob 每周分三天晋升代理: 周二一级, 周三二级, 周四普通。
// 同一天重复执行只产生重复写入, 结果不变。
type PromotionJob struct {
	ranks RankSource
	dir   Directory
}

func NewPromotionJob(ranks RankSource, dir Directory) *PromotionJob {
	return &PromotionJob{ranks: ranks, dir: dir}
}

func (j *PromotionJob) Run(day time.Weekday) error {
	switch day {
	case time.Tuesday:
		return j.promoteLevelOne()
	case time.Wednesday:
		return j.promoteLevelTwo()
	case time.Thursday:
		return j.promoteCommon()
	}
	return nil
}

// promoteLevelOne 投注总额前 100 晋升一级代理, 无上级。
func (j *PromotionJob) promoteLevelOne() error {
	addrs, err := j.ranks.TopStakers(levelOneQuota)
	if err != nil {
		return errors.Wrap(err, "rank level one candidates")
	}
	for _, addr := range addrs {
		if err := j.dir.Promote(addr, model.LevelOne, ""); err != nil {
			// 单个晋升失败不影响其余
			log.Errorf("err: %+v", errors.Wrapf(err, "promote %s to level one", addr))
		}
	}
	log.Infof("promoted %d level one agents", len(addrs))
	return nil
}

// promoteLevelTwo 除一级代理外前 1000 晋升二级, 上级按一级代理晋升顺序轮转分配。
func (j *PromotionJob) promoteLevelTwo() error {
	addrs, err := j.ranks.TopStakers(levelTwoQuota, model.LevelOne)
	if err != nil {
		return errors.Wrap(err, "rank level two candidates")
	}
	superiors, err := j.dir.FrozenByLevel(model.LevelOne)
	if err != nil {
		return errors.Wrap(err, "list level one agents")
	}
	j.promoteAll(addrs, model.LevelTwo, superiors)
	return nil
}

// promoteCommon 投注总额达标者晋升普通代理, 上级在二级代理中轮转。
func (j *PromotionJob) promoteCommon() error {
	addrs, err := j.ranks.StakersWithMinTotal(commonMinStake, model.LevelOne, model.LevelTwo)
	if err != nil {
		return errors.Wrap(err, "rank common candidates")
	}
	superiors, err := j.dir.FrozenByLevel(model.LevelTwo)
	if err != nil {
		return errors.Wrap(err, "list level two agents")
	}
	j.promoteAll(addrs, model.LevelCommon, superiors)
	return nil
}

func (j *PromotionJob) promoteAll(addrs []string, level string, superiors []model.Agent) {
	for i, addr := range addrs {
		superior := ""
		if len(superiors) > 0 {
			superior = superiors[i%len(superiors)].UserAddress
		}
		if err := j.dir.Promote(addr, level, superior); err != nil {
			log.Errorf("err: %+v", errors.Wrapf(err, "promote %s to %s", addr, level))
		}
	}
	log.Infof("promoted %d %s agents", len(addrs), level)
}
