package settle

import (
	"math/big"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrUnsupportedWeekday = errors.New("no settlement on sunday")

	// 周四到周六的结算必须带普通代理地址
	ErrAgentRequired = errors.New("common agent must be specified")
)

// Shares 单笔投注按星期拆分后的各方份额, 单位 wei。
// 各份额之和恒等于投注额, 取整余数归入奖池。
type Shares struct {
	Platform *big.Int
	LevelOne *big.Int
	LevelTwo *big.Int
	Common   *big.Int
	Pool     *big.Int
}

// 百分比表, 平台固定 40%, 奖池取余额
var splitTable = map[time.Weekday]struct {
	platform, levelOne, levelTwo, common int64
}{
	time.Monday:    {40, 0, 0, 0},
	time.Tuesday:   {40, 20, 0, 0},
	time.Wednesday: {40, 20, 20, 0},
	time.Thursday:  {40, 10, 10, 20},
	time.Friday:    {40, 10, 10, 20},
	time.Saturday:  {40, 10, 10, 20},
}

func percent(stakeWei *big.Int, pct int64) *big.Int {
	n := new(big.Int).Mul(stakeWei, big.NewInt(pct))
	return n.Div(n, big.NewInt(100))
}

// Split 按星期计算分成, 周日无投注。
func Split(day time.Weekday, stakeWei *big.Int) (Shares, error) {
	row, ok := splitTable[day]
	if !ok {
		return Shares{}, errors.Wrapf(ErrUnsupportedWeekday, "weekday %s", day)
	}
	s := Shares{
		Platform: percent(stakeWei, row.platform),
		LevelOne: percent(stakeWei, row.levelOne),
		LevelTwo: percent(stakeWei, row.levelTwo),
		Common:   percent(stakeWei, row.common),
	}
	rest := new(big.Int).Set(stakeWei)
	rest.Sub(rest, s.Platform)
	rest.Sub(rest, s.LevelOne)
	rest.Sub(rest, s.LevelTwo)
	rest.Sub(rest, s.Common)
	s.Pool = rest
	return s, nil
}
