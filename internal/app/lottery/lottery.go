package lottery

import (
	"context"
	"math/big"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"server-luck-app/config"
	"server-luck-app/internal/model"
	"server-luck-app/internal/pkg/eth"
)

// 奖池为空时的占位得主, 派奖前过滤
const zeroAddress = "0x0000000000000000000000000000000000000000"

// TicketSource 号码池查询与中奖标记。
type TicketSource interface {
	UserTickets() ([]model.LuckNumber, error)
	AgentTickets() ([]model.LuckNumber, error)
	MarkWinner(id int64, grade string) error
}

type Ledger interface {
	TotalPrizePool(account string) (decimal.Decimal, error)
	RecordDistribution(d *model.LotteryDistributionDetail) error
}

type Transferer interface {
	Transfer(ctx context.Context, to string, amountWei *big.Int) (txHash string, err error)
}

// Job 每周日开奖: 汇总奖池, 按配置比例拆分六个奖项,
// 用户池与代理池各自有放回地随机抽取得主, 逐个串行派奖。
type Job struct {
	tickets TicketSource
	ledger  Ledger
	chain   Transferer

	poolAccount string
	dist        config.PrizeDistribution

	// 可注入的随机源, 便于测试
	randIntn func(n int) int
}

func NewJob(tickets TicketSource, ledger Ledger, chain Transferer, poolAccount string, dist config.PrizeDistribution) *Job {
	return &Job{
		tickets:     tickets,
		ledger:      ledger,
		chain:       chain,
		poolAccount: poolAccount,
		dist:        dist,
		randIntn:    rand.Intn,
	}
}

type prize struct {
	grade      string
	amount     decimal.Decimal
	fromAgents bool
}

// prizes 奖池拆分: 用户池按一二三等奖比例, 其余归代理,
// 普通代理吃掉一级/二级之后的全部余额, 保证总和精确。
func (j *Job) prizes(total decimal.Decimal) []prize {
	userPool := total.Mul(decimal.NewFromFloat(j.dist.UserPoolPercentage)).Truncate(eth.WeiDigits)
	agentPool := total.Sub(userPool)

	first := userPool.Mul(decimal.NewFromFloat(j.dist.FirstPrizePercentage)).Truncate(eth.WeiDigits)
	second := userPool.Mul(decimal.NewFromFloat(j.dist.SecondPrizePercentage)).Truncate(eth.WeiDigits)
	third := userPool.Mul(decimal.NewFromFloat(j.dist.ThirdPrizePercentage)).Truncate(eth.WeiDigits)

	// 一级/二级按代理池计提, 普通代理吃剩余
	levelOne := agentPool.Mul(decimal.NewFromFloat(j.dist.LevelOnePercentage)).Truncate(eth.WeiDigits)
	levelTwo := agentPool.Mul(decimal.NewFromFloat(j.dist.LevelTwoPercentage)).Truncate(eth.WeiDigits)
	common := agentPool.Sub(levelOne).Sub(levelTwo)

	return []prize{
		{model.PrizeGradeFirst, first, false},
		{model.PrizeGradeSecond, second, false},
		{model.PrizeGradeThird, third, false},
		{model.PrizeGradeLevelOne, levelOne, true},
		{model.PrizeGradeLevelTwo, levelTwo, true},
		{model.PrizeGradeLevelCommon, common, true},
	}
}

type winner struct {
	prize
	ticket model.LuckNumber
}

// draw 有放回抽取, 同一张号码可以中多个奖项。
func (j *Job) draw(ps []prize, userPool, agentPool []model.LuckNumber) []winner {
	ws := make([]winner, 0, len(ps))
	for _, p := range ps {
		pool := userPool
		if p.fromAgents {
			pool = agentPool
		}
		if len(pool) == 0 {
			ws = append(ws, winner{prize: p, ticket: model.LuckNumber{UserAddress: zeroAddress}})
			continue
		}
		ws = append(ws, winner{prize: p, ticket: pool[j.randIntn(len(pool))]})
	}
	return ws
}

func (j *Job) Run(ctx context.Context) error {
	total, err := j.ledger.TotalPrizePool(j.poolAccount)
	if err != nil {
		return errors.Wrap(err, "sum prize pool")
	}
	if total.Sign() <= 0 {
		log.Info("prize pool empty, nothing to distribute")
		return nil
	}

	userPool, err := j.tickets.UserTickets()
	if err != nil {
		return errors.Wrap(err, "load user tickets")
	}
	agentPool, err := j.tickets.AgentTickets()
	if err != nil {
		return errors.Wrap(err, "load agent tickets")
	}

	winners := j.draw(j.prizes(total), userPool, agentPool)

	// 串行派奖, 任一得主失败即中止其余派奖
	for _, w := range winners {
		if w.ticket.UserAddress == zeroAddress {
			log.Warnf("no tickets for %s, prize %s ETH withheld", w.grade, w.amount)
			continue
		}
		if w.amount.Sign() <= 0 {
			continue
		}
		amountWei, err := eth.ToWei(w.amount)
		if err != nil {
			return errors.Wrapf(err, "convert %s prize", w.grade)
		}
		txHash, err := j.chain.Transfer(ctx, w.ticket.UserAddress, amountWei)
		if err != nil {
			return errors.Wrapf(err, "pay %s prize to %s", w.grade, w.ticket.UserAddress)
		}
		if err := j.tickets.MarkWinner(w.ticket.ID, w.grade); err != nil {
			return errors.Wrapf(err, "mark winner %s", w.ticket.LuckNumber)
		}
		if err := j.ledger.RecordDistribution(&model.LotteryDistributionDetail{
			UserAddress: w.ticket.UserAddress,
			LuckNumber:  w.ticket.LuckNumber,
			PrizeAmount: w.amount,
			PrizeGrade:  w.grade,
		}); err != nil {
			return errors.Wrapf(err, "record %s distribution", w.grade)
		}
		log.Infof("paid %s prize %s ETH to %s (tx %s)", w.grade, w.amount, w.ticket.UserAddress, txHash)
	}
	return nil
}
