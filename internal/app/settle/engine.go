package settle

import (
	"context"
	"math/big"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"server-luck-app/internal/model"
	"server-luck-app/internal/pkg/eth"
)

// Directory 代理层级查询。
type Directory interface {
	IsFrozenLevel(address, level string) (bool, error)
	SuperiorOf(address, level string) (string, error)
}

// Ledger 结算产生的流水落库。
type Ledger interface {
	RecordCommission(c *model.Commission) error
	RecordFundsFlow(f *model.PlatformFundsFlow) error
	RecordPrizePool(p *model.PlatformPrizePool) error
}

type TicketStore interface {
	CreateBatch(ns []model.LuckNumber) error
}

// Transferer 链上转账, 返回交易哈希。
type Transferer interface {
	Transfer(ctx context.Context, to string, amountWei *big.Int) (txHash string, err error)
}

// Result 单笔投注结算结果。
type Result struct {
	PlatformTx string          `json:"platform_tx"`
	LevelOneTx string          `json:"level_one_tx,omitempty"`
	LevelTwoTx string          `json:"level_two_tx,omitempty"`
	CommonTx   string          `json:"common_tx,omitempty"`
	Pool       decimal.Decimal `json:"pool"`
	Tickets    []string        `json:"tickets"`
}

type Engine struct {
	dir     Directory
	ledger  Ledger
	tickets TicketStore
	chain   Transferer

	platformAccount  string
	prizePoolAccount string

	// 可注入的"今天", 便于测试与配置覆盖
	weekday func() time.Weekday
}

func NewEngine(dir Directory, ledger Ledger, tickets TicketStore, chain Transferer,
	platformAccount, prizePoolAccount string, weekday func() time.Weekday) *Engine {
	return &Engine{
		dir:              dir,
		ledger:           ledger,
		tickets:          tickets,
		chain:            chain,
		platformAccount:  platformAccount,
		prizePoolAccount: prizePoolAccount,
		weekday:          weekday,
	}
}

// recipients 各档位分成的实际收款代理, 空串表示该档不发放。
type recipients struct {
	levelOne string
	levelTwo string
	common   string
}

// resolve 校验代理提示并向上回溯, 不合格的档位直接略过。
func (e *Engine) resolve(day time.Weekday, hint string) (r recipients, err error) {
	if hint == "" {
		return r, nil
	}
	switch day {
	case time.Tuesday:
		ok, err := e.dir.IsFrozenLevel(hint, model.LevelOne)
		if err != nil {
			return r, err
		}
		if ok {
			r.levelOne = hint
		}
	case time.Wednesday:
		ok, err := e.dir.IsFrozenLevel(hint, model.LevelTwo)
		if err != nil {
			return r, err
		}
		if !ok {
			return r, nil
		}
		r.levelTwo = hint
		sup, err := e.dir.SuperiorOf(hint, model.LevelTwo)
		if err != nil {
			return r, err
		}
		if sup != "" {
			ok, err = e.dir.IsFrozenLevel(sup, model.LevelOne)
			if err != nil {
				return r, err
			}
			if ok {
				r.levelOne = sup
			}
		}
	case time.Thursday, time.Friday, time.Saturday:
		ok, err := e.dir.IsFrozenLevel(hint, model.LevelCommon)
		if err != nil {
			return r, err
		}
		if !ok {
			return r, nil
		}
		r.common = hint
		two, err := e.dir.SuperiorOf(hint, model.LevelCommon)
		if err != nil {
			return r, err
		}
		if two == "" {
			return r, nil
		}
		ok, err = e.dir.IsFrozenLevel(two, model.LevelTwo)
		if err != nil {
			return r, err
		}
		if !ok {
			return r, nil
		}
		r.levelTwo = two
		one, err := e.dir.SuperiorOf(two, model.LevelTwo)
		if err != nil {
			return r, err
		}
		if one != "" {
			ok, err = e.dir.IsFrozenLevel(one, model.LevelOne)
			if err != nil {
				return r, err
			}
			if ok {
				r.levelOne = one
			}
		}
	}
	return r, nil
}

// payCommission 转账后落佣金流水, 转账失败则中止整个结算。
func (e *Engine) payCommission(ctx context.Context, to, from string, shareWei *big.Int) (string, error) {
	txHash, err := e.chain.Transfer(ctx, to, shareWei)
	if err != nil {
		return txHash, errors.Wrapf(err, "pay commission to %s", to)
	}
	err = e.ledger.RecordCommission(&model.Commission{
		UserAddress:     to,
		FromAddress:     from,
		Commission:      eth.FromWei(shareWei),
		TransactionHash: txHash,
	})
	if err != nil {
		return txHash, errors.Wrap(err, "record commission")
	}
	return txHash, nil
}

// Settle 按当天策略结算一笔已确认投注。
// 链上转账串行执行, 任何一笔失败即中止后续转账, 已广播的不回滚。
func (e *Engine) Settle(ctx context.Context, participant string, amount decimal.Decimal, txRef, agentHint string) (*Result, error) {
	if err := eth.ValidateStake(amount); err != nil {
		return nil, err
	}
	stakeWei, err := eth.ToWei(amount)
	if err != nil {
		return nil, err
	}

	day := e.weekday()
	shares, err := Split(day, stakeWei)
	if err != nil {
		return nil, err
	}
	switch day {
	case time.Thursday, time.Friday, time.Saturday:
		if agentHint == "" {
			return nil, errors.Wrapf(ErrAgentRequired, "weekday %s", day)
		}
	}

	rec, err := e.resolve(day, agentHint)
	if err != nil {
		return nil, errors.Wrap(err, "resolve agents")
	}

	res := new(Result)

	// 平台份额
	res.PlatformTx, err = e.chain.Transfer(ctx, e.platformAccount, shares.Platform)
	if err != nil {
		return nil, errors.Wrap(err, "pay platform share")
	}
	err = e.ledger.RecordFundsFlow(&model.PlatformFundsFlow{
		UserAddress:     e.platformAccount,
		FromAddress:     participant,
		Amount:          eth.FromWei(shares.Platform),
		TransactionHash: res.PlatformTx,
	})
	if err != nil {
		return nil, errors.Wrap(err, "record funds flow")
	}

	// 各档代理佣金, 无收款人的档位不发放也不记流水
	if rec.levelOne != "" && shares.LevelOne.Sign() > 0 {
		res.LevelOneTx, err = e.payCommission(ctx, rec.levelOne, participant, shares.LevelOne)
		if err != nil {
			return nil, err
		}
	}
	if rec.levelTwo != "" && shares.LevelTwo.Sign() > 0 {
		res.LevelTwoTx, err = e.payCommission(ctx, rec.levelTwo, participant, shares.LevelTwo)
		if err != nil {
			return nil, err
		}
	}
	if rec.common != "" && shares.Common.Sign() > 0 {
		res.CommonTx, err = e.payCommission(ctx, rec.common, participant, shares.Common)
		if err != nil {
			return nil, err
		}
	}

	// 奖池份额留存于合约账户, 只记账不转账
	res.Pool = eth.FromWei(shares.Pool)
	err = e.ledger.RecordPrizePool(&model.PlatformPrizePool{
		UserAddress:     e.prizePoolAccount,
		FromAddress:     participant,
		Amount:          res.Pool,
		TransactionHash: txRef,
	})
	if err != nil {
		return nil, errors.Wrap(err, "record prize pool")
	}

	ns := newLuckNumbers(participant, txRef, amount)
	if err = e.tickets.CreateBatch(ns); err != nil {
		return nil, errors.Wrap(err, "create luck numbers")
	}
	for _, n := range ns {
		res.Tickets = append(res.Tickets, n.LuckNumber)
	}

	log.Infof("settled %s ETH from %s on %s: %d tickets", amount, participant, day, len(res.Tickets))
	return res, nil
}
