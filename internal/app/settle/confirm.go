package settle

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"server-luck-app/internal/model"
)

// ReceiptWaiter 等待投注交易上链回执。
type ReceiptWaiter interface {
	WaitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

type BetStore interface {
	UpdateStatus(txHash, status string) error
}

// Task 一笔待确认的投注。
type Task struct {
	Address   string
	Amount    decimal.Decimal
	TxHash    string
	AgentHint string
}

// Confirmer 后台确认投注交易并触发结算。
// 调用方提交后立即返回, 确认结果只体现在投注记录状态上。
type Confirmer struct {
	waiter ReceiptWaiter
	bets   BetStore
	engine *Engine

	tasks chan Task
	wg    sync.WaitGroup
}

func NewConfirmer(waiter ReceiptWaiter, bets BetStore, engine *Engine) *Confirmer {
	return &Confirmer{
		waiter: waiter,
		bets:   bets,
		engine: engine,
		tasks:  make(chan Task, 256),
	}
}

func (c *Confirmer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for t := range c.tasks {
			c.handle(ctx, t)
		}
	}()
}

func (c *Confirmer) Submit(t Task) {
	c.tasks <- t
}

// Stop 停止接收新任务并等待已提交任务处理完毕。
func (c *Confirmer) Stop() {
	close(c.tasks)
	c.wg.Wait()
}

func (c *Confirmer) handle(ctx context.Context, t Task) {
	receipt, err := c.waiter.WaitReceipt(ctx, common.HexToHash(t.TxHash))
	if err != nil {
		// 超时结果未知, 状态保持 pending 等待人工对账
		log.Errorf("err: %+v", errors.Wrapf(err, "wait receipt for bet %s", t.TxHash))
		return
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		if err := c.bets.UpdateStatus(t.TxHash, model.BetStatusFailed); err != nil {
			log.Errorf("err: %+v", errors.Wrap(err, "mark bet failed"))
		}
		return
	}

	if err := c.bets.UpdateStatus(t.TxHash, model.BetStatusConfirmed); err != nil {
		log.Errorf("err: %+v", errors.Wrap(err, "mark bet confirmed"))
		return
	}
	if _, err := c.engine.Settle(ctx, t.Address, t.Amount, t.TxHash, t.AgentHint); err != nil {
		log.Errorf("err: %+v", errors.Wrapf(err, "settle bet %s", t.TxHash))
	}
}
