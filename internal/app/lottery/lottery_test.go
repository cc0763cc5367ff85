package lottery

import (
	"context"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"server-luck-app/config"
	"server-luck-app/internal/model"
	"server-luck-app/internal/pkg/eth"
)

const poolAccount = "0x1000000000000000000000000000000000000002"

var testDist = config.PrizeDistribution{
	UserPoolPercentage:    0.7,
	FirstPrizePercentage:  0.5,
	SecondPrizePercentage: 0.3,
	ThirdPrizePercentage:  0.2,
	LevelOnePercentage:    0.15,
	LevelTwoPercentage:    0.1,
}

type fakeTickets struct {
	users   []model.LuckNumber
	agents  []model.LuckNumber
	winners map[int64]string
}

func (f *fakeTickets) UserTickets() ([]model.LuckNumber, error)  { return f.users, nil }
func (f *fakeTickets) AgentTickets() ([]model.LuckNumber, error) { return f.agents, nil }

func (f *fakeTickets) MarkWinner(id int64, grade string) error {
	if f.winners == nil {
		f.winners = map[int64]string{}
	}
	f.winners[id] = grade
	return nil
}

type fakeLedger struct {
	total   decimal.Decimal
	details []*model.LotteryDistributionDetail
}

func (l *fakeLedger) TotalPrizePool(_ string) (decimal.Decimal, error) { return l.total, nil }

func (l *fakeLedger) RecordDistribution(d *model.LotteryDistributionDetail) error {
	l.details = append(l.details, d)
	return nil
}

type transfer struct {
	to     string
	amount *big.Int
}

type fakeChain struct {
	transfers []transfer
	failAt    int
}

func (c *fakeChain) Transfer(_ context.Context, to string, amountWei *big.Int) (string, error) {
	if c.failAt > 0 && len(c.transfers)+1 == c.failAt {
		return "", errors.New("rpc down")
	}
	c.transfers = append(c.transfers, transfer{to: to, amount: amountWei})
	return "0xtx", nil
}

func tickets(prefix string, n int) []model.LuckNumber {
	out := make([]model.LuckNumber, n)
	for i := range out {
		out[i] = model.LuckNumber{
			ID:          int64(len(prefix)*1000 + i + 1),
			UserAddress: "0x" + prefix,
			LuckNumber:  prefix + "-ticket",
		}
	}
	return out
}

func TestPrizeSplit(t *testing.T) {
	j := NewJob(nil, nil, nil, poolAccount, testDist)
	total := decimal.RequireFromString("10")
	ps := j.prizes(total)

	want := map[string]string{
		model.PrizeGradeFirst:       "3.5",  // 10*0.7*0.5
		model.PrizeGradeSecond:      "2.1",  // 10*0.7*0.3
		model.PrizeGradeThird:       "1.4",  // 10*0.7*0.2
		model.PrizeGradeLevelOne:    "0.45", // 代理池3*0.15
		model.PrizeGradeLevelTwo:    "0.3",  // 代理池3*0.1
		model.PrizeGradeLevelCommon: "2.25", // 代理池余额
	}
	sum := decimal.Zero
	for _, p := range ps {
		if !p.amount.Equal(decimal.RequireFromString(want[p.grade])) {
			t.Fatalf("%s = %s, want %s", p.grade, p.amount, want[p.grade])
		}
		sum = sum.Add(p.amount)
	}
	if !sum.Equal(total) {
		t.Fatalf("prizes sum to %s, want %s", sum, total)
	}

	// 代理三项精确等于代理池
	agentSum := decimal.Zero
	for _, p := range ps {
		if p.fromAgents {
			agentSum = agentSum.Add(p.amount)
		}
	}
	if !agentSum.Equal(decimal.RequireFromString("3")) {
		t.Fatalf("agent prizes sum to %s, want 3", agentSum)
	}
}

// 一级/二级占比偏大时普通代理份额也不能为负, 三项之和始终等于代理池。
func TestPrizeSplitHighAgentPercentages(t *testing.T) {
	dist := testDist
	dist.LevelOnePercentage = 0.25
	dist.LevelTwoPercentage = 0.1
	j := NewJob(nil, nil, nil, poolAccount, dist)
	total := decimal.RequireFromString("1")
	ps := j.prizes(total)

	agentPool := decimal.RequireFromString("0.3")
	agentSum := decimal.Zero
	for _, p := range ps {
		if !p.fromAgents {
			continue
		}
		if p.amount.IsNegative() {
			t.Fatalf("%s prize is negative: %s", p.grade, p.amount)
		}
		agentSum = agentSum.Add(p.amount)
	}
	if !agentSum.Equal(agentPool) {
		t.Fatalf("agent prizes sum to %s, want %s", agentSum, agentPool)
	}
}

func TestRunPaysAllGrades(t *testing.T) {
	ts := &fakeTickets{users: tickets("u", 3), agents: tickets("ag", 2)}
	ledger := &fakeLedger{total: decimal.RequireFromString("1")}
	chain := new(fakeChain)
	j := NewJob(ts, ledger, chain, poolAccount, testDist)
	j.randIntn = func(n int) int { return 0 }

	if err := j.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(chain.transfers) != 6 {
		t.Fatalf("%d transfers, want 6", len(chain.transfers))
	}
	if len(ledger.details) != 6 {
		t.Fatalf("%d details, want 6", len(ledger.details))
	}
	paid := decimal.Zero
	for _, tr := range chain.transfers {
		paid = paid.Add(eth.FromWei(tr.amount))
	}
	if !paid.Equal(decimal.RequireFromString("1")) {
		t.Fatalf("paid %s, want full pool", paid)
	}
	// 同一张票可中多个奖项, 标记以最后一次为准
	if len(ts.winners) != 2 {
		t.Fatalf("%d distinct winning tickets, want 2", len(ts.winners))
	}
}

func TestRunEmptyAgentPool(t *testing.T) {
	ts := &fakeTickets{users: tickets("u", 3)}
	ledger := &fakeLedger{total: decimal.RequireFromString("1")}
	chain := new(fakeChain)
	j := NewJob(ts, ledger, chain, poolAccount, testDist)
	j.randIntn = func(n int) int { return 0 }

	if err := j.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	// 代理三项落到占位地址, 被过滤掉
	if len(chain.transfers) != 3 {
		t.Fatalf("%d transfers, want 3", len(chain.transfers))
	}
	for _, tr := range chain.transfers {
		if tr.to == zeroAddress {
			t.Fatal("sentinel winner must not be paid")
		}
	}
	if len(ledger.details) != 3 {
		t.Fatalf("%d details, want 3", len(ledger.details))
	}
}

func TestRunEmptyPool(t *testing.T) {
	chain := new(fakeChain)
	j := NewJob(&fakeTickets{}, &fakeLedger{total: decimal.Zero}, chain, poolAccount, testDist)

	if err := j.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(chain.transfers) != 0 {
		t.Fatal("no transfers expected for empty pool")
	}
}

func TestRunAbortsOnTransferFailure(t *testing.T) {
	ts := &fakeTickets{users: tickets("u", 3), agents: tickets("ag", 2)}
	ledger := &fakeLedger{total: decimal.RequireFromString("1")}
	chain := &fakeChain{failAt: 2}
	j := NewJob(ts, ledger, chain, poolAccount, testDist)
	j.randIntn = func(n int) int { return 0 }

	if err := j.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(chain.transfers) != 1 {
		t.Fatalf("%d transfers, want 1 before abort", len(chain.transfers))
	}
	if len(ledger.details) != 1 {
		t.Fatalf("%d details, want 1", len(ledger.details))
	}
}
