package agent

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"server-luck-app/internal/model"
)

type fakeRanks struct {
	top        []string
	qualifying []string
}

func (r *fakeRanks) TopStakers(limit int, _ ...string) ([]string, error) {
	if limit > len(r.top) {
		limit = len(r.top)
	}
	return r.top[:limit], nil
}

func (r *fakeRanks) StakersWithMinTotal(_ decimal.Decimal, _ ...string) ([]string, error) {
	return r.qualifying, nil
}

type promotion struct {
	level    string
	superior string
}

type fakeDir struct {
	frozen     map[string][]model.Agent
	promotions map[string]promotion
	order      []string
}

func newFakeDir() *fakeDir {
	return &fakeDir{
		frozen:     map[string][]model.Agent{},
		promotions: map[string]promotion{},
	}
}

func (d *fakeDir) FrozenByLevel(level string) ([]model.Agent, error) {
	return d.frozen[level], nil
}

func (d *fakeDir) Promote(address, level, superior string) error {
	if _, ok := d.promotions[address]; !ok {
		d.order = append(d.order, address)
	}
	d.promotions[address] = promotion{level: level, superior: superior}
	return nil
}

func addrs(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("0x%s%038d", prefix, i)
	}
	return out
}

func TestPromoteLevelOne(t *testing.T) {
	ranks := &fakeRanks{top: addrs("a", 150)}
	dir := newFakeDir()
	j := NewPromotionJob(ranks, dir)

	if err := j.Run(time.Tuesday); err != nil {
		t.Fatal(err)
	}
	if len(dir.promotions) != 100 {
		t.Fatalf("%d promotions, want 100", len(dir.promotions))
	}
	for addr, p := range dir.promotions {
		if p.level != model.LevelOne {
			t.Fatalf("%s promoted to %s, want level one", addr, p.level)
		}
		if p.superior != "" {
			t.Fatalf("level one agent %s has superior %s", addr, p.superior)
		}
	}
}

func TestPromoteLevelTwoRoundRobin(t *testing.T) {
	candidates := addrs("b", 7)
	tier1 := addrs("a", 3)
	dir := newFakeDir()
	for _, a := range tier1 {
		dir.frozen[model.LevelOne] = append(dir.frozen[model.LevelOne], model.Agent{
			UserAddress: a, LevelAgent: model.LevelOne, IsFrozen: true,
		})
	}
	j := NewPromotionJob(&fakeRanks{top: candidates}, dir)

	if err := j.Run(time.Wednesday); err != nil {
		t.Fatal(err)
	}
	// 第 i 名的上级是 tier1[i mod 3]
	for i, addr := range candidates {
		p := dir.promotions[addr]
		if p.level != model.LevelTwo {
			t.Fatalf("%s promoted to %s, want level two", addr, p.level)
		}
		if want := tier1[i%len(tier1)]; p.superior != want {
			t.Fatalf("candidate %d superior = %s, want %s", i, p.superior, want)
		}
	}
}

func TestPromoteLevelTwoNoSuperiors(t *testing.T) {
	dir := newFakeDir()
	j := NewPromotionJob(&fakeRanks{top: addrs("b", 5)}, dir)

	if err := j.Run(time.Wednesday); err != nil {
		t.Fatal(err)
	}
	for addr, p := range dir.promotions {
		if p.superior != "" {
			t.Fatalf("%s assigned superior %s with no level one agents", addr, p.superior)
		}
	}
}

func TestPromoteCommon(t *testing.T) {
	qualifying := addrs("c", 4)
	tier2 := addrs("b", 2)
	dir := newFakeDir()
	for _, a := range tier2 {
		dir.frozen[model.LevelTwo] = append(dir.frozen[model.LevelTwo], model.Agent{
			UserAddress: a, LevelAgent: model.LevelTwo, IsFrozen: true,
		})
	}
	j := NewPromotionJob(&fakeRanks{qualifying: qualifying}, dir)

	if err := j.Run(time.Thursday); err != nil {
		t.Fatal(err)
	}
	for i, addr := range qualifying {
		p := dir.promotions[addr]
		if p.level != model.LevelCommon {
			t.Fatalf("%s promoted to %s, want common", addr, p.level)
		}
		if want := tier2[i%len(tier2)]; p.superior != want {
			t.Fatalf("candidate %d superior = %s, want %s", i, p.superior, want)
		}
	}
}

// 同一天重复执行, 晋升结果不变。
func TestPromotionIdempotent(t *testing.T) {
	candidates := addrs("b", 9)
	tier1 := addrs("a", 4)
	dir := newFakeDir()
	for _, a := range tier1 {
		dir.frozen[model.LevelOne] = append(dir.frozen[model.LevelOne], model.Agent{
			UserAddress: a, LevelAgent: model.LevelOne, IsFrozen: true,
		})
	}
	j := NewPromotionJob(&fakeRanks{top: candidates}, dir)

	if err := j.Run(time.Wednesday); err != nil {
		t.Fatal(err)
	}
	first := make(map[string]promotion, len(dir.promotions))
	for k, v := range dir.promotions {
		first[k] = v
	}

	if err := j.Run(time.Wednesday); err != nil {
		t.Fatal(err)
	}
	if len(dir.promotions) != len(first) {
		t.Fatalf("second run changed promotion count: %d vs %d", len(dir.promotions), len(first))
	}
	for addr, p := range dir.promotions {
		if first[addr] != p {
			t.Fatalf("second run changed %s: %+v vs %+v", addr, p, first[addr])
		}
	}
}

func TestPromotionOffDay(t *testing.T) {
	dir := newFakeDir()
	j := NewPromotionJob(&fakeRanks{top: addrs("a", 5)}, dir)
	if err := j.Run(time.Monday); err != nil {
		t.Fatal(err)
	}
	if len(dir.promotions) != 0 {
		t.Fatal("no promotions expected outside tue/wed/thu")
	}
}
