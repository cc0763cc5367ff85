package reset

import (
	"testing"

	"github.com/pkg/errors"
)

type fakeStore struct {
	calls  []string
	failOn string
}

func (f *fakeStore) step(name string) error {
	if name == f.failOn {
		return errors.New("table locked")
	}
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeStore) DeleteBets() error          { return f.step("bets") }
func (f *fakeStore) DeleteCommissions() error   { return f.step("commissions") }
func (f *fakeStore) DeleteFundsFlow() error     { return f.step("funds_flow") }
func (f *fakeStore) DeletePrizePool() error     { return f.step("prize_pool") }
func (f *fakeStore) DeleteGas() error           { return f.step("gas") }
func (f *fakeStore) DeleteLuckNumbers() error   { return f.step("luck_numbers") }
func (f *fakeStore) DeleteDistributions() error { return f.step("distributions") }
func (f *fakeStore) ResetAgents() error         { return f.step("agents") }

func TestRunClearsEverything(t *testing.T) {
	s := new(fakeStore)
	if err := NewJob(s).Run(); err != nil {
		t.Fatal(err)
	}
	if len(s.calls) != 8 {
		t.Fatalf("%d steps ran, want 8", len(s.calls))
	}
	if s.calls[len(s.calls)-1] != "agents" {
		t.Fatal("agent reset must run last")
	}
}

// 单表清理失败不阻断其余清理。
func TestRunContinuesOnFailure(t *testing.T) {
	s := &fakeStore{failOn: "commissions"}
	err := NewJob(s).Run()
	if err == nil {
		t.Fatal("expected error for failed step")
	}
	if len(s.calls) != 7 {
		t.Fatalf("%d steps ran, want 7", len(s.calls))
	}
}
