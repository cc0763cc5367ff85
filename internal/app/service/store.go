package service

import (
	"server-luck-app/internal/app/reset"
	"server-luck-app/internal/dao"
)

// resetStore 把周重置任务的清理动作落到各 dao 上。
type resetStore struct {
}

func NewResetStore() reset.Store {
	return resetStore{}
}

func (resetStore) DeleteBets() error          { return dao.Bet.DeleteAll() }
func (resetStore) DeleteCommissions() error   { return dao.Ledger.DeleteCommissions() }
func (resetStore) DeleteFundsFlow() error     { return dao.Ledger.DeleteFundsFlow() }
func (resetStore) DeletePrizePool() error     { return dao.Ledger.DeletePrizePool() }
func (resetStore) DeleteGas() error           { return dao.Ledger.DeleteGas() }
func (resetStore) DeleteLuckNumbers() error   { return dao.LuckNumber.DeleteAll() }
func (resetStore) DeleteDistributions() error { return dao.Ledger.DeleteDistributions() }
func (resetStore) ResetAgents() error         { return dao.Agent.ResetAll() }
