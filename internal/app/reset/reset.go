package reset

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Store 周重置需要清理的各项周期数据。
type Store interface {
	DeleteBets() error
	DeleteCommissions() error
	DeleteFundsFlow() error
	DeletePrizePool() error
	DeleteGas() error
	DeleteLuckNumbers() error
	DeleteDistributions() error
	ResetAgents() error
}

// Job 周日夜间清空当周数据, 代理全部回退为普通用户。
// 单项失败只记日志, 不影响其余清理。
type Job struct {
	store Store
}

func NewJob(store Store) *Job {
	return &Job{store: store}
}

func (j *Job) Run() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"bet records", j.store.DeleteBets},
		{"commissions", j.store.DeleteCommissions},
		{"funds flow", j.store.DeleteFundsFlow},
		{"prize pool", j.store.DeletePrizePool},
		{"transaction gas", j.store.DeleteGas},
		{"luck numbers", j.store.DeleteLuckNumbers},
		{"distribution details", j.store.DeleteDistributions},
		{"agents", j.store.ResetAgents},
	}
	var failed int
	for _, s := range steps {
		if err := s.fn(); err != nil {
			failed++
			log.Errorf("err: %+v", errors.Wrapf(err, "weekly reset: clear %s", s.name))
		}
	}
	if failed > 0 {
		return errors.Errorf("weekly reset finished with %d failed steps", failed)
	}
	log.Info("weekly reset done")
	return nil
}
