package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"

	"server-luck-app/config"
	"server-luck-app/internal/app/agent"
	"server-luck-app/internal/app/lottery"
	"server-luck-app/internal/app/reset"
	"server-luck-app/internal/pkg/util"
)

const (
	JobPromotion = "agent_promotion"
	JobLottery   = "lottery_distribution"
	JobReset     = "weekly_reset"
)

var (
	promotionJob *agent.PromotionJob
	lotteryJob   *lottery.Job
	resetJob     *reset.Job
)

func Setup(p *agent.PromotionJob, l *lottery.Job, r *reset.Job) {
	promotionJob = p
	lotteryJob = l
	resetJob = r
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Today 当前星期, 配置里的 today 可覆盖, 供测试和预发布用。
func Today() time.Weekday {
	if s := strings.ToLower(config.Game.Today); s != "" {
		if day, ok := weekdayNames[s]; ok {
			return day
		}
		log.Warnf("unknown today override %q, fall back to wall clock", config.Game.Today)
	}
	return time.Now().In(util.ShLoc).Weekday()
}

// DueJobs 某一时刻应触发的任务, 纯函数便于单测:
// 周二/三/四 01:00 晋升代理, 周日 22:00 开奖, 周日 23:55 清周数据。
func DueJobs(now time.Time) []string {
	var due []string
	switch now.Weekday() {
	case time.Tuesday, time.Wednesday, time.Thursday:
		if now.Hour() == 1 && now.Minute() == 0 {
			due = append(due, JobPromotion)
		}
	case time.Sunday:
		if now.Hour() == 22 && now.Minute() == 0 {
			due = append(due, JobLottery)
		}
		if now.Hour() == 23 && now.Minute() == 55 {
			due = append(due, JobReset)
		}
	}
	return due
}

func runJob(name string) {
	log.Infof("run job %s", name)
	var err error
	switch name {
	case JobPromotion:
		err = promotionJob.Run(Today())
	case JobLottery:
		err = lotteryJob.Run(context.Background())
	case JobReset:
		err = resetJob.Run()
	}
	if err != nil {
		log.Errorf("err: %+v", errors.Wrapf(err, "job %s", name))
	}
}

// JobTicker 每分钟对表一次, 进程中途启动时可按配置立即补跑当天任务。
func JobTicker() {
	if config.Game.RunJobsOnStart {
		switch Today() {
		case time.Tuesday, time.Wednesday, time.Thursday:
			go runJob(JobPromotion)
		case time.Sunday:
			go runJob(JobLottery)
		}
	}

	c := cron.New()
	_ = c.AddFunc("0 * * * * *", func() {
		for _, name := range DueJobs(time.Now().In(util.ShLoc)) {
			go runJob(name)
		}
	})
	c.Start()
}
