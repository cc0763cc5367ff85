package main

import (
	"context"
	"flag"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"server-luck-app/config"
	"server-luck-app/internal/app/agent"
	"server-luck-app/internal/app/bet"
	"server-luck-app/internal/app/chain"
	"server-luck-app/internal/app/lottery"
	"server-luck-app/internal/app/reset"
	"server-luck-app/internal/app/service"
	"server-luck-app/internal/app/settle"
	"server-luck-app/internal/dao"
	"server-luck-app/internal/db"
	"server-luck-app/internal/pkg/eth"
)

func main() {
	flag.Parse()
	config.Init()
	db.Init()

	if config.Game.MinStake != "" {
		eth.MinStake = decimal.RequireFromString(config.Game.MinStake)
	}

	client, err := chain.New(chain.Config{
		Endpoints:      config.Chain.RPCEndpoints,
		ChainID:        config.Chain.ChainID,
		PrivateKeyHex:  os.Getenv(config.Chain.OwnerPrivateKeyEnv),
		GasLimit:       config.Chain.GasLimit,
		ReceiptTimeout: time.Duration(config.Chain.ReceiptTimeoutSec) * time.Second,
		PollInterval:   time.Duration(config.Chain.PollIntervalSec) * time.Second,
	}, dao.Ledger)
	if err != nil {
		log.Fatalf("init chain client: %v", err)
	}

	engine := settle.NewEngine(dao.Agent, dao.Ledger, dao.LuckNumber, client,
		config.Game.PlatformAccount, config.Game.PrizePoolAccount, service.Today)
	confirmer := settle.NewConfirmer(client, dao.Bet, engine)
	confirmer.Start(context.Background())
	bet.Setup(confirmer, service.Today, func(ctx context.Context) (*big.Int, error) {
		return client.Balance(ctx, config.Chain.OwnerAccount)
	})

	service.Setup(
		agent.NewPromotionJob(dao.Bet, dao.Agent),
		lottery.NewJob(dao.LuckNumber, dao.Ledger, client, config.Game.PrizePoolAccount, config.Game.PrizeDistribution),
		reset.NewJob(service.NewResetStore()),
	)

	go service.RunHttp()
	go service.JobTicker()

	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be catch, so don't need add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := service.GetHttp().Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	confirmer.Stop()
	// catching ctx.Done(). timeout of 5 seconds.
	select {
	case <-ctx.Done():
		log.Info("timeout of 5 seconds.")
	}
	log.Info("Server exiting")
}
