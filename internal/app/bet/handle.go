package bet

import (
	"context"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"server-luck-app/internal/app/settle"
	"server-luck-app/internal/dao"
	"server-luck-app/internal/model"
	"server-luck-app/internal/pkg/eth"
	"server-luck-app/internal/pkg/generr"
)

var (
	confirmer *settle.Confirmer
	today     func() time.Weekday
	// 平台出资账户余额查询, 受理前先挡掉注定失败的投注
	ownerBalance func(ctx context.Context) (*big.Int, error)
)

func Setup(c *settle.Confirmer, todayFn func() time.Weekday, balanceFn func(ctx context.Context) (*big.Int, error)) {
	confirmer = c
	today = todayFn
	ownerBalance = balanceFn
}

type placeReq struct {
	AccountAddress  string `json:"account_address"`
	Amount          string `json:"amount"`
	TransactionHash string `json:"transaction_hash"`
	AgentAddress    string `json:"agent_address"`
}

// Place 受理投注: 落一条 pending 记录后立即返回,
// 确认与结算由后台任务异步完成。
func Place(c *gin.Context) {
	var req placeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Errorf("err: %+v", errors.Wrap(err, "parse place bet req"))
		c.JSON(http.StatusBadRequest, generr.ParseParam)
		return
	}

	if !common.IsHexAddress(req.AccountAddress) {
		c.JSON(http.StatusBadRequest, generr.BetBadAddress)
		return
	}
	if req.AgentAddress != "" && !common.IsHexAddress(req.AgentAddress) {
		c.JSON(http.StatusBadRequest, generr.BetBadAddress)
		return
	}
	if req.TransactionHash == "" {
		c.JSON(http.StatusBadRequest, generr.BetNoTransaction)
		return
	}
	switch today() {
	case time.Sunday:
		c.JSON(http.StatusBadRequest, generr.BetClosedSunday)
		return
	case time.Thursday, time.Friday, time.Saturday:
		if req.AgentAddress == "" {
			c.JSON(http.StatusBadRequest, generr.BetNoAgent)
			return
		}
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		log.Errorf("err: %+v", errors.Wrapf(err, "parse amount %s", req.Amount))
		c.JSON(http.StatusBadRequest, generr.BetBadAmount)
		return
	}
	if err = eth.ValidateStake(amount); err != nil {
		c.JSON(http.StatusBadRequest, generr.BetBelowMinimum)
		return
	}
	stakeWei, err := eth.ToWei(amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, generr.BetBadAmount)
		return
	}

	// 结算要从平台账户支出至多整笔投注额, 余额不够的单不收
	balance, err := ownerBalance(c.Request.Context())
	if err != nil {
		log.Errorf("err: %+v", errors.Wrap(err, "query owner balance"))
		c.JSON(http.StatusInternalServerError, generr.ChainUnavailable)
		return
	}
	if balance.Cmp(stakeWei) < 0 {
		c.JSON(http.StatusBadRequest, generr.BalanceNotEnough)
		return
	}

	exist, err := dao.Bet.GetByHash(req.TransactionHash)
	if err != nil {
		log.Errorf("err: %+v", errors.Wrap(err, "query bet by hash"))
		c.JSON(http.StatusInternalServerError, generr.ReadDB)
		return
	}
	if exist != nil {
		c.JSON(http.StatusBadRequest, generr.BetDuplicateTx)
		return
	}

	if err = dao.Agent.Ensure(req.AccountAddress); err != nil {
		log.Errorf("err: %+v", errors.Wrap(err, "ensure agent record"))
		c.JSON(http.StatusInternalServerError, generr.UpdateDB)
		return
	}
	err = dao.Bet.Create(&model.BetRecord{
		AccountAddress:  req.AccountAddress,
		Amount:          amount,
		TransactionHash: req.TransactionHash,
		Status:          model.BetStatusPending,
	})
	if err != nil {
		log.Errorf("err: %+v", errors.Wrap(err, "create bet record"))
		c.JSON(http.StatusInternalServerError, generr.UpdateDB)
		return
	}

	confirmer.Submit(settle.Task{
		Address:   req.AccountAddress,
		Amount:    amount,
		TxHash:    req.TransactionHash,
		AgentHint: req.AgentAddress,
	})

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{"status": model.BetStatusPending},
	})
}

// List 查询某地址的投注记录。
func List(c *gin.Context) {
	address := c.Query("address")
	if !common.IsHexAddress(address) {
		c.JSON(http.StatusBadRequest, generr.BetBadAddress)
		return
	}
	bs, err := dao.Bet.ListByAddress(address)
	if err != nil {
		log.Errorf("err: %+v", errors.Wrap(err, "list bets"))
		c.JSON(http.StatusInternalServerError, generr.ReadDB)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": bs,
	})
}
