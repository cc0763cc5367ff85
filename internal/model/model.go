package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 投注记录状态
const (
	BetStatusPending   = "pending"
	BetStatusConfirmed = "confirmed"
	BetStatusFailed    = "failed"
)

// 代理等级
const (
	LevelNone   = "not_agent"
	LevelOne    = "one"
	LevelTwo    = "two"
	LevelCommon = "common"
)

// 奖项等级
const (
	PrizeGradeFirst       = "first_prize"
	PrizeGradeSecond      = "second_prize"
	PrizeGradeThird       = "third_prize"
	PrizeGradeLevelOne    = "level_one_agent"
	PrizeGradeLevelTwo    = "level_two_agent"
	PrizeGradeLevelCommon = "level_common_agent"
)

// BetRecord 投注记录; 金额以ETH计
type BetRecord struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	AccountAddress  string          `json:"account_address" gorm:"size:64;index"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(38,18)"`
	TransactionHash string          `json:"transaction_hash" gorm:"size:80;uniqueIndex"`
	BlockNumber     int64           `json:"block_number"`
	Status          string          `json:"status" gorm:"size:20"` // pending/confirmed/failed
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (BetRecord) TableName() string { return "bet_records" }

// Agent 代理人; superior_address 指向上级代理
type Agent struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	UserAddress     string    `json:"user_address" gorm:"size:64;uniqueIndex"`
	LevelAgent      string    `json:"level_agent" gorm:"size:20"` // not_agent/one/two/common
	SuperiorAddress *string   `json:"superior_address" gorm:"size:64"`
	IsFrozen        bool      `json:"is_frozen"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Agent) TableName() string { return "agents" }

// Commission 佣金流水, 只增不改
type Commission struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	UserAddress     string          `json:"user_address" gorm:"size:64;index"` // 收佣金的代理人
	FromAddress     string          `json:"from_address" gorm:"size:64"`       // 佣金来源用户
	Commission      decimal.Decimal `json:"commission" gorm:"type:decimal(38,18)"`
	TransactionHash string          `json:"transaction_hash" gorm:"size:80"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Commission) TableName() string { return "commissions" }

// PlatformFundsFlow 平台资金流水, 只增不改
type PlatformFundsFlow struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	UserAddress     string          `json:"user_address" gorm:"size:64;index"`
	FromAddress     string          `json:"from_address" gorm:"size:64"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(38,18)"`
	TransactionHash string          `json:"transaction_hash" gorm:"size:80"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (PlatformFundsFlow) TableName() string { return "platform_funds_flow" }

// PlatformPrizePool 奖金池流水; user_address 记合约账户, 汇总即当周奖金池
type PlatformPrizePool struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	UserAddress     string          `json:"user_address" gorm:"size:64;index"`
	FromAddress     string          `json:"from_address" gorm:"size:64"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(38,18)"`
	TransactionHash string          `json:"transaction_hash" gorm:"size:80"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (PlatformPrizePool) TableName() string { return "platform_prize_pool" }

// PlatformTransactionGas 链上转账gas开销, 以wei计
type PlatformTransactionGas struct {
	ID              int64           `json:"id" gorm:"primaryKey"`
	UserAddress     string          `json:"user_address" gorm:"size:64"`
	FromAddress     string          `json:"from_address" gorm:"size:64"`
	AmountWei       decimal.Decimal `json:"amount_wei" gorm:"type:decimal(38,0)"`
	TransactionHash string          `json:"transaction_hash" gorm:"size:80"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (PlatformTransactionGas) TableName() string { return "platform_transaction_gas" }

// LuckNumber 幸运号码, 每0.001ETH一张
type LuckNumber struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	UserAddress     string    `json:"user_address" gorm:"size:64;index"`
	LuckNumber      string    `json:"luck_number" gorm:"size:40"`
	TransactionHash string    `json:"transaction_hash" gorm:"size:80"`
	IsWinner        bool      `json:"is_winner"`
	PrizeGrade      *string   `json:"prize_grade" gorm:"size:30"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (LuckNumber) TableName() string { return "buy_luck_numbers" }

// LotteryDistributionDetail 每周开奖明细, 只增不改
type LotteryDistributionDetail struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	UserAddress string          `json:"user_address" gorm:"size:64;index"`
	LuckNumber  string          `json:"luck_number" gorm:"size:40"`
	PrizeAmount decimal.Decimal `json:"prize_amount" gorm:"type:decimal(38,18)"`
	PrizeGrade  string          `json:"prize_grade" gorm:"size:30"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (LotteryDistributionDetail) TableName() string { return "lottery_distribution_detail" }
