package config

import (
	"flag"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var confPath string

func init() {
	flag.StringVar(&confPath, "conf", "configs/", "default config path")
}

var (
	Server server
	MySql  mysql
	Chain  chain
	Game   game
)

// Server 配置
type server struct {
	Env  string `yaml:"env"`
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type mysql struct {
	Host         string `yaml:"host"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	Charset      string `yaml:"charset"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type chain struct {
	RPCEndpoints       []string `yaml:"rpc_endpoints"`
	ChainID            int64    `yaml:"chain_id"`
	OwnerAccount       string   `yaml:"owner_account"`
	OwnerPrivateKeyEnv string   `yaml:"owner_private_key_env"`
	GasLimit           uint64   `yaml:"gas_limit"`
	ReceiptTimeoutSec  int      `yaml:"receipt_timeout_sec"`
	PollIntervalSec    int      `yaml:"poll_interval_sec"`
}

// PrizeDistribution 周日开奖各奖项占比
type PrizeDistribution struct {
	UserPoolPercentage    float64 `yaml:"user_pool_percentage"`
	FirstPrizePercentage  float64 `yaml:"first_prize_percentage"`
	SecondPrizePercentage float64 `yaml:"second_prize_percentage"`
	ThirdPrizePercentage  float64 `yaml:"third_prize_percentage"`
	LevelOnePercentage    float64 `yaml:"level_one_percentage"`
	LevelTwoPercentage    float64 `yaml:"level_two_percentage"`
}

type game struct {
	PlatformAccount   string            `yaml:"platform_account"`
	PrizePoolAccount  string            `yaml:"prize_pool_account"`
	MinStake          string            `yaml:"min_stake"`
	Today             string            `yaml:"today"` // 测试环境覆盖今天是星期几
	RunJobsOnStart    bool              `yaml:"run_jobs_on_start"`
	PrizeDistribution PrizeDistribution `yaml:"prize_distribution"`
}

func Init() {
	unmarshalServer()
	unmarshalMysql()
	unmarshalChain()
	unmarshalGame()
}

func unmarshalServer() {
	viper.SetConfigName("server")
	viper.AddConfigPath(confPath)
	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {             // Handle errors reading the config file
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}

	err = viper.Unmarshal(&Server, func(config *mapstructure.DecoderConfig) {
		config.TagName = "yaml"
	})
	if err != nil {
		panic(fmt.Errorf("Fatal error unmarshal config file: %s \n", err))
	}
}

func unmarshalMysql() {
	viper.SetConfigName("mysql")
	viper.AddConfigPath(confPath)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}

	err = viper.Unmarshal(&MySql, func(config *mapstructure.DecoderConfig) {
		config.TagName = "yaml"
	})
	if err != nil {
		panic(fmt.Errorf("Fatal error unmarshal config file: %s \n", err))
	}
}

func unmarshalChain() {
	viper.SetConfigName("chain")
	viper.AddConfigPath(confPath)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}

	err = viper.Unmarshal(&Chain, func(config *mapstructure.DecoderConfig) {
		config.TagName = "yaml"
	})
	if err != nil {
		panic(fmt.Errorf("Fatal error unmarshal config file: %s \n", err))
	}
}

func unmarshalGame() {
	viper.SetConfigName("game")
	viper.AddConfigPath(confPath)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}

	err = viper.Unmarshal(&Game, func(config *mapstructure.DecoderConfig) {
		config.TagName = "yaml"
	})
	if err != nil {
		panic(fmt.Errorf("Fatal error unmarshal config file: %s \n", err))
	}
}
