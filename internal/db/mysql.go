package db

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"server-luck-app/config"
)

var (
	Cli *gorm.DB
)

func Init() {
	connMysql()
}

func connMysql() {
	var err error
	mysqlCfg := config.MySql
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=true&loc=Local", mysqlCfg.User, mysqlCfg.Password,
		mysqlCfg.Host, mysqlCfg.Database, mysqlCfg.Charset)
	Cli, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Error("Connect mysql error: ", err, " Connect dsn: ", dsn)
		panic(err)
	}

	sqlDB, err := Cli.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxIdleConns(mysqlCfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(mysqlCfg.MaxOpenConns)
	log.Infof("conn mysql %s success", mysqlCfg.Host)
}
