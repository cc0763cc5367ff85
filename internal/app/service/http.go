package service

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"server-luck-app/config"
	"server-luck-app/internal/app/bet"
)

var srv *http.Server

func RunHttp() {
	r := gin.Default()
	pprof.Register(r)

	betGroup := r.Group("/bet")
	betGroup.POST("/place", bet.Place)
	betGroup.GET("/list", bet.List)

	srv = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
		Handler: r,
	}

	log.Infof("Start to listen %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("listen: %s\n", err)
	}
}

func GetHttp() *http.Server {
	return srv
}
