package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-course-market/internal/app"
	"go-course-market/internal/core/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动管理端 API（/admin/v1）",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, db, err := openDB()
		if err != nil {
			return err
		}
		defer rt.Close()
		cfg, l := rt.Cfg, rt.Log

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, l, db)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
		srv := server.BuildServer(addr, a.AdminEngine(), 5*time.Second, 10*time.Second, 60*time.Second)

		// 启动前打印可点击地址
		host4human := cfg.App.Admin.Host
		if host4human == "" || host4human == "0.0.0.0" {
			host4human = "127.0.0.1"
		}
		baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
		l.Info("admin api starting",
			zap.String("addr", addr),
			zap.String("open", baseURL),
			zap.String("health", baseURL+"/health"),
			zap.String("admin_v1", baseURL+"/admin/v1"),
		)
		return server.Run(ctx, srv, l)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
