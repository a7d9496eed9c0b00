package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-course-market/internal/app"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "course-market 后台：管理端 API 与运维命令",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", os.Getenv("CONFIG_PATH"), "配置文件路径")
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB 各子命令共用：启动 runtime 并连库
func openDB() (*app.Runtime, *gorm.DB, error) {
	rt, err := app.Boot(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := app.OpenDB(rt.Cfg, rt.Log)
	if err != nil {
		rt.Close()
		return nil, nil, err
	}
	rt.Log.Info("database connected", zap.String("driver", rt.Cfg.DB.Driver))
	return rt, db, nil
}
