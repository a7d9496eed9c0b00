package app

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-course-market/internal/core/config"
	"go-course-market/internal/core/logger"
)

// Runtime 进程级公共资源
type Runtime struct {
	Cfg   *config.Config
	Log   *zap.Logger
	Level zap.AtomicLevel
	close []func()
}

// Boot .env → 配置 → 日志；配置文件变更时热更新日志级别
func Boot(cfgPath string) (*Runtime, error) {
	_ = godotenv.Load()
	cfg, err := config.LoadE(cfgPath)
	if err != nil {
		return nil, err
	}
	log, level, cleanup := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	rt := &Runtime{Cfg: cfg, Log: log, Level: level}
	rt.close = append(rt.close, cleanup, logger.RedirectStdLog(log, zapcore.InfoLevel))

	err = config.Watch(cfgPath, func(c *config.Config, err error) {
		if err != nil {
			log.Warn("config reload failed", zap.Error(err))
			return
		}
		if err := logger.SetLevel(level, c.Log.Level); err != nil {
			log.Warn("invalid log level in config", zap.String("level", c.Log.Level))
			return
		}
		log.Info("config reloaded", zap.String("log_level", c.Log.Level))
	})
	if err != nil {
		log.Warn("config watch disabled", zap.Error(err))
	}
	return rt, nil
}

func (r *Runtime) Close() {
	for i := len(r.close) - 1; i >= 0; i-- {
		r.close[i]()
	}
}
