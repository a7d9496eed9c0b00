package database

import (
	"errors"
	"net/url"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
)

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
}

var ErrUnsupportedDriver = errors.New("database: unsupported driver")

func NewGorm(o Opts, l *zap.Logger) (*gorm.DB, error) {
	if l == nil {
		l = zap.NewNop()
	}
	var dial gorm.Dialector
	switch o.Driver {
	case "postgres":
		dial = postgres.Open(o.DSN)
	case "mysql":
		dsn, err := normalizeMySQLDSN(o.DSN, o.Username, o.Password)
		if err != nil {
			return nil, err
		}
		l.Info("[db] final mysql dsn", zap.String("dsn", maskDSN(dsn)))
		dial = mysql.Open(dsn)
	case "sqlite":
		dial = sqlite.Open(o.DSN)
	default:
		return nil, ErrUnsupportedDriver
	}
	lvl := logger.Warn
	switch o.LogLevel {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         logger.Default.LogMode(lvl),
		TranslateError: true, // 唯一键冲突 → gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.Driver == "sqlite" {
		// sqlite 单写者
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
		sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	db = db.
		Session(&gorm.Session{
			PrepareStmt:            true, // 预编译缓存，提高 QPS
			CreateBatchSize:        200,  // 批量写
			SkipDefaultTransaction: true, // 只在需要时手动开 Tx
		})
	return db, nil
}

func maskDSN(dsn string) string {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil || cfg.Passwd == "" {
		return dsn
	}
	cfg.Passwd = "****"
	return cfg.FormatDSN()
}

// normalizeMySQLDSN 兼容 mysql:// 与 jdbc:mysql:// URL，统一转成 go-sql-driver 的 DSN
func normalizeMySQLDSN(input, userOverride, passOverride string) (string, error) {
	in := strings.TrimSpace(input)
	if in == "" {
		return in, nil
	}

	// jdbc:mysql://... → mysql://...
	in = strings.TrimPrefix(in, "jdbc:")

	// 已是 go-sql-driver 的 DSN（user:pass@tcp(...)）：仅在有覆盖时改写
	if !strings.HasPrefix(in, "mysql://") {
		if userOverride == "" && passOverride == "" {
			return in, nil
		}
		cfg, err := gomysql.ParseDSN(in)
		if err != nil {
			return "", err
		}
		if userOverride != "" {
			cfg.User = userOverride
		}
		if passOverride != "" {
			cfg.Passwd = passOverride
		}
		return cfg.FormatDSN(), nil
	}

	u, err := url.Parse(in)
	if err != nil {
		return "", err
	}

	cfg := gomysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}

	q := u.Query()
	if v := q.Get("user"); v != "" {
		cfg.User = v
	}
	if v := q.Get("password"); v != "" {
		cfg.Passwd = v
	}
	if userOverride != "" {
		cfg.User = userOverride
	}
	if passOverride != "" {
		cfg.Passwd = passOverride
	}

	params := map[string]string{}
	charset := q.Get("charset")
	if charset == "" {
		charset = q.Get("characterEncoding")
	}
	if charset == "" {
		charset = "utf8mb4"
	}
	params["charset"] = charset

	// useSSL → tls
	switch strings.ToLower(q.Get("useSSL")) {
	case "true", "1":
		cfg.TLSConfig = "true"
	case "skip-verify":
		cfg.TLSConfig = "skip-verify"
	case "preferred":
		cfg.TLSConfig = "preferred"
	}

	// serverTimezone → loc，无法识别的时区保持 UTC
	if tz := q.Get("serverTimezone"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			cfg.Loc = loc
		}
	}
	if v := q.Get("parseTime"); v == "false" {
		cfg.ParseTime = false
	}

	// JDBC 专用参数直接丢弃，其余原样透传
	skip := map[string]bool{
		"user": true, "password": true, "charset": true, "characterEncoding": true,
		"useUnicode": true, "zeroDateTimeBehavior": true, "useSSL": true,
		"serverTimezone": true, "parseTime": true,
	}
	for k := range q {
		if !skip[k] {
			params[k] = q.Get(k)
		}
	}
	cfg.Params = params
	return cfg.FormatDSN(), nil
}
