package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  name: course-market
  http:
    port: 9000
log:
  level: debug
jwt:
  secret: s3cret
  access_token_ttl_min: 15
db:
  driver: postgres
  dsn: postgres://u:p@localhost:5432/app
reset:
  link_base: https://shop.example.com
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadE_FileAndDefaults(t *testing.T) {
	c, err := LoadE(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 9000, c.App.HTTP.Port)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "s3cret", c.JWT.Secret)
	assert.Equal(t, 15, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, "https://shop.example.com", c.Reset.LinkBase)

	// 未配置的键走默认值
	assert.Equal(t, 7, c.Reset.OTPLength)
	assert.True(t, c.Reset.VerifyToken)
	assert.Equal(t, "log", c.Mail.Driver)
	assert.Equal(t, 8001, c.App.Admin.Port)
}

func TestLoadE_EnvOverride(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_RESET_OTP_LENGTH", "9")

	c, err := LoadE(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, 9, c.Reset.OTPLength)
}

func TestLoadE_MissingFile(t *testing.T) {
	_, err := LoadE(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
