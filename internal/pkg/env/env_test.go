package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withEnv(t *testing.T, vals map[string]string) {
	t.Helper()
	prev := Env
	Env = vals
	t.Cleanup(func() { Env = prev })
}

func TestGetEnvPrecedence(t *testing.T) {
	withEnv(t, map[string]string{"YAYAHOOK_TEST_A": "from-file"})
	t.Setenv("YAYAHOOK_TEST_A", "from-os")
	t.Setenv("YAYAHOOK_TEST_B", "from-os")

	assert.Equal(t, "from-file", GetEnv("YAYAHOOK_TEST_A", "def"))
	assert.Equal(t, "from-os", GetEnv("YAYAHOOK_TEST_B", "def"))
	assert.Equal(t, "def", GetEnv("YAYAHOOK_TEST_C", "def"))
}

func TestGetDuration(t *testing.T) {
	withEnv(t, map[string]string{
		"SECS":  "300",
		"GO":    "5m",
		"WRONG": "soon",
	})

	assert.Equal(t, 300*time.Second, GetDuration("SECS", time.Second))
	assert.Equal(t, 5*time.Minute, GetDuration("GO", time.Second))
	assert.Equal(t, time.Second, GetDuration("WRONG", time.Second))
	assert.Equal(t, time.Hour, GetDuration("UNSET_YAYAHOOK", time.Hour))
}

func TestGetInt(t *testing.T) {
	withEnv(t, map[string]string{"N": "42", "BAD": "4x"})

	assert.Equal(t, 42, GetInt("N", 1))
	assert.Equal(t, 1, GetInt("BAD", 1))
	assert.Equal(t, 7, GetInt("UNSET_YAYAHOOK", 7))
}

func TestIsDev(t *testing.T) {
	withEnv(t, map[string]string{"APP_ENV": "dev"})
	assert.True(t, IsDev())

	withEnv(t, map[string]string{"APP_ENV": "prod"})
	assert.False(t, IsDev())
}
