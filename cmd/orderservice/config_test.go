package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("ORDERSERVICE_DB_HOST", "db:3306")
	t.Setenv("ORDERSERVICE_REQUEST_TIMEOUT", "3s")

	c, err := parseEnv()

	require.NoError(t, err)
	assert.Equal(t, "db:3306", c.DBHost)
	assert.Equal(t, 3*time.Second, c.RequestTimeout)
	assert.Equal(t, ":8080", c.ServeRESTAddress)
	assert.Equal(t, 10, c.DBMaxConn)
}

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, initLogger(&config{LogLevel: "loud"}))
	assert.NoError(t, initLogger(&config{LogLevel: "debug"}))
}
