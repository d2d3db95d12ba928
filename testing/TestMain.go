// Package testing puts the process into test mode when imported, so packages that
// build routers or binaries never reach real infrastructure.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

// testEnv is applied once per process. An empty value unsets the variable so a
// developer's .env cannot leak into tests.
var testEnv = map[string]string{
	"ECCLESIA_TEST_MODE": "1",
	"CATALOG_PATH":       "",
	"LOG_LEVEL":          "",
}

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		for key, value := range testEnv {
			if value == "" {
				_ = os.Unsetenv(key)
				continue
			}
			_ = os.Setenv(key, value)
		}
		if os.Getenv("REDIS_ADDR") == "" {
			_ = os.Setenv("REDIS_ADDR", "127.0.0.1:0")
		}
	})
}

func init() {
	ensureTestMode()
}

// TestMain runs m in test mode.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
