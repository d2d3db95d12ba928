package app

import (
	"os"
	"strconv"
	"sync"
)

// testModeEnv names the variable that keeps binaries from touching Postgres,
// Redis or the network.
const testModeEnv = "ECCLESIA_TEST_MODE"

var inTestMode = sync.OnceValue(func() bool {
	on, err := strconv.ParseBool(os.Getenv(testModeEnv))
	return err == nil && on
})

// InTestMode reports whether the application should skip runtime side effects.
// The variable is read once per process.
func InTestMode() bool {
	return inTestMode()
}
