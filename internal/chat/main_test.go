package chat

import (
	"testing"

	"go.uber.org/goleak"
)

// The poller owns background goroutines; every test must tear them down.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
