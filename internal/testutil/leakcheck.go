// Package testutil holds helpers shared by govis tests.
package testutil

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyNoLeaks fails t if goroutines started during the test are still
// running. Defer it first thing in tests that start workers or servers.
func VerifyNoLeaks(t *testing.T, opts ...goleak.Option) {
	t.Helper()
	goleak.VerifyNone(t, opts...)
}
