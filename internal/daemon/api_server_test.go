package daemon_test

import (
	"testing"

	"searchtube/internal/api"
	"searchtube/internal/daemon"
)

// newTestClient builds an api.Client pointed at the daemon's bound address.
func newTestClient(t *testing.T, d *daemon.Daemon) *api.Client {
	t.Helper()
	addr := d.APIAddr()
	if addr == "" {
		t.Fatal("daemon api not bound")
	}
	return api.NewClient(addr)
}
