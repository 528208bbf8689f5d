//go:build unit
// +build unit

package longpoll

import (
	"context"
	"testing"
	"time"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/pkg/testutil"
	natsserver "github.com/nats-io/nats-server/v2/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runNatsTestServer(t *testing.T) string {
	t.Helper()

	opts := natsserver.DefaultTestOptions
	opts.Port = -1
	srv := natsserver.RunServer(&opts)
	t.Cleanup(srv.Shutdown)

	return srv.ClientURL()
}

func TestNATSRelay_SharesEventsBetweenHubs(t *testing.T) {
	url := runNatsTestServer(t)
	log := testutil.SetupTestLogger(t)

	first := NewHub(objects.EventGroups, 10, log)
	second := NewHub(objects.EventGroups, 10, log)

	firstRelay, err := NewNATSRelay(url, "hole.test", first, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = firstRelay.Close() })

	secondRelay, err := NewNATSRelay(url, "hole.test", second, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = secondRelay.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, first.Publish(ctx, objects.EventObjectDeleted, "obj-1", map[string]string{"id": "obj-1"}))

	events, _, err := second.Poll(ctx, objects.EventObjectDeleted, "obj-1", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.JSONEq(t, `{"id":"obj-1"}`, string(events[0].Data))

	// the origin does not ingest its own event a second time
	time.Sleep(50 * time.Millisecond)
	local, _, err := first.Poll(ctx, objects.EventObjectDeleted, "", 0)
	require.NoError(t, err)
	assert.Len(t, local, 1)
}

func TestNewNATSRelay_ConnectionFailure(t *testing.T) {
	hub := NewHub(objects.EventGroups, 10, testutil.SetupTestLogger(t))

	_, err := NewNATSRelay("nats://127.0.0.1:1", "hole.test", hub, testutil.SetupTestLogger(t))
	assert.Error(t, err)
}
