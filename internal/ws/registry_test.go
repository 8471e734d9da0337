// internal/ws/registry_test.go
package ws

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewRegistry(logger)
}

func drain(t *testing.T, c *Conn) map[string]interface{} {
	t.Helper()
	select {
	case data := <-c.OutChan:
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	default:
		t.Fatalf("no message queued for %s/%s", c.Lobby, c.Player)
		return nil
	}
}

func TestBroadcastReachesLobbyOnly(t *testing.T) {
	r := testRegistry()
	alice := r.Connect("lobby1", "alice", 4, nil)
	bob := r.Connect("lobby1", "bob", 4, nil)
	other := r.Connect("lobby2", "carol", 4, nil)

	r.Broadcast("lobby1", map[string]string{"type": "ping"}, "")

	assert.Equal(t, "ping", drain(t, alice)["type"])
	assert.Equal(t, "ping", drain(t, bob)["type"])
	assert.Empty(t, other.OutChan)
}

func TestBroadcastExcludesPlayer(t *testing.T) {
	r := testRegistry()
	alice := r.Connect("lobby1", "alice", 4, nil)
	bob := r.Connect("lobby1", "bob", 4, nil)

	r.Broadcast("lobby1", map[string]string{"type": "ping"}, "alice")

	assert.Empty(t, alice.OutChan)
	assert.Equal(t, "ping", drain(t, bob)["type"])
}

func TestUnicast(t *testing.T) {
	r := testRegistry()
	alice := r.Connect("lobby1", "alice", 4, nil)
	bob := r.Connect("lobby1", "bob", 4, nil)

	r.Unicast("lobby1", "bob", map[string]string{"type": "pong"})

	assert.Empty(t, alice.OutChan)
	assert.Equal(t, "pong", drain(t, bob)["type"])

	// Unknown targets are a no-op.
	r.Unicast("lobby1", "mallory", map[string]string{"type": "pong"})
	r.Unicast("nope", "alice", map[string]string{"type": "pong"})
}

func TestWriteDropsWhenBufferFull(t *testing.T) {
	r := testRegistry()
	alice := r.Connect("lobby1", "alice", 1, nil)

	alice.Write([]byte("first"))
	alice.Write([]byte("second"))

	assert.Equal(t, []byte("first"), <-alice.OutChan)
	assert.Empty(t, alice.OutChan)
}

func TestDisconnectPrunesEmptyLobby(t *testing.T) {
	r := testRegistry()
	alice := r.Connect("lobby1", "alice", 4, nil)
	bob := r.Connect("lobby1", "bob", 4, nil)
	require.Equal(t, 2, r.Count("lobby1"))

	assert.True(t, r.Disconnect("lobby1", "alice", alice))
	assert.Equal(t, 1, r.Count("lobby1"))

	assert.True(t, r.Disconnect("lobby1", "bob", bob))
	assert.Equal(t, 0, r.Count("lobby1"))

	// The closed channel no longer receives broadcasts.
	r.Broadcast("lobby1", map[string]string{"type": "ping"}, "")
	_, open := <-alice.OutChan
	assert.False(t, open)
}

func TestReconnectReplacesChannel(t *testing.T) {
	r := testRegistry()
	canceled := false
	old := r.Connect("lobby1", "alice", 4, func() { canceled = true })
	fresh := r.Connect("lobby1", "alice", 4, nil)

	assert.True(t, canceled, "replacing a connection cancels the old pump")
	_, open := <-old.OutChan
	assert.False(t, open)

	// A stale disconnect from the old connection must not evict the new one.
	assert.False(t, r.Disconnect("lobby1", "alice", old))
	assert.Equal(t, 1, r.Count("lobby1"))

	r.Broadcast("lobby1", map[string]string{"type": "ping"}, "")
	assert.Equal(t, "ping", drain(t, fresh)["type"])
}
