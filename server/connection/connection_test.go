package connection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(id string, buffer int) *Client {
	return &Client{ID: id, Send: make(chan []byte, buffer)}
}

func TestManager_BindPlayer(t *testing.T) {
	m := NewManager()
	c := newClient("c1", 1)
	m.Register(c)

	assert.False(t, m.BindPlayer("unknown", "alice"))
	assert.True(t, m.BindPlayer("c1", "alice"))
	assert.True(t, m.BindPlayer("c1", "alice"), "binding the same player again is fine")
	assert.False(t, m.BindPlayer("c1", "bob"))
	assert.Equal(t, "alice", m.PlayerOf("c1"))

	assert.True(t, m.SendToPlayer("alice", []byte("hi")))
	assert.False(t, m.SendToPlayer("bob", []byte("hi")))
	assert.Equal(t, []byte("hi"), <-c.Send)
}

func TestManager_TableSubscriptions(t *testing.T) {
	m := NewManager()
	a, b := newClient("a", 4), newClient("b", 4)
	m.Register(a)
	m.Register(b)

	require.True(t, m.Subscribe("a", "t1"))
	require.True(t, m.Subscribe("b", "t1"))
	require.True(t, m.Subscribe("b", "t2"))
	assert.False(t, m.Subscribe("ghost", "t1"))

	assert.Equal(t, 2, m.SendToTable("t1", []byte("x")))
	assert.Equal(t, 1, m.SendToTable("t2", []byte("y")))
	assert.Equal(t, 0, m.SendToTable("t3", []byte("z")))

	m.Unsubscribe("b", "t1")
	assert.False(t, m.Subscribed("b", "t1"))
	assert.True(t, m.Subscribed("b", "t2"))
	assert.Equal(t, 1, m.SendToTable("t1", []byte("x")))
}

func TestManager_SlowClientMissesMessages(t *testing.T) {
	m := NewManager()
	c := newClient("c", 1)
	m.Register(c)

	assert.True(t, m.SendToClient("c", []byte("1")))
	assert.False(t, m.SendToClient("c", []byte("2")))
	assert.Equal(t, []byte("1"), <-c.Send)
}

func TestManager_Disconnect(t *testing.T) {
	m := NewManager()
	go m.Start()
	defer m.Stop()

	c := newClient("c", 1)
	m.Register(c)
	m.BindPlayer("c", "alice")
	m.Subscribe("c", "t1")

	m.Disconnect(c)
	_, open := <-c.Send
	assert.False(t, open, "send channel is closed on removal")
	assert.Empty(t, m.PlayerOf("c"))
	assert.False(t, m.Subscribed("c", "t1"))
	assert.False(t, m.SendToPlayer("alice", []byte("x")))
}
