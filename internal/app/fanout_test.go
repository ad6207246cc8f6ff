package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lcrespo/fishpond/internal/core"
)

type fakeConn struct {
	frames []core.Frame
	fail   bool
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	if c.fail {
		return errors.New("boom")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() { c.closed = true }

func TestFanoutPublishReachesAllSubscribers(t *testing.T) {
	t.Parallel()

	f := NewFanout()
	a, b := &fakeConn{}, &fakeConn{}
	f.Attach("POND", a, false)
	f.Attach("POND", b, false)
	f.Attach("OTHER", &fakeConn{}, false)

	sent := f.Publish("POND", core.Frame("hello"), nil)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []core.Frame{core.Frame("hello")}, a.frames)
	assert.Equal(t, []core.Frame{core.Frame("hello")}, b.frames)
}

func TestFanoutObserversGetObserverFrame(t *testing.T) {
	t.Parallel()

	f := NewFanout()
	player, obs := &fakeConn{}, &fakeConn{}
	f.Attach("POND", player, false)
	f.Attach("POND", obs, true)

	f.Publish("POND", core.Frame("player"), core.Frame("observer"))
	assert.Equal(t, []core.Frame{core.Frame("player")}, player.frames)
	assert.Equal(t, []core.Frame{core.Frame("observer")}, obs.frames)
}

func TestFanoutPrunesFailedConnections(t *testing.T) {
	t.Parallel()

	f := NewFanout()
	good, bad := &fakeConn{}, &fakeConn{fail: true}
	f.Attach("POND", good, false)
	f.Attach("POND", bad, false)

	sent := f.Publish("POND", core.Frame("one"), nil)
	assert.Equal(t, 1, sent)

	// the failed connection is gone, the good one keeps receiving
	sent = f.Publish("POND", core.Frame("two"), nil)
	assert.Equal(t, 1, sent)
	assert.Len(t, good.frames, 2)
}

func TestFanoutDetachIsIdempotent(t *testing.T) {
	t.Parallel()

	f := NewFanout()
	c := &fakeConn{}
	f.Attach("POND", c, false)
	f.Detach("POND", c)
	f.Detach("POND", c)

	assert.Equal(t, 0, f.Publish("POND", core.Frame("x"), nil))
}
