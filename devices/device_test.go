package devices

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type testDevice struct {
	id      ID
	fail    bool
	started bool
	updates int
	keys    KeyFunc
}

func (d *testDevice) ID() ID { return d.id }

func (d *testDevice) Startup(f KeyFunc) error {
	if d.fail {
		return errors.New("no such device")
	}
	d.started = true
	d.keys = f
	return nil
}

func (d *testDevice) Shutdown() error {
	d.started = false
	return nil
}

func (d *testDevice) Update(*State) { d.updates++ }

func quietLogger() *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ErrorLevel
	return log.NewWithConfig(cfg)
}

func TestMap(t *testing.T) {
	a := &testDevice{id: NewID(Vendor, 1)}
	b := &testDevice{id: NewID(Vendor, 2)}

	var dm Map
	assert.True(t, dm.Connect(a))
	assert.True(t, dm.Connect(b))
	assert.False(t, dm.Connect(&testDevice{id: NewID(Vendor, 1)}))
	assert.Equal(t, 1, dm.Find(b.ID()))
	assert.Equal(t, -1, dm.Find(NewID(Vendor, 3)))

	var pressed []int
	assert.NoError(t, dm.Startup(quietLogger(), func(key int, down bool) {
		if down {
			pressed = append(pressed, key)
		}
	}))
	assert.True(t, a.started)

	b.keys(0xa, true)
	assert.Equal(t, 1, len(pressed))
	assert.Equal(t, 0xa, pressed[0])

	dm.Update(&State{})
	assert.Equal(t, 1, a.updates)
	assert.Equal(t, 1, b.updates)

	assert.NoError(t, dm.Shutdown(quietLogger()))
	assert.False(t, b.started)
}

func TestStartupErrors(t *testing.T) {
	dm := Map{
		&testDevice{id: NewID(Vendor, 1), fail: true},
		&testDevice{id: NewID(Vendor, 2)},
		&testDevice{id: NewID(Vendor, 3), fail: true},
	}

	err := dm.Startup(quietLogger(), nil)
	assert.Error(t, err)

	var set ErrorSet
	assert.True(t, errors.As(err, &set))
	assert.Equal(t, 2, set.Len())
	assert.True(t, strings.HasPrefix(err.Error(), "00c8:0001: no such device"))
}

func TestID(t *testing.T) {
	id := NewID(0x12345, 0xbeef)
	assert.Equal(t, 0x2345, id.Manufacturer())
	assert.Equal(t, 0xbeef, id.Serial())
	assert.Equal(t, "2345:beef", id.String())
}

func TestStateTone(t *testing.T) {
	s := State{Sound: 3}
	assert.False(t, s.Tone())
	s.Running = true
	assert.True(t, s.Tone())
}
