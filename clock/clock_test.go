package clock

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"

	"github.com/hexaflex/c8/arch"
	"github.com/hexaflex/c8/vm"
)

// events records the order of scheduler calls.
type events struct {
	log     []byte
	word    uint16
	waiting bool
	err     error
}

func (e *events) Step() (arch.Instruction, error) {
	if e.err != nil {
		return arch.Instruction{}, e.err
	}
	e.log = append(e.log, 'c')
	if e.waiting {
		return arch.Instruction{}, nil
	}
	return arch.Decode(e.word), nil
}

func (e *events) Tick() {
	e.log = append(e.log, 't')
}

func (e *events) SetKey(int, bool) {}

func (e *events) count(c byte) int {
	var n int
	for _, v := range e.log {
		if v == c {
			n++
		}
	}
	return n
}

func TestConfig(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, Config{CPUHz: MaxCPUHz, Timing: VIPTiming}.Validate())
	assert.Error(t, Config{CPUHz: -1}.Validate())
	assert.Error(t, Config{CPUHz: MaxCPUHz + 1}.Validate())
	assert.Error(t, Config{Timing: 7}.Validate())

	_, err := New(&events{}, Config{CPUHz: -5})
	assert.Error(t, err)

	timing, err := ParseTiming("VIP")
	assert.NoError(t, err)
	assert.Equal(t, VIPTiming, timing)

	_, err = ParseTiming("turbo")
	assert.Error(t, err)
}

func TestFixedRate(t *testing.T) {
	e := &events{word: 0x6000}
	s, err := New(e, Config{CPUHz: 600})
	assert.NoError(t, err)

	r, err := s.Step(time.Second)
	assert.NoError(t, err)
	assert.Equal(t, 600, r.Cycles)
	assert.Equal(t, 60, r.Ticks)
	assert.True(t, r.Refresh)
	assert.Equal(t, uint64(600), s.Cycles())
	assert.Equal(t, uint64(60), s.Ticks())

	// Ten cycles per tick, interleaved in time order.
	assert.Equal(t, "cccccccccct", string(e.log[:11]))
}

func TestSmallSteps(t *testing.T) {
	e := &events{word: 0x6000}
	s, err := New(e, Config{CPUHz: 1000})
	assert.NoError(t, err)

	var refresh int
	for i := 0; i < 1000; i++ {
		r, err := s.Step(time.Millisecond)
		assert.NoError(t, err)
		if r.Refresh {
			refresh++
		}
	}

	assert.Equal(t, 1000, e.count('c'))
	assert.True(t, e.count('t') >= 59 && e.count('t') <= 60)
	assert.Equal(t, e.count('t'), refresh)

	r, err := s.Step(0)
	assert.NoError(t, err)
	assert.False(t, r.Refresh)
}

func TestWaitingStillTicks(t *testing.T) {
	e := &events{waiting: true}
	s, err := New(e, Config{CPUHz: 500})
	assert.NoError(t, err)

	r, err := s.Step(time.Second)
	assert.NoError(t, err)
	assert.Equal(t, 0, r.Cycles)
	assert.Equal(t, 60, r.Ticks)
	assert.Equal(t, 500, e.count('c'))
}

func TestVIPTiming(t *testing.T) {
	// LD V0, $00 takes 27us.
	e := &events{word: 0x6000}
	s, err := New(e, Config{Timing: VIPTiming})
	assert.NoError(t, err)

	r, err := s.Step(27 * time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, 1000, r.Cycles)
	assert.Equal(t, 1, r.Ticks)

	// DRW takes much longer.
	e = &events{word: 0xd001}
	s, err = New(e, Config{Timing: VIPTiming})
	assert.NoError(t, err)

	r, err = s.Step(time.Second)
	assert.NoError(t, err)
	assert.True(t, r.Cycles >= 43 && r.Cycles <= 44)
}

func TestStepError(t *testing.T) {
	e := &events{err: vm.ErrUnknownOpcode}
	s, err := New(e, Config{})
	assert.NoError(t, err)

	r, err := s.Step(time.Second)
	assert.True(t, errors.Is(err, vm.ErrUnknownOpcode))
	assert.Equal(t, 0, r.Cycles)
}

func TestTimerInvariant(t *testing.T) {
	//   LD V0, $0A
	//   LD DT, V0
	//   JP $204
	program := []byte{0x60, 0x0a, 0xf0, 0x15, 0x12, 0x04}

	configs := []Config{
		{CPUHz: 60},
		{CPUHz: 500},
		{CPUHz: 700},
		{CPUHz: 1000},
		{CPUHz: 20000},
		{Timing: VIPTiming},
	}

	for _, cfg := range configs {
		t.Run(fmt.Sprintf("%s/%d", cfg.Timing, cfg.CPUHz), func(t *testing.T) {
			m := vm.New(vm.Config{Seed: 1})
			assert.NoError(t, m.Load(program))

			s, err := New(m, cfg)
			assert.NoError(t, err)

			const step = time.Millisecond
			var now, start time.Duration
			started := false

			for now < 2*time.Second {
				_, err := s.Step(step)
				assert.NoError(t, err)
				now += step

				if !started && m.DelayTimer() > 0 {
					started = true
					start = now
				}
				if started && m.DelayTimer() == 0 {
					break
				}
			}

			assert.True(t, started)
			assert.Equal(t, byte(0), m.DelayTimer())

			took := now - start
			want := 10 * TickPeriod
			if took < want-TickPeriod-step || took > want+TickPeriod+step {
				t.Fatalf("delay timer took %v; want %v +/- one tick", took, want)
			}
		})
	}
}

func TestRun(t *testing.T) {
	e := &events{word: 0x6000}
	s, err := New(e, Config{CPUHz: 1000})
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var frames int
	err = s.Run(ctx, func(Report) { frames++ })
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, frames > 0)

	var cycles int
	s.Do(func() { cycles = e.count('c') })
	assert.True(t, cycles > 0)
}

func TestRunError(t *testing.T) {
	s, err := New(&events{err: vm.ErrStackOverflow}, Config{})
	assert.NoError(t, err)

	err = s.Run(context.Background(), nil)
	assert.True(t, errors.Is(err, vm.ErrStackOverflow))
}
