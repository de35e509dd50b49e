package session

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/habitatshift/internal/models"
	"github.com/lox/habitatshift/internal/synth"
)

type countingGenerator struct {
	calls int
	gen   *synth.Generator
}

func (c *countingGenerator) Generate() *models.Table {
	c.calls++
	return c.gen.Generate()
}

func newCounting() *countingGenerator {
	return &countingGenerator{gen: synth.NewSeeded(synth.DefaultSeed)}
}

func TestMemoReturnsSameTable(t *testing.T) {
	gen := newCounting()
	memo := NewMemo(gen)

	first := memo.Table()
	second := memo.Table()

	assert.Same(t, first, second)
	assert.Equal(t, 1, gen.calls)
}

func TestRegeneratingMemoBuildsEachTime(t *testing.T) {
	gen := newCounting()
	memo := NewRegenerating(gen)

	first := memo.Table()
	second := memo.Table()

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, 2, gen.calls)
}

func TestStoreSessionsOwnTheirTables(t *testing.T) {
	st := NewStore(synth.NewSeeded(synth.DefaultSeed), Options{})

	a := st.Create()
	b := st.Create()
	require.NotEqual(t, a.ID, b.ID)

	assert.NotSame(t, a.Table(), b.Table())
	assert.Equal(t, a.Table().Rows, b.Table().Rows)
	assert.Same(t, a.Table(), a.Table())
	assert.Equal(t, 2, st.Len())
}

func TestStoreGetOrCreate(t *testing.T) {
	st := NewStore(synth.NewSeeded(synth.DefaultSeed), Options{})

	s, created := st.GetOrCreate("")
	assert.True(t, created)

	again, created := st.GetOrCreate(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	_, created = st.GetOrCreate("unknown")
	assert.True(t, created)
}

func TestStoreExpiresIdleSessions(t *testing.T) {
	clock := clockwork.NewFakeClock()
	st := NewStore(synth.NewSeeded(synth.DefaultSeed), Options{TTL: 10 * time.Minute, Clock: clock})

	s := st.Create()
	table := s.Table()

	clock.Advance(9 * time.Minute)
	got, ok := st.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, table, got.Table())

	// Get refreshed the idle timer.
	clock.Advance(9 * time.Minute)
	_, ok = st.Get(s.ID)
	require.True(t, ok)

	clock.Advance(11 * time.Minute)
	_, ok = st.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, st.Len())

	fresh, created := st.GetOrCreate(s.ID)
	assert.True(t, created)
	assert.NotSame(t, table, fresh.Table())
}

func TestStoreSweep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	st := NewStore(synth.NewSeeded(synth.DefaultSeed), Options{TTL: time.Minute, Clock: clock})

	st.Create()
	st.Create()
	clock.Advance(30 * time.Second)
	keep := st.Create()

	clock.Advance(45 * time.Second)
	assert.Equal(t, 2, st.Sweep())
	assert.Equal(t, 1, st.Len())

	_, ok := st.Get(keep.ID)
	assert.True(t, ok)
}

func TestStoreRunSweepsOnTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	st := NewStore(synth.NewSeeded(synth.DefaultSeed), Options{TTL: time.Minute, Clock: clock})
	st.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.Run(ctx, 30*time.Second)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(2 * time.Minute)

	assert.Eventually(t, func() bool { return st.Len() == 0 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done
}
