package hooks

import (
	"strings"
	"testing"

	"github.com/sparkfmt/sparkfmt/internal/config"
	"github.com/sparkfmt/sparkfmt/internal/formatter"
	"github.com/sparkfmt/sparkfmt/internal/testutil"
	"github.com/sparkfmt/sparkfmt/pkg/sqlfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_SubscribeDispatchUnsubscribe(t *testing.T) {
	bus := NewBus(testutil.NewTestLogger(t))
	tok := bus.Subscribe(func(cell string) (string, bool) {
		return strings.ToUpper(cell), true
	})
	require.Equal(t, 1, bus.Len())

	out, changed := bus.Dispatch("select 1")
	assert.True(t, changed)
	assert.Equal(t, "SELECT 1", out)

	bus.Unsubscribe(tok)
	assert.Equal(t, 0, bus.Len())

	out, changed = bus.Dispatch("select 1")
	assert.False(t, changed)
	assert.Equal(t, "select 1", out)
}

func TestBus_HandlersChainInOrder(t *testing.T) {
	bus := NewBus(nil)
	bus.Subscribe(func(cell string) (string, bool) { return cell + "a", true })
	bus.Subscribe(func(cell string) (string, bool) { return cell + "b", true })

	out, changed := bus.Dispatch("x")
	assert.True(t, changed)
	assert.Equal(t, "xab", out)
}

func TestBus_UnchangedHandlerDoesNotFlagChange(t *testing.T) {
	bus := NewBus(nil)
	bus.Subscribe(func(cell string) (string, bool) { return cell, false })

	out, changed := bus.Dispatch("x = 1")
	assert.False(t, changed)
	assert.Equal(t, "x = 1", out)
}

func TestBus_PanickingHandlerIsSkipped(t *testing.T) {
	bus := NewBus(testutil.NewTestLogger(t))
	bus.Subscribe(func(string) (string, bool) { panic("boom") })
	bus.Subscribe(func(cell string) (string, bool) { return cell + "!", true })

	out, changed := bus.Dispatch("ok")
	assert.True(t, changed)
	assert.Equal(t, "ok!", out)
}

func TestBus_UnsubscribeUnknownToken(t *testing.T) {
	bus := NewBus(nil)
	bus.Subscribe(func(cell string) (string, bool) { return cell, false })

	bus.Unsubscribe(Token(99))
	assert.Equal(t, 1, bus.Len())
}

func TestBus_DispatchesFormattingPipeline(t *testing.T) {
	p, err := formatter.New(config.Default(), sqlfmt.New(),
		formatter.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)

	bus := NewBus(testutil.NewTestLogger(t))
	bus.Subscribe(p.FormatCell)

	out, changed := bus.Dispatch(`spark.sql("select 1")`)
	assert.True(t, changed)
	assert.Equal(t, "spark.sql(\"SELECT\n  1\")", out)
}
