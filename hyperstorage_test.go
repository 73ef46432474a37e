package hyperstorage_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Khoeckman/HyperStorage"
	"github.com/Khoeckman/HyperStorage/internal/backend"
	"github.com/Khoeckman/HyperStorage/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fixtures ─────────────────────────────────────────────────────────────────

type Settings struct {
	Theme    string
	FontSize int
}

func newSettingsStore(t *testing.T, mem *backend.Memory) *hyperstorage.Store[Settings] {
	t.Helper()
	s, err := hyperstorage.New(context.Background(), "settings", Settings{Theme: "light"},
		hyperstorage.Options[Settings]{Backend: mem})
	require.NoError(t, err)
	return s
}

func mustEncode(t *testing.T, v any) string {
	t.Helper()
	raw, err := hyperstorage.TaggedCodec.Encode(v)
	require.NoError(t, err)
	return raw
}

// ── Construction ─────────────────────────────────────────────────────────────

func TestNew_EmptyKey(t *testing.T) {
	_, err := hyperstorage.New(context.Background(), "", 0,
		hyperstorage.Options[int]{Backend: hyperstorage.NewMemoryBackend()})
	assert.ErrorIs(t, err, hyperstorage.ErrInvalidKey)
}

func TestNew_NilBackend(t *testing.T) {
	_, err := hyperstorage.New(context.Background(), "counter", 0, hyperstorage.Options[int]{})
	assert.ErrorIs(t, err, hyperstorage.ErrNilBackend)
}

func TestNew_HalfSuppliedCodec(t *testing.T) {
	half := hyperstorage.NewFuncsCodec(nil, func(raw string, dest any) error { return nil })
	_, err := hyperstorage.New(context.Background(), "counter", 0, hyperstorage.Options[int]{
		Backend: hyperstorage.NewMemoryBackend(),
		Codec:   half,
	})
	assert.ErrorIs(t, err, hyperstorage.ErrInvalidCodec)
}

func TestNew_AbsenceSeedsDefault(t *testing.T) {
	ctx := context.Background()
	mem := hyperstorage.NewMemoryBackend()
	s := newSettingsStore(t, mem)

	assert.Equal(t, Settings{Theme: "light"}, s.Value())

	// The default has been persisted, not just cached.
	raw, ok, err := mem.Get(ctx, "settings")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, mustEncode(t, Settings{Theme: "light"}), raw)
}

func TestNew_DecodesExistingEntry(t *testing.T) {
	ctx := context.Background()
	mem := hyperstorage.NewMemoryBackend()
	require.NoError(t, mem.Set(ctx, "settings", mustEncode(t, Settings{Theme: "dark", FontSize: 14})))

	s := newSettingsStore(t, mem)
	assert.Equal(t, Settings{Theme: "dark", FontSize: 14}, s.Value())
}

// ── Read / write coherence ───────────────────────────────────────────────────

func TestStore_WriteCoherence(t *testing.T) {
	ctx := context.Background()
	mem := hyperstorage.NewMemoryBackend()
	s := newSettingsStore(t, mem)

	want := Settings{Theme: "solarized", FontSize: 12}
	got, err := s.Set(ctx, want)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, want, s.Value())

	// A fresh store over the same backend and key decodes the same value.
	fresh := newSettingsStore(t, mem)
	assert.Equal(t, want, fresh.Value())
}

func TestStore_ReadIsCacheOnly(t *testing.T) {
	ctx := context.Background()
	mem := hyperstorage.NewMemoryBackend()
	s := newSettingsStore(t, mem)

	// Out-of-band mutation: the cache must not see it until Sync.
	require.NoError(t, mem.Set(ctx, "settings", mustEncode(t, Settings{Theme: "dark"})))
	assert.Equal(t, Settings{Theme: "light"}, s.Value())

	res, err := s.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, hyperstorage.SyncDecoded, res.Status)
	assert.Equal(t, Settings{Theme: "dark"}, s.Value())
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	s := newSettingsStore(t, hyperstorage.NewMemoryBackend())

	got, err := s.Update(ctx, func(cur Settings) Settings {
		cur.FontSize = 16
		return cur
	})
	require.NoError(t, err)
	assert.Equal(t, Settings{Theme: "light", FontSize: 16}, got)
	assert.Equal(t, got, s.Value())
}

func TestStore_Update_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	s := newSettingsStore(t, hyperstorage.NewMemoryBackend())

	// The updater runs under the store's write lock, so concurrent
	// read-modify-write cycles must never lose an increment.
	const writers = 32
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, func(cur Settings) Settings {
				cur.FontSize++
				return cur
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, writers, s.Value().FontSize)
}

func TestStore_Update_NilUpdater(t *testing.T) {
	s := newSettingsStore(t, hyperstorage.NewMemoryBackend())
	_, err := s.Update(context.Background(), nil)
	assert.ErrorIs(t, err, hyperstorage.ErrInvalidUpdater)
}

func TestStore_Reset_Idempotent(t *testing.T) {
	ctx := context.Background()
	mem := hyperstorage.NewMemoryBackend()
	s := newSettingsStore(t, mem)

	_, err := s.Set(ctx, Settings{Theme: "dark"})
	require.NoError(t, err)

	first, err := s.Reset(ctx)
	require.NoError(t, err)
	rawFirst, _, err := mem.Get(ctx, "settings")
	require.NoError(t, err)

	second, err := s.Reset(ctx)
	require.NoError(t, err)
	rawSecond, _, err := mem.Get(ctx, "settings")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, rawFirst, rawSecond)
	assert.Equal(t, Settings{Theme: "light"}, s.Value())
}

func TestStore_EncodeFailure_LeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	mem := hyperstorage.NewMemoryBackend()
	boom := hyperstorage.NewFuncsCodec(
		func(v any) (string, error) {
			if v.(string) == "boom" {
				return "", errors.New("not serializable")
			}
			return v.(string), nil
		},
		func(raw string, dest any) error {
			*dest.(*string) = raw
			return nil
		},
	)
	s, err := hyperstorage.New(ctx, "note", "hello", hyperstorage.Options[string]{
		Backend: mem,
		Codec:   boom,
	})
	require.NoError(t, err)

	got, err := s.Set(ctx, "boom")
	require.ErrorIs(t, err, hyperstorage.ErrEncodeFailed)
	assert.Equal(t, "hello", got)
	assert.Equal(t, "hello", s.Value())

	raw, ok, err := mem.Get(ctx, "note")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hello", raw)
}

// ── IsDefault ────────────────────────────────────────────────────────────────

func TestIsDefault_Primitive(t *testing.T) {
	ctx := context.Background()
	s, err := hyperstorage.New(ctx, "counter", 10,
		hyperstorage.Options[int]{Backend: hyperstorage.NewMemoryBackend()})
	require.NoError(t, err)

	assert.True(t, s.IsDefault())
	_, err = s.Set(ctx, 11)
	require.NoError(t, err)
	assert.False(t, s.IsDefault())
	_, err = s.Set(ctx, 10)
	require.NoError(t, err)
	assert.True(t, s.IsDefault())
}

func TestIsDefault_PointerIdentity(t *testing.T) {
	ctx := context.Background()
	def := &Settings{Theme: "light"}
	s, err := hyperstorage.New(ctx, "settings", def,
		hyperstorage.Options[*Settings]{Backend: hyperstorage.NewMemoryBackend()})
	require.NoError(t, err)

	// Construction resets to the default instance itself.
	assert.True(t, s.IsDefault())

	// Structurally equal but a distinct instance: not default.
	_, err = s.Set(ctx, &Settings{Theme: "light"})
	require.NoError(t, err)
	assert.False(t, s.IsDefault())

	_, err = s.Set(ctx, def)
	require.NoError(t, err)
	assert.True(t, s.IsDefault())
}

func TestIsDefault_MapIdentity(t *testing.T) {
	ctx := context.Background()
	def := map[string]int{"a": 1}
	s, err := hyperstorage.New(ctx, "scores", def,
		hyperstorage.Options[map[string]int]{Backend: hyperstorage.NewMemoryBackend()})
	require.NoError(t, err)

	assert.True(t, s.IsDefault())
	_, err = s.Set(ctx, map[string]int{"a": 1})
	require.NoError(t, err)
	assert.False(t, s.IsDefault())
}

// ── Scenario: settings/theme round trip ──────────────────────────────────────

func TestStore_SettingsScenario(t *testing.T) {
	ctx := context.Background()
	mem := hyperstorage.NewMemoryBackend()

	s, err := hyperstorage.New(ctx, "settings", Settings{Theme: "light"},
		hyperstorage.Options[Settings]{Backend: mem})
	require.NoError(t, err)
	assert.Equal(t, Settings{Theme: "light"}, s.Value())

	got, err := s.SetField(ctx, "Theme", "dark")
	require.NoError(t, err)
	assert.Equal(t, Settings{Theme: "dark"}, got)

	fresh, err := hyperstorage.New(ctx, "settings", Settings{Theme: "light"},
		hyperstorage.Options[Settings]{Backend: mem})
	require.NoError(t, err)
	assert.Equal(t, Settings{Theme: "dark"}, fresh.Value())

	got, err = s.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, Settings{Theme: "light"}, got)

	res, err := fresh.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, hyperstorage.SyncDecoded, res.Status)
	assert.Equal(t, Settings{Theme: "light"}, res.Value)
}

// ── Introspection ────────────────────────────────────────────────────────────

func TestStore_KeyAndBackend(t *testing.T) {
	mem := hyperstorage.NewMemoryBackend()
	s := newSettingsStore(t, mem)
	assert.Equal(t, "settings", s.Key())
	assert.Equal(t, hyperstorage.Backend(mem), s.Backend())
}

func TestStore_Stats(t *testing.T) {
	ctx := context.Background()
	s := newSettingsStore(t, hyperstorage.NewMemoryBackend())

	_ = s.Value()
	_, err := s.Set(ctx, Settings{Theme: "dark"})
	require.NoError(t, err)
	_, err = s.Sync(ctx)
	require.NoError(t, err)

	st := s.Stats()
	assert.GreaterOrEqual(t, st.Reads, int64(1))
	// Constructor sync writes the default; Set writes once more.
	assert.GreaterOrEqual(t, st.Writes, int64(2))
	assert.GreaterOrEqual(t, st.Syncs, int64(2))
}

func TestStore_LastSync(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s, err := hyperstorage.New(ctx, "settings", Settings{Theme: "light"},
		hyperstorage.Options[Settings]{
			Backend: hyperstorage.NewMemoryBackend(),
			Clock:   clk,
		})
	require.NoError(t, err)
	assert.Equal(t, clk.Now(), s.LastSync())

	clk.Advance(time.Minute)
	_, err = s.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, clk.Now(), s.LastSync())
}

// ── Benchmarks ───────────────────────────────────────────────────────────────

func BenchmarkStore_Value(b *testing.B) {
	s, _ := hyperstorage.New(context.Background(), "settings", Settings{Theme: "light"},
		hyperstorage.Options[Settings]{Backend: hyperstorage.NewMemoryBackend()})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Value()
	}
}

func BenchmarkStore_Set(b *testing.B) {
	ctx := context.Background()
	s, _ := hyperstorage.New(ctx, "settings", Settings{Theme: "light"},
		hyperstorage.Options[Settings]{Backend: hyperstorage.NewMemoryBackend()})
	v := Settings{Theme: "dark", FontSize: 14}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Set(ctx, v)
	}
}
