package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/client/storage"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	s, err := storage.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type brokenStore struct{ err error }

func (b brokenStore) Get(context.Context, string) (string, bool, error) { return "", false, b.err }
func (b brokenStore) Set(context.Context, string, string) error         { return b.err }
func (b brokenStore) Remove(context.Context, string) error              { return b.err }

func TestSave_PersistsSeconds(t *testing.T) {
	store := newSQLiteStore(t)
	c := NewCodec(store)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, true, UnitHours, 2))

	raw, ok, err := store.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"enabled":true,"amount":7200}`, raw)
}

func TestSave_Overwrites(t *testing.T) {
	c := NewCodec(newSQLiteStore(t))
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, true, UnitDays, 1))
	require.NoError(t, c.Save(ctx, false, UnitMinutes, 5))

	s, err := c.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, &OffsetSettings{Enabled: false, Amount: 300}, s)
}

func TestSave_UnknownUnitStoresZero(t *testing.T) {
	c := NewCodec(newSQLiteStore(t))
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, true, Unit("weeks"), 2))

	s, err := c.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, &OffsetSettings{Enabled: true, Amount: 0}, s)
}

func TestSave_RoundsToWholeSeconds(t *testing.T) {
	tests := []struct {
		unit   Unit
		amount float64
		want   string
	}{
		{UnitMinutes, 0.001, `{"enabled":true,"amount":0}`},
		{UnitMinutes, 0.5, `{"enabled":true,"amount":30}`},
		{UnitMinutes, 1.0 / 3, `{"enabled":true,"amount":20}`},
		{UnitHours, 1.5, `{"enabled":true,"amount":5400}`},
		{UnitDays, 0.00001, `{"enabled":true,"amount":1}`},
	}

	for _, tt := range tests {
		store := newSQLiteStore(t)
		ctx := context.Background()

		require.NoError(t, NewCodec(store).Save(ctx, true, tt.unit, tt.amount))

		raw, ok, err := store.Get(ctx, StorageKey)
		require.NoError(t, err)
		require.True(t, ok)
		require.JSONEq(t, tt.want, raw, "%v %s", tt.amount, tt.unit)
	}
}

func TestSave_StrictAcceptsKnownUnits(t *testing.T) {
	c := NewCodec(newSQLiteStore(t), WithStrictUnits())
	ctx := context.Background()

	for _, u := range []Unit{UnitMinutes, UnitHours, UnitDays, UnitMonths} {
		require.NoError(t, c.Save(ctx, true, u, 1), u)
	}
}

func TestSave_StrictRejectsUnknownUnit(t *testing.T) {
	store := newSQLiteStore(t)
	c := NewCodec(store, WithStrictUnits())
	ctx := context.Background()

	err := c.Save(ctx, true, Unit("weeks"), 2)
	require.ErrorIs(t, err, ErrInvalidUnit)

	_, ok, err := store.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoad_Unset(t *testing.T) {
	c := NewCodec(newSQLiteStore(t))

	s, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{enabled`},
		{"not an object", `42`},
		{"missing enabled", `{"amount":60}`},
		{"enabled without amount", `{"enabled":true}`},
		{"wrong types", `{"enabled":"yes","amount":60}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSQLiteStore(t)
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, StorageKey, tt.raw))

			_, err := NewCodec(store).Load(ctx)
			require.ErrorIs(t, err, ErrMalformedSettings)
		})
	}
}

func TestLoad_DisabledWithoutAmount(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, StorageKey, `{"enabled":false}`))

	s, err := NewCodec(store).Load(ctx)
	require.NoError(t, err)
	require.Equal(t, &OffsetSettings{Enabled: false}, s)
}

func TestLoad_JSONErrorIsKept(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, StorageKey, `{enabled`))

	_, err := NewCodec(store).Load(ctx)
	var syntaxErr *json.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
}

func TestEnabledAmountSeconds(t *testing.T) {
	c := NewCodec(newSQLiteStore(t))
	ctx := context.Background()

	_, ok, err := c.EnabledAmountSeconds(ctx)
	require.NoError(t, err)
	require.False(t, ok, "nothing saved")

	require.NoError(t, c.Save(ctx, false, UnitHours, 1))
	_, ok, err = c.EnabledAmountSeconds(ctx)
	require.NoError(t, err)
	require.False(t, ok, "disabled")

	require.NoError(t, c.Save(ctx, true, UnitHours, 1))
	seconds, ok, err := c.EnabledAmountSeconds(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, float64(3600), seconds)
}

func TestDisplaySettings(t *testing.T) {
	c := NewCodec(newSQLiteStore(t))
	ctx := context.Background()

	d, err := c.DisplaySettings(ctx)
	require.NoError(t, err)
	require.Nil(t, d)

	require.NoError(t, c.Save(ctx, false, UnitDays, 3))
	d, err = c.DisplaySettings(ctx)
	require.NoError(t, err)
	require.Equal(t, &DisplaySettings{Enabled: false}, d)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	require.JSONEq(t, `{"enabled":false}`, string(b))

	require.NoError(t, c.Save(ctx, true, UnitDays, 3))
	d, err = c.DisplaySettings(ctx)
	require.NoError(t, err)
	require.Equal(t, &DisplaySettings{Enabled: true, Amount: ptr(3), Unit: UnitDays}, d)

	b, err = json.Marshal(d)
	require.NoError(t, err)
	require.JSONEq(t, `{"enabled":true,"amount":3,"type":"days"}`, string(b))
}

func TestCodec_StorageErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	c := NewCodec(brokenStore{err: boom})
	ctx := context.Background()

	require.ErrorIs(t, c.Save(ctx, true, UnitHours, 1), boom)

	_, err := c.Load(ctx)
	require.ErrorIs(t, err, boom)

	_, _, err = c.EnabledAmountSeconds(ctx)
	require.ErrorIs(t, err, boom)

	_, err = c.DisplaySettings(ctx)
	require.ErrorIs(t, err, boom)
}
