package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndReplay(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveSnapshot("2025-12-01", []byte(`{"smm_prices": {}}`)))
	require.NoError(t, store.SaveReport("2025-12-01", []byte(`{"max_purchase_prices": {}}`)))
	require.NoError(t, store.SaveSnapshot("2025-12-02", []byte(`{"smm_prices": {"tin": {}}}`)))

	records, err := store.EntriesAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, KindSnapshot, records[0].Kind)
	assert.Equal(t, "2025-12-01", records[0].Date)
	assert.Equal(t, KindReport, records[1].Kind)
	assert.Equal(t, "2025-12-01", records[1].Date)
	assert.Equal(t, KindSnapshot, records[2].Kind)
	assert.Equal(t, "2025-12-02", records[2].Date)
	assert.JSONEq(t, `{"smm_prices": {"tin": {}}}`, string(records[2].Payload))
}

func TestEntriesAfter_SkipsAlreadySeen(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveSnapshot("2025-12-01", []byte(`{}`)))
	first := store.CurrentIndex()
	require.NoError(t, store.SaveReport("2025-12-01", []byte(`{}`)))

	records, err := store.EntriesAfter(first)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, KindReport, records[0].Kind)
}

func TestEntriesAfter_NothingNew(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveSnapshot("2025-12-01", []byte(`{}`)))

	records, err := store.EntriesAfter(store.CurrentIndex())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSave_RequiresDate(t *testing.T) {
	store := newTestStore(t)

	require.Error(t, store.SaveSnapshot("", []byte(`{}`)))
	require.Error(t, store.SaveReport("", []byte(`{}`)))
}
