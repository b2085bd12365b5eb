package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutGet(t *testing.T) {
	db := openTestDB(t)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := db.Put(&Entry{
		Key:        "k1",
		URL:        "https://api.postcodes.io/postcodes/SW1A%201AA",
		StatusCode: 200,
		Header:     map[string][]string{"Content-Type": {"application/json"}},
		Body:       []byte(`{"status":200}`),
		CreatedAt:  created,
	})
	require.NoError(t, err)

	e, err := db.Get("k1")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 200, e.StatusCode)
	assert.Equal(t, []string{"application/json"}, e.Header["Content-Type"])
	assert.Equal(t, `{"status":200}`, string(e.Body))
	assert.Equal(t, len(e.Body), e.Size)
	assert.True(t, created.Equal(e.CreatedAt))

	missing, err := db.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPutReplaces(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Put(&Entry{Key: "k", URL: "u", StatusCode: 200, Body: []byte("old")}))
	require.NoError(t, db.Put(&Entry{Key: "k", URL: "u", StatusCode: 200, Body: []byte("new")}))

	e, err := db.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "new", string(e.Body))

	entries, err := db.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestListDeleteClear(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Put(&Entry{Key: "a", URL: "ua", StatusCode: 200, Body: []byte("12345"), CreatedAt: base}))
	require.NoError(t, db.Put(&Entry{Key: "b", URL: "ub", StatusCode: 200, Body: []byte("1"), CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, db.Put(&Entry{Key: "c", URL: "uc", StatusCode: 200, Body: []byte("12"), CreatedAt: base.Add(2 * time.Hour)}))

	entries, err := db.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].Key)
	assert.Equal(t, 2, entries[0].Size)
	assert.Nil(t, entries[0].Body)
	assert.Equal(t, "a", entries[2].Key)
	assert.Equal(t, 5, entries[2].Size)

	require.NoError(t, db.Delete("b"))
	entries, err = db.List()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	n, err := db.Clear()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	entries, err = db.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
