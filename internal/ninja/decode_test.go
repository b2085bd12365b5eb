package ninja

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataKeepsProviderOrder(t *testing.T) {
	series, err := DecodeData(strings.NewReader(`{
	  "metadata": {"params": {"lat": 51.5}},
	  "data": {"c": 3, "a": 1, "b": 2}
	}`))
	require.NoError(t, err)

	var keys []string
	for _, rec := range series {
		keys = append(keys, rec.Key)
	}
	assert.Equal(t, []string{"c", "a", "b"}, keys)
	assert.Equal(t, "1", string(series[1].Value))
}

func TestDecodeDataDuplicateKeys(t *testing.T) {
	series, err := DecodeData(strings.NewReader(`{"data": {"a": 1, "b": 2, "a": 3}}`))
	require.NoError(t, err)

	require.Len(t, series, 2)
	assert.Equal(t, "a", series[0].Key)
	assert.Equal(t, "3", string(series[0].Value))
	assert.Equal(t, "b", series[1].Key)
}

func TestDecodeDataMissing(t *testing.T) {
	series, err := DecodeData(strings.NewReader(`{"metadata": {}}`))
	require.NoError(t, err)
	assert.Empty(t, series)

	series, err = DecodeData(strings.NewReader(`{"data": null}`))
	require.NoError(t, err)
	assert.Empty(t, series)

	series, err = DecodeData(strings.NewReader(`{"data": {}}`))
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestDecodeDataNonObject(t *testing.T) {
	series, err := DecodeData(strings.NewReader(`{"data": [1, 2, 3]}`))
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "data", series[0].Key)
	assert.Equal(t, "[1,2,3]", strings.ReplaceAll(string(series[0].Value), " ", ""))
}

func TestDecodeDataInvalid(t *testing.T) {
	_, err := DecodeData(strings.NewReader(`[]`))
	assert.Error(t, err)

	_, err = DecodeData(strings.NewReader(`not json`))
	assert.Error(t, err)
}
