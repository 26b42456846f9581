package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBool_ZeroedAndSized(t *testing.T) {
	buf := GetBool(100)
	require.Len(t, buf, 100)
	for i := range buf {
		assert.False(t, buf[i])
	}
	PutBool(buf)
}

func TestGetBool_ReusedBufferIsClean(t *testing.T) {
	buf := GetBool(50)
	for i := range buf {
		buf[i] = true
	}
	PutBool(buf)

	again := GetBool(50)
	require.Len(t, again, 50)
	for i := range again {
		assert.False(t, again[i])
	}
	PutBool(again)
}

func TestGetInt_ZeroedAndSized(t *testing.T) {
	buf := GetInt(2048)
	require.Len(t, buf, 2048)
	for i := range buf {
		assert.Zero(t, buf[i])
	}
	PutInt(buf)
}

func TestGetInt_ReusedBufferIsClean(t *testing.T) {
	buf := GetInt(10)
	for i := range buf {
		buf[i] = i + 1
	}
	PutInt(buf)

	again := GetInt(10)
	require.Len(t, again, 10)
	for i := range again {
		assert.Zero(t, again[i])
	}
	PutInt(again)
}

func TestPut_NilIsSafe(t *testing.T) {
	PutBool(nil)
	PutInt(nil)
}

func TestSizeClass(t *testing.T) {
	assert.Equal(t, 1024, sizeClass(1))
	assert.Equal(t, 1024, sizeClass(1024))
	assert.Equal(t, 2048, sizeClass(1025))
	assert.Equal(t, 3072, sizeClass(2049))
}
