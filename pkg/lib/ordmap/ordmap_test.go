package ordmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
//                              基础操作
// ============================================================================

func TestMap_InsertLookupDelete(t *testing.T) {
	m := New[uint32, string]()
	assert.Equal(t, 0, m.Len())

	require.True(t, m.Insert(5, "five"))
	require.True(t, m.Insert(1, "one"))
	require.True(t, m.Insert(9, "nine"))
	assert.False(t, m.Insert(5, "dup"), "重复键不覆盖")
	assert.Equal(t, 3, m.Len())

	v, ok := m.Lookup(5)
	require.True(t, ok)
	assert.Equal(t, "five", v)

	_, ok = m.Lookup(7)
	assert.False(t, ok)

	assert.True(t, m.Delete(5))
	assert.False(t, m.Delete(5))
	assert.Equal(t, 2, m.Len())
}

func TestMap_Min(t *testing.T) {
	m := New[uint32, int]()
	_, _, ok := m.Min()
	assert.False(t, ok)

	m.Insert(8, 80)
	m.Insert(3, 30)
	k, v, ok := m.Min()
	require.True(t, ok)
	assert.Equal(t, uint32(3), k)
	assert.Equal(t, 30, v)
}

// ============================================================================
//                              后继游标
// ============================================================================

func TestMap_SuccCursor(t *testing.T) {
	m := New[uint64, string]()
	for _, k := range []uint64{2, 4, 6, 8} {
		m.Insert(k, "v")
	}

	var seen []uint64
	var last uint64
	for {
		k, _, ok := m.Succ(last)
		if !ok {
			break
		}
		seen = append(seen, k)
		last = k
	}
	assert.Equal(t, []uint64{2, 4, 6, 8}, seen)
}

// 游标遍历期间的插入/删除不得使游标失效
func TestMap_SuccCursorTolerantOfMutation(t *testing.T) {
	m := New[uint64, string]()
	for _, k := range []uint64{10, 20, 30} {
		m.Insert(k, "v")
	}

	k, _, ok := m.Succ(0)
	require.True(t, ok)
	require.Equal(t, uint64(10), k)

	// 遍历间隙：删除当前元素，插入新元素
	m.Delete(20)
	m.Insert(25, "v")

	k, _, ok = m.Succ(10)
	require.True(t, ok)
	assert.Equal(t, uint64(25), k)

	k, _, ok = m.Succ(25)
	require.True(t, ok)
	assert.Equal(t, uint64(30), k)
}

func TestMap_SuccEq(t *testing.T) {
	m := New[uint32, string]()
	m.Insert(5, "five")
	m.Insert(7, "seven")

	k, _, ok := m.SuccEq(5)
	require.True(t, ok)
	assert.Equal(t, uint32(5), k)

	k, _, ok = m.SuccEq(6)
	require.True(t, ok)
	assert.Equal(t, uint32(7), k)

	_, _, ok = m.SuccEq(8)
	assert.False(t, ok)
}
