package typelib

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dds/pkg/types"
)

func newTestLibrary(requestFn RequestFunc) *Library {
	return New(clock.New(), requestFn)
}

// ============================================================================
//                              记录与解析状态
// ============================================================================

func TestRegisterLocal(t *testing.T) {
	l := newTestLibrary(nil)

	id, st := l.RegisterLocal("ExampleType", []byte("repr"))
	require.True(t, id.IsHash())
	require.NotNil(t, st)
	assert.Equal(t, "ExampleType", st.Name())

	l.Lock()
	r, ok := l.LookupLocked(id)
	require.True(t, ok)
	assert.Equal(t, StateResolvedLocal, r.State())
	assert.True(t, l.ResolvedLocked(r, true))
	l.Unlock()
}

func TestRegisterLocal_Idempotent(t *testing.T) {
	l := newTestLibrary(nil)

	id1, st1 := l.RegisterLocal("T", []byte("same"))
	id2, st2 := l.RegisterLocal("T", []byte("same"))
	assert.Equal(t, id1, id2)
	assert.Same(t, st1, st2)
}

func TestNotePending_ThenResolveRemote(t *testing.T) {
	l := newTestLibrary(nil)
	id := types.HashTypeID([]byte("remote"))

	l.NotePending(id)
	l.Lock()
	r, ok := l.LookupLocked(id)
	require.True(t, ok)
	assert.False(t, l.ResolvedLocked(r, false))
	l.Unlock()

	l.ResolveRemote(id, []byte("payload"), false)
	l.Lock()
	assert.True(t, l.ResolvedLocked(r, false))
	assert.False(t, l.ResolvedLocked(r, true), "依赖未完整")
	assert.Nil(t, l.SertypeLocked(r), "远端解析不产生序列化类型")
	l.Unlock()

	l.ResolveRemote(id, nil, true)
	l.Lock()
	assert.True(t, l.ResolvedLocked(r, true))
	l.Unlock()
}

// ============================================================================
//                              序列化类型借出
// ============================================================================

func TestSertype_RefCountedCheckout(t *testing.T) {
	l := newTestLibrary(nil)
	id, st0 := l.RegisterLocal("T", []byte("x"))
	st0.Unref() // 归还创建时借出的引用

	l.Lock()
	r, _ := l.LookupLocked(id)
	st1 := l.SertypeLocked(r)
	st2 := l.SertypeLocked(r)
	l.Unlock()

	require.Same(t, st1, st2)
	assert.Equal(t, int32(3), st1.RefCount(), "类型库 1 + 两次借出")

	st1.Unref()
	st2.Unref()
	assert.Equal(t, int32(1), st1.RefCount())
}

// ============================================================================
//                              类型对象物化
// ============================================================================

func TestTypeObj_MaterializeAndCache(t *testing.T) {
	l := newTestLibrary(nil)
	id := types.HashTypeID([]byte("obj"))
	l.ResolveRemote(id, []byte("payload"), true)

	l.Lock()
	r, _ := l.LookupLocked(id)
	o1 := l.TypeObjLocked(r)
	o2 := l.TypeObjLocked(r)
	l.Unlock()

	require.NotNil(t, o1)
	assert.Equal(t, []byte("payload"), o1.Payload)
	assert.Same(t, o1, o2, "命中缓存返回同一对象")
}

func TestTypeObj_NoPayload(t *testing.T) {
	l := newTestLibrary(nil)
	id := types.HashTypeID([]byte("nopayload"))
	l.NotePending(id)

	l.Lock()
	r, _ := l.LookupLocked(id)
	assert.Nil(t, l.TypeObjLocked(r))
	l.Unlock()
}

// ============================================================================
//                              广播门
// ============================================================================

func TestGate_BroadcastOnResolve(t *testing.T) {
	l := newTestLibrary(nil)
	id := types.HashTypeID([]byte("gate"))
	l.NotePending(id)

	l.Lock()
	gate := l.GateLocked()
	l.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-gate:
		case <-time.After(time.Second):
			t.Error("解析广播未送达")
		}
	}()

	l.ResolveRemote(id, nil, true)
	wg.Wait()
}

func TestRequest(t *testing.T) {
	var got types.TypeID
	var deps bool
	l := newTestLibrary(func(id types.TypeID, includeDeps bool) bool {
		got = id
		deps = includeDeps
		return true
	})

	id := types.HashTypeID([]byte("req"))
	assert.True(t, l.Request(id, true))
	assert.Equal(t, id, got)
	assert.True(t, deps)

	l2 := newTestLibrary(nil)
	assert.False(t, l2.Request(id, false), "无请求通道时视为无法发出")
}
