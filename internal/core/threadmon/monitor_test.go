package threadmon

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dds/pkg/types"
)

// fakeWatched 可控心跳的被巡检域
type fakeWatched struct {
	id       types.DomainID
	progress atomic.Uint64
}

func (f *fakeWatched) DomainID() types.DomainID { return f.id }
func (f *fakeWatched) Progress() uint64         { return f.progress.Load() }

func TestNew_BadPeriod(t *testing.T) {
	_, err := New(0, true)
	assert.Error(t, err)
}

func TestMonitor_StartStopFree(t *testing.T) {
	m, err := New(10*time.Millisecond, false)
	require.NoError(t, err)

	require.NoError(t, m.Start("threadmon"))
	require.Error(t, m.Start("threadmon"), "重复启动")

	m.Stop()
	m.Stop() // 幂等
	m.Free()
	require.Error(t, m.Start("threadmon"), "销毁后不可复用")
}

func TestMonitor_RegisterUnregister(t *testing.T) {
	m, err := New(time.Second, false)
	require.NoError(t, err)

	w := &fakeWatched{id: 1}
	m.RegisterDomain(w)
	assert.Equal(t, 1, m.DomainCount())
	m.UnregisterDomain(w)
	assert.Equal(t, 0, m.DomainCount())
}

func TestMonitor_DetectsStall(t *testing.T) {
	clk := clock.NewMock()
	m, err := NewWithClock(100*time.Millisecond, false, clk)
	require.NoError(t, err)

	w := &fakeWatched{id: 2}
	m.RegisterDomain(w)
	require.NoError(t, m.Start("threadmon"))

	// 心跳停滞，至少一轮巡检判停
	assert.Eventually(t, func() bool {
		clk.Add(100 * time.Millisecond)
		return m.StallCount() > 0
	}, time.Second, time.Millisecond)

	m.Stop()
	m.Free()
}

func TestMonitor_NoStallWhileProgressing(t *testing.T) {
	clk := clock.NewMock()
	m, err := NewWithClock(100*time.Millisecond, false, clk)
	require.NoError(t, err)

	w := &fakeWatched{id: 3}
	m.RegisterDomain(w)
	require.NoError(t, m.Start("threadmon"))

	// 每轮巡检前先推进心跳
	for i := 0; i < 5; i++ {
		w.progress.Add(1)
		clk.Add(100 * time.Millisecond)
		// 留出巡检 goroutine 运行的时间
		time.Sleep(5 * time.Millisecond)
	}

	assert.Zero(t, m.StallCount())
	m.Stop()
	m.Free()
}
