package rtps

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dds/config"
	"github.com/dep2p/go-dds/pkg/types"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	src := config.NewConfig()
	src.Domain.ID = 3
	cfg, err := PrepareConfig(src)
	require.NoError(t, err)
	return cfg
}

// ============================================================================
//                              配置导出
// ============================================================================

func TestPrepareConfig(t *testing.T) {
	src := config.NewConfig()
	src.Domain.ID = 5
	src.Liveliness.MonitorThreads = true
	src.Writer.Batching = true

	cfg, err := PrepareConfig(src)
	require.NoError(t, err)
	assert.Equal(t, types.DomainID(5), cfg.DomainID)
	assert.True(t, cfg.LivelinessMonitoring)
	assert.True(t, cfg.WHCBatch)
}

func TestPrepareConfig_UnresolvedID(t *testing.T) {
	src := config.NewConfig() // id 仍为哨兵
	_, err := PrepareConfig(src)
	assert.Error(t, err)
}

// ============================================================================
//                              生命周期顺序
// ============================================================================

func TestRuntime_LifecycleOrder(t *testing.T) {
	r := NewWithClock(testConfig(t), clock.NewMock())

	require.Error(t, r.Start(), "未 Init 不可 Start")
	require.NoError(t, r.Init())
	require.Error(t, r.Init(), "重复 Init")
	require.NoError(t, r.Start())
	require.Error(t, r.Fini(), "未 Stop 不可 Fini")
	r.Stop()
	require.NoError(t, r.Fini())
}

func TestRuntime_FiniAfterInitOnly(t *testing.T) {
	r := NewWithClock(testConfig(t), clock.NewMock())
	require.NoError(t, r.Init())
	require.NoError(t, r.Fini(), "Init 后未 Start 可直接 Fini")
}

func TestRuntime_ProgressAdvancesWhileStarted(t *testing.T) {
	clk := clock.NewMock()
	r := NewWithClock(testConfig(t), clk)
	require.NoError(t, r.Init())
	require.NoError(t, r.Start())

	before := r.Progress()
	// 每次轮询推进 mock 时钟，等待后勤线程建好 ticker 并触发
	assert.Eventually(t, func() bool {
		clk.Add(200 * time.Millisecond)
		return r.Progress() > before
	}, time.Second, time.Millisecond)

	r.Stop()
	require.NoError(t, r.Fini())
}

// ============================================================================
//                              收发抑制
// ============================================================================

func TestRuntime_SetDeafMute(t *testing.T) {
	clk := clock.NewMock()
	r := NewWithClock(testConfig(t), clk)

	r.SetDeafMute(true, true, time.Minute)
	assert.True(t, r.Deaf())
	assert.True(t, r.Mute())

	clk.Add(time.Minute + time.Second)
	assert.Eventually(t, func() bool { return !r.Deaf() && !r.Mute() },
		time.Second, time.Millisecond)
}

func TestRuntime_SetDeafMute_InfiniteNoReset(t *testing.T) {
	clk := clock.NewMock()
	r := NewWithClock(testConfig(t), clk)

	r.SetDeafMute(true, false, types.DurationInfinite)
	clk.Add(24 * time.Hour)
	assert.True(t, r.Deaf(), "无限时长不自动恢复")
}

// ============================================================================
//                              类型请求通道
// ============================================================================

func TestRuntime_TypeRequestNeedsProxyAndStart(t *testing.T) {
	r := NewWithClock(testConfig(t), clock.NewMock())
	id := types.HashTypeID([]byte("t"))

	assert.False(t, r.TypeLib().Request(id, false), "未启动")

	require.NoError(t, r.Init())
	require.NoError(t, r.Start())
	assert.False(t, r.TypeLib().Request(id, false), "无存活代理")

	r.NoteProxyAlive()
	assert.True(t, r.TypeLib().Request(id, false))

	r.NoteProxyGone()
	assert.False(t, r.TypeLib().Request(id, false))

	r.Stop()
	require.NoError(t, r.Fini())
}
