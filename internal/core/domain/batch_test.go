package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-dds/pkg/types"
)

func TestSetWriteBatch_PushdownToExistingWriters(t *testing.T) {
	env := newFakeEnv()

	d, err := env.g.CreateExplicit(5, TextConfig(""))
	require.NoError(t, err)
	p, err := CreateParticipant(d)
	require.NoError(t, err)
	w1, err := CreateWriter(p)
	require.NoError(t, err)
	w2, err := CreateWriter(p)
	require.NoError(t, err)

	assert.False(t, w1.Batch())
	assert.False(t, w2.Batch())

	env.g.SetWriteBatch(true)
	assert.True(t, w1.Batch(), "存量写者被下推改写")
	assert.True(t, w2.Batch())

	w3, err := CreateWriter(p)
	require.NoError(t, err)
	assert.True(t, w3.Batch(), "新建写者取改写后的域默认值")

	env.g.SetWriteBatch(false)
	assert.False(t, w1.Batch())
	assert.False(t, w2.Batch())
	assert.False(t, w3.Batch())

	for _, w := range []*Writer{w1, w2, w3} {
		require.NoError(t, w.Release())
	}
	require.NoError(t, p.Release())
	require.NoError(t, d.Release())
}

func TestSetWriteBatch_SpansAllDomains(t *testing.T) {
	env := newFakeEnv()

	var writers []*Writer
	var cleanup []func() error
	for _, id := range []types.DomainID{3, 7, 11} {
		d, err := env.g.CreateExplicit(id, TextConfig(""))
		require.NoError(t, err)
		p, err := CreateParticipant(d)
		require.NoError(t, err)
		w, err := CreateWriter(p)
		require.NoError(t, err)
		writers = append(writers, w)
		cleanup = append(cleanup, w.Release, p.Release, d.Release)
	}

	env.g.SetWriteBatch(true)
	for _, w := range writers {
		assert.True(t, w.Batch())
	}

	for _, f := range cleanup {
		require.NoError(t, f())
	}
}

// TestSetWriteBatch_ConcurrentDomainChurn 在全局开关反复翻转的
// 同时创建/销毁域与写者，验证游标遍历与生命周期互不挂死，
// 且尘埃落定后所有存量写者与最后一次开关一致。
func TestSetWriteBatch_ConcurrentDomainChurn(t *testing.T) {
	env := newFakeEnv()

	d, err := env.g.CreateExplicit(5, TextConfig(""))
	require.NoError(t, err)
	p, err := CreateParticipant(d)
	require.NoError(t, err)
	w, err := CreateWriter(p)
	require.NoError(t, err)

	var eg errgroup.Group
	eg.Go(func() error {
		for i := 0; i < 50; i++ {
			env.g.SetWriteBatch(i%2 == 0)
		}
		return nil
	})
	eg.Go(func() error {
		for i := 0; i < 20; i++ {
			d2, err := env.g.FindOrCreate(9, TextConfig(""))
			if err != nil {
				return err
			}
			p2, err := CreateParticipant(d2)
			if err != nil {
				return err
			}
			w2, err := CreateWriter(p2)
			if err != nil {
				return err
			}
			if err := w2.Release(); err != nil {
				return err
			}
			if err := p2.Release(); err != nil {
				return err
			}
			if err := d2.Release(); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, eg.Wait())

	env.g.SetWriteBatch(true)
	assert.True(t, w.Batch())

	require.NoError(t, w.Release())
	require.NoError(t, p.Release())
	require.NoError(t, d.Release())
}
