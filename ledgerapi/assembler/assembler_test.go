package assembler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
)

type entryLog struct {
	hash  string
	ts    uint64
	block uint64
}

func (l entryLog) PrimaryHash() string  { return l.hash }
func (l entryLog) LogTimestamp() uint64 { return l.ts }

type entry struct {
	Hash    string
	Idx     uint64
	History []entryLog
}

func h(i int) string { return fmt.Sprintf("0x%064x", i) }

type fakeLedger struct {
	byIdx      map[uint64]string
	logs       map[string][]entryLog
	detailHits []string
	logHits    []string
}

func (f *fakeLedger) detailOps() DetailOps[entry, entryLog] {
	return DetailOps[entry, entryLog]{
		HashAt: func(_ context.Context, idx uint64) (string, error) {
			if hash, ok := f.byIdx[idx]; ok {
				return hash, nil
			}
			return hexcodec.Sentinel, nil
		},
		Detail: func(_ context.Context, hash string) (entry, error) {
			f.detailHits = append(f.detailHits, hash)
			return entry{Idx: uint64(len(f.detailHits))}, nil
		},
		Logs: func(_ context.Context, hash string) ([]entryLog, error) {
			f.logHits = append(f.logHits, hash)
			return f.logs[hash], nil
		},
		Attach: func(d *entry, hash string, history []entryLog) {
			d.Hash = hash
			d.History = history
		},
	}
}

func TestDetailWithHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("by hash returns ascending history", func(t *testing.T) {
		f := &fakeLedger{logs: map[string][]entryLog{
			h(1): {{hash: h(1), block: 30}, {hash: h(1), block: 20}, {hash: h(1), block: 10}},
		}}
		d, err := DetailWithHistory(ctx, h(1), 0, f.detailOps())
		require.NoError(t, err)

		assert.Equal(t, h(1), d.Hash)
		require.Len(t, d.History, 3)
		assert.Equal(t, []uint64{10, 20, 30}, []uint64{d.History[0].block, d.History[1].block, d.History[2].block})
		// the source slice is left in its original order
		assert.Equal(t, uint64(30), f.logs[h(1)][0].block)
	})

	t.Run("resolves index when hash is empty", func(t *testing.T) {
		f := &fakeLedger{byIdx: map[uint64]string{4: h(4)}, logs: map[string][]entryLog{}}
		d, err := DetailWithHistory(ctx, "", 4, f.detailOps())
		require.NoError(t, err)
		assert.Equal(t, h(4), d.Hash)
		assert.Equal(t, []string{h(4)}, f.detailHits)
		assert.Equal(t, []string{h(4)}, f.logHits)
		assert.NotNil(t, d.History)
	})

	t.Run("retired slot skips history", func(t *testing.T) {
		f := &fakeLedger{byIdx: map[uint64]string{}}
		d, err := DetailWithHistory(ctx, hexcodec.EmptyHash, 9, f.detailOps())
		require.NoError(t, err)
		assert.Equal(t, hexcodec.Sentinel, d.Hash)
		assert.Empty(t, d.History)
		assert.Empty(t, f.logHits)
	})

	t.Run("errors propagate", func(t *testing.T) {
		boom := errors.New("call reverted")
		ops := (&fakeLedger{}).detailOps()
		ops.Detail = func(context.Context, string) (entry, error) { return entry{}, boom }
		_, err := DetailWithHistory(ctx, h(1), 0, ops)
		assert.ErrorIs(t, err, boom)
	})
}

func TestOwnerListing(t *testing.T) {
	ctx := context.Background()

	// newest first, as the log reader returns them
	logs := []entryLog{
		{hash: h(2), ts: 500},
		{hash: h(1), ts: 400},
		{hash: h(3), ts: 400},
		{hash: h(2), ts: 300},
		{hash: h(1), ts: 100},
	}

	var fetched []string
	ops := OwnerOps[string, entryLog]{
		LogsByOwner: func(_ context.Context, owner string) ([]entryLog, error) {
			assert.Equal(t, "0x742d35cc6634c0532925a3b844bc9e7595f0beb7", owner)
			return logs, nil
		},
		Detail: func(_ context.Context, hash string) (string, error) {
			fetched = append(fetched, hash)
			return "detail:" + hash, nil
		},
	}

	items, err := OwnerListing(ctx, "0x742d35cc6634c0532925a3b844bc9e7595f0beb7", ops)
	require.NoError(t, err)

	// one detail read per distinct hash; ties keep log order
	assert.Equal(t, []string{h(2), h(1), h(3)}, fetched)
	assert.Equal(t, []string{"detail:" + h(2), "detail:" + h(1), "detail:" + h(3)}, items)
}

func TestOwnerListingOrdersByTimestamp(t *testing.T) {
	ops := OwnerOps[string, entryLog]{
		LogsByOwner: func(context.Context, string) ([]entryLog, error) {
			return []entryLog{{hash: h(1), ts: 10}, {hash: h(2), ts: 90}, {hash: h(3), ts: 50}}, nil
		},
		Detail: func(_ context.Context, hash string) (string, error) { return hash, nil },
	}
	items, err := OwnerListing(context.Background(), "0xabc", ops)
	require.NoError(t, err)
	assert.Equal(t, []string{h(2), h(3), h(1)}, items)
}

func TestOwnerListingEmpty(t *testing.T) {
	ops := OwnerOps[string, entryLog]{
		LogsByOwner: func(context.Context, string) ([]entryLog, error) { return nil, nil },
		Detail: func(context.Context, string) (string, error) {
			t.Fatal("no detail reads expected")
			return "", nil
		},
	}
	items, err := OwnerListing(context.Background(), "0xabc", ops)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}
