// Package listreader pages through the append-only entity lists the pool
// contracts keep, newest index first.
package listreader

import (
	"context"

	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
)

// ListInfo summarises an entity list as reported by the contract's hashMap().
type ListInfo struct {
	ActiveItemsListStartIdx uint64 `json:"active_items_list_start_idx"`
	CountAllItems           uint64 `json:"count_all_items"`
	CountActiveItems        uint64 `json:"count_active_items"`
}

// NewListInfo builds a ListInfo from the hashMap() triple. nextIdx is the
// index the next created item will receive, so the newest item is nextIdx-1.
func NewListInfo(firstIdx, nextIdx, count uint64) ListInfo {
	info := ListInfo{ActiveItemsListStartIdx: firstIdx, CountActiveItems: count}
	if nextIdx > 0 {
		info.CountAllItems = nextIdx - 1
	}
	return info
}

// Source is the per-entity contract access a page walk needs.
type Source[T any] interface {
	ListInfo(ctx context.Context) (ListInfo, error)
	HashAt(ctx context.Context, idx uint64) (string, error)
	Detail(ctx context.Context, hash string) (T, error)
}

// Page is one slice of a list together with the list summary.
type Page[T any] struct {
	Info  ListInfo `json:"info"`
	Items []T      `json:"items"`
}

// ReadPage walks indices from fromIdx (or the newest index when zero) down
// over maxEntries slots (or defaultPageSize when zero). Slots whose stored
// hash is the zero sentinel are skipped without widening the walk, so the
// page may hold fewer than maxEntries items.
func ReadPage[T any](ctx context.Context, src Source[T], fromIdx, maxEntries, defaultPageSize uint64) (Page[T], error) {
	info, err := src.ListInfo(ctx)
	if err != nil {
		return Page[T]{}, err
	}

	lastIdx := fromIdx
	if lastIdx == 0 {
		lastIdx = info.CountAllItems
	}
	n := maxEntries
	if n == 0 {
		n = defaultPageSize
	}
	var lowerBound uint64
	if lastIdx > n {
		lowerBound = lastIdx - n
	}

	items := make([]T, 0)
	for i := lastIdx; i > lowerBound; i-- {
		if err := ctx.Err(); err != nil {
			return Page[T]{}, err
		}
		hash, err := src.HashAt(ctx, i)
		if err != nil {
			return Page[T]{}, err
		}
		if hexcodec.IsEmpty(hash, hexcodec.KindHash) {
			continue
		}
		item, err := src.Detail(ctx, hash)
		if err != nil {
			return Page[T]{}, err
		}
		items = append(items, item)
	}
	return Page[T]{Info: info, Items: items}, nil
}
