// Package assembler composes entity views out of contract reads and decoded
// event logs.
package assembler

import (
	"context"
	"slices"
	"sort"

	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
)

// Log is the part of a decoded entity log the assembler orders by.
type Log interface {
	PrimaryHash() string
	LogTimestamp() uint64
}

// DetailOps are the reads a detail view is built from.
type DetailOps[D any, L any] struct {
	// HashAt resolves a list index to the stored entity hash.
	HashAt func(ctx context.Context, idx uint64) (string, error)
	// Detail reads the entity record by hash.
	Detail func(ctx context.Context, hash string) (D, error)
	// Logs returns all logs whose primary hash matches, newest first.
	Logs func(ctx context.Context, hash string) ([]L, error)
	// Attach stores the resolved hash and the ascending history on the detail.
	Attach func(detail *D, hash string, history []L)
}

// DetailWithHistory reads one entity by hash, or by index when hash is empty,
// and attaches its full log history in ascending order. History is only
// fetched for a non-empty resolved hash.
func DetailWithHistory[D any, L any](ctx context.Context, hash string, idx uint64, ops DetailOps[D, L]) (D, error) {
	var zero D

	if hexcodec.IsEmpty(hash, hexcodec.KindHash) {
		resolved, err := ops.HashAt(ctx, idx)
		if err != nil {
			return zero, err
		}
		hash = resolved
	}

	detail, err := ops.Detail(ctx, hash)
	if err != nil {
		return zero, err
	}

	history := []L{}
	if !hexcodec.IsEmpty(hash, hexcodec.KindHash) {
		logs, err := ops.Logs(ctx, hash)
		if err != nil {
			return zero, err
		}
		history = append(history, logs...)
		slices.Reverse(history)
	}

	ops.Attach(&detail, hash, history)
	return detail, nil
}

// OwnerOps are the reads an owner listing is built from.
type OwnerOps[D any, L Log] struct {
	// LogsByOwner returns all logs emitted for owner, newest first.
	LogsByOwner func(ctx context.Context, owner string) ([]L, error)
	// Detail reads the entity record by hash.
	Detail func(ctx context.Context, hash string) (D, error)
}

// OwnerListing lists every entity an owner ever appeared on. Logs are reduced
// to the first occurrence per primary hash, ordered by timestamp descending,
// and each surviving hash is read once.
func OwnerListing[D any, L Log](ctx context.Context, owner string, ops OwnerOps[D, L]) ([]D, error) {
	logs, err := ops.LogsByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(logs))
	unique := make([]L, 0, len(logs))
	for _, l := range logs {
		if _, ok := seen[l.PrimaryHash()]; ok {
			continue
		}
		seen[l.PrimaryHash()] = struct{}{}
		unique = append(unique, l)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].LogTimestamp() > unique[j].LogTimestamp()
	})

	items := make([]D, 0, len(unique))
	for _, l := range unique {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := ops.Detail(ctx, l.PrimaryHash())
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, nil
}
