// Package logfilter turns optional per-topic matchers and an optional block
// range into a go-ethereum filter query.
package logfilter

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
)

// Matcher is an optional exact-match value for one indexed topic. The zero
// value matches anything.
type Matcher struct {
	word common.Hash
	set  bool
}

// Any matches every value at its position.
func Any() Matcher { return Matcher{} }

// IsSet reports whether the matcher restricts its position.
func (m Matcher) IsSet() bool { return m.set }

// Topic returns the 32-byte word the matcher compares against.
func (m Matcher) Topic() common.Hash { return m.word }

func fromWord(word string) (Matcher, error) {
	b, err := hexcodec.HexToBytes(word)
	if err != nil {
		return Matcher{}, err
	}
	return Matcher{word: common.BytesToHash(b), set: true}, nil
}

// Hash matches a bytes32 topic. Values shorter than a word are right-padded.
// An empty value yields Any.
func Hash(value string) (Matcher, error) {
	if hexcodec.IsEmpty(value, hexcodec.KindHash) {
		return Any(), nil
	}
	word, err := hexcodec.PadRight32(value)
	if err != nil {
		return Matcher{}, err
	}
	return fromWord(word)
}

// Address matches an indexed address topic. An empty value yields Any.
func Address(value string) (Matcher, error) {
	if hexcodec.IsEmpty(value, hexcodec.KindAddress) {
		return Any(), nil
	}
	word, err := hexcodec.AddressToTopic(value)
	if err != nil {
		return Matcher{}, err
	}
	return fromWord(word)
}

// Uint matches a left-padded numeric topic.
func Uint(v uint64) Matcher {
	return Matcher{word: common.BigToHash(new(big.Int).SetUint64(v)), set: true}
}

// OptionalUint is Uint for positions where zero means "not supplied".
func OptionalUint(v uint64) Matcher {
	if v == 0 {
		return Any()
	}
	return Uint(v)
}

// ASCII matches a right-padded text topic. An empty value yields Any.
func ASCII(text string) Matcher {
	if text == "" {
		return Any()
	}
	m, _ := fromWord(hexcodec.ASCIIToWord(text))
	return m
}

// Bool matches an indexed bool topic.
func Bool(b bool) Matcher {
	if b {
		return Uint(1)
	}
	return Uint(0)
}

// NumericOrHash matches an info topic: 0x-prefixed values are used as bytes,
// unsigned decimals as left-padded numeric words. Anything else is rejected.
func NumericOrHash(value string) (Matcher, error) {
	if value == "" {
		return Any(), nil
	}
	if hexcodec.HasHexPrefix(value) {
		return Hash(value)
	}
	if v, err := strconv.ParseUint(value, 10, 64); err == nil {
		return Uint(v), nil
	}
	return Matcher{}, ledgererrors.NewValidationError(fmt.Sprintf("info filter %q is neither hex nor an unsigned number", value))
}

// NumericOrASCII is NumericOrHash with free text accepted as an ASCII word.
func NumericOrASCII(value string) (Matcher, error) {
	if value == "" {
		return Any(), nil
	}
	if hexcodec.HasHexPrefix(value) {
		return Hash(value)
	}
	if v, err := strconv.ParseUint(value, 10, 64); err == nil {
		return Uint(v), nil
	}
	return ASCII(value), nil
}

// Range is the resolved block window. A nil To means the latest block.
type Range struct {
	From uint64
	To   *uint64
}

// Request describes one event query.
type Request struct {
	Address common.Address
	Event   common.Hash
	Topics  [3]Matcher

	// FromBlock and ToBlock are inclusive; zero means "not supplied".
	FromBlock uint64
	ToBlock   uint64

	// Narrowing overrides whether the topics count as a narrowing filter.
	// When nil, any set matcher narrows.
	Narrowing *bool
}

func (r Request) narrowing() bool {
	if r.Narrowing != nil {
		return *r.Narrowing
	}
	for _, m := range r.Topics {
		if m.IsSet() {
			return true
		}
	}
	return false
}

// BlockHeightSource reports the latest block number.
type BlockHeightSource interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// Builder builds filter queries. Unnarrowed, unbounded requests are limited to
// the last LookbackBlocks blocks.
type Builder struct {
	heights        BlockHeightSource
	lookbackBlocks uint64
}

// NewBuilder creates a Builder over the given block-height source.
func NewBuilder(heights BlockHeightSource, lookbackBlocks uint64) *Builder {
	return &Builder{heights: heights, lookbackBlocks: lookbackBlocks}
}

// Build resolves the block range and assembles the topic filter.
func (b *Builder) Build(ctx context.Context, req Request) (ethereum.FilterQuery, Range, error) {
	rng, err := b.resolveRange(ctx, req)
	if err != nil {
		return ethereum.FilterQuery{}, Range{}, err
	}

	topics := [][]common.Hash{{req.Event}}
	for _, m := range req.Topics {
		if m.IsSet() {
			topics = append(topics, []common.Hash{m.Topic()})
		} else {
			topics = append(topics, nil)
		}
	}

	q := ethereum.FilterQuery{
		Addresses: []common.Address{req.Address},
		Topics:    topics,
		FromBlock: new(big.Int).SetUint64(rng.From),
	}
	if rng.To != nil {
		q.ToBlock = new(big.Int).SetUint64(*rng.To)
	}
	return q, rng, nil
}

func (b *Builder) resolveRange(ctx context.Context, req Request) (Range, error) {
	if req.FromBlock == 0 && req.ToBlock == 0 && !req.narrowing() {
		latest, err := b.heights.BlockNumber(ctx)
		if err != nil {
			return Range{}, ledgererrors.WrapLedgerError(err, ledgererrors.ErrCodeRPC, "", "failed to read latest block number")
		}
		from := uint64(0)
		if latest > b.lookbackBlocks {
			from = latest - b.lookbackBlocks
		}
		return Range{From: from, To: &latest}, nil
	}

	rng := Range{From: req.FromBlock}
	if req.ToBlock != 0 {
		to := req.ToBlock
		rng.To = &to
	}
	return rng, nil
}
