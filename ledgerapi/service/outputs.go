package service

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
	"github.com/insurepool/poolgate/ledgerapi/logdecoder"
)

// outputs gives typed access to the unpacked results of one contract call.
// The first conversion failure is kept and reported by Err; later accessors
// return zero values.
type outputs struct {
	method string
	values []any
	err    error
}

func (o *outputs) Err() error { return o.err }

func (o *outputs) at(i int) any {
	if o.err != nil {
		return nil
	}
	if i >= len(o.values) {
		o.err = ledgererrors.NewDecodeError(
			fmt.Sprintf("%s returned %d values, output %d requested", o.method, len(o.values), i), nil)
		return nil
	}
	return o.values[i]
}

func (o *outputs) fail(i int, v any, want string) {
	if o.err != nil {
		return
	}
	o.err = ledgererrors.NewDecodeError(
		fmt.Sprintf("%s output %d: expected %s, got %T", o.method, i, want, v), nil)
}

func (o *outputs) number(i int) uint64 {
	v := o.at(i)
	switch n := v.(type) {
	case *big.Int:
		if n.IsUint64() {
			return n.Uint64()
		}
	case uint8:
		return uint64(n)
	case uint64:
		return n
	}
	o.fail(i, v, "uint64")
	return 0
}

func (o *outputs) signed(i int) int64 {
	v := o.at(i)
	if n, ok := v.(*big.Int); ok && n.IsInt64() {
		return n.Int64()
	}
	o.fail(i, v, "int64")
	return 0
}

func (o *outputs) flag(i int) bool {
	v := o.at(i)
	if b, ok := v.(bool); ok {
		return b
	}
	o.fail(i, v, "bool")
	return false
}

func (o *outputs) text(i int) string {
	v := o.at(i)
	if s, ok := v.(string); ok {
		return s
	}
	o.fail(i, v, "string")
	return ""
}

func (o *outputs) address(i int) common.Address {
	v := o.at(i)
	if a, ok := v.(common.Address); ok {
		return a
	}
	o.fail(i, v, "address")
	return common.Address{}
}

func (o *outputs) addressHex(i int) string {
	return lowerHex(o.address(i))
}

func (o *outputs) word(i int) [32]byte {
	v := o.at(i)
	if w, ok := v.([32]byte); ok {
		return w
	}
	o.fail(i, v, "bytes32")
	return [32]byte{}
}

// hash renders a bytes32 output with the zero word as the sentinel.
func (o *outputs) hash(i int) string {
	w := o.word(i)
	return hexcodec.BytesToHex(w[:])
}

// fullWord renders a bytes32 output as all 64 hex digits.
func (o *outputs) fullWord(i int) string {
	return common.Hash(o.word(i)).Hex()
}

// enum reads a uint8 state and checks it against spec.
func (o *outputs) enum(i int, spec logdecoder.EnumSpec) int {
	v := o.number(i)
	if o.err == nil && !spec.Valid(v) {
		o.err = ledgererrors.NewDecodeError(
			fmt.Sprintf("%s output %d: %d is not a valid %s", o.method, i, v, spec.Name), nil)
		return 0
	}
	return int(v)
}
