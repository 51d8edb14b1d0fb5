// Package logdecoder maps raw event logs onto typed entity records using a
// declarative per-event layout table.
package logdecoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
)

// RawLog is a log as the node reports it: hex block number, topic words and a
// contiguous data blob of 32-byte words.
type RawLog struct {
	BlockNumber string
	Topics      []string
	Data        string
}

// FromEthLog converts a go-ethereum log into a RawLog.
func FromEthLog(l types.Log) RawLog {
	topics := make([]string, len(l.Topics))
	for i, t := range l.Topics {
		topics[i] = t.Hex()
	}
	return RawLog{
		BlockNumber: hexutil.EncodeUint64(l.BlockNumber),
		Topics:      topics,
		Data:        hexutil.Encode(l.Data),
	}
}

// FromEthLogs converts a batch of go-ethereum logs, keeping their order.
func FromEthLogs(logs []types.Log) []RawLog {
	out := make([]RawLog, len(logs))
	for i, l := range logs {
		out[i] = FromEthLog(l)
	}
	return out
}

// word returns data word i as a 0x-prefixed hex string.
func (l RawLog) word(i int) (string, bool) {
	data := strings.TrimPrefix(strings.TrimPrefix(l.Data, "0x"), "0X")
	start := i * 2 * hexcodec.WordSize
	end := start + 2*hexcodec.WordSize
	if end > len(data) {
		return "", false
	}
	return "0x" + data[start:end], true
}

func (l RawLog) wordCount() int {
	data := strings.TrimPrefix(strings.TrimPrefix(l.Data, "0x"), "0X")
	return len(data) / (2 * hexcodec.WordSize)
}

// Source tells whether a field is read from a topic or a data word.
type Source int

const (
	Topic Source = iota
	Word
)

// Kind is the decoding applied to a field's 32-byte word.
type Kind int

const (
	KindUint Kind = iota
	KindHash
	KindAddress
	KindASCII
	KindBool
	KindInfo
	KindEnum
)

// Field is one entry of a layout.
type Field struct {
	Name   string
	Source Source
	Index  int
	Kind   Kind
	Info   InfoPolicy
	Enum   *EnumSpec
}

// Layout describes how one event's topics and data words map onto named
// fields. Fields decode in table order, so a field may depend on any field
// listed before it.
type Layout struct {
	Event  string
	Topics int
	Words  int
	Fields []Field
}

// Record is a decoded log keyed by field name.
type Record struct {
	Event       string
	BlockNumber uint64
	values      map[string]any
}

func (r *Record) set(name string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	r.values[name] = v
}

// String returns a text field, or "" when absent.
func (r *Record) String(name string) string {
	s, _ := r.values[name].(string)
	return s
}

// Uint returns a numeric field, or 0 when absent.
func (r *Record) Uint(name string) uint64 {
	v, _ := r.values[name].(uint64)
	return v
}

// Bool returns a boolean field.
func (r *Record) Bool(name string) bool {
	b, _ := r.values[name].(bool)
	return b
}

// Ordinal returns an enum field's ordinal, or -1 when absent.
func (r *Record) Ordinal(name string) int {
	v, ok := r.values[name].(int)
	if !ok {
		return -1
	}
	return v
}

// Decode maps one raw log onto layout. Logs with fewer topics or data words
// than the layout needs fail with a malformed-log error.
func Decode(layout Layout, raw RawLog) (Record, error) {
	if len(raw.Topics) < layout.Topics+1 {
		return Record{}, ledgererrors.NewMalformedLogError(layout.Event,
			fmt.Sprintf("expected %d topics, got %d", layout.Topics+1, len(raw.Topics)))
	}
	if n := raw.wordCount(); n < layout.Words {
		return Record{}, ledgererrors.NewMalformedLogError(layout.Event,
			fmt.Sprintf("expected %d data words, got %d", layout.Words, n))
	}

	block, err := strconv.ParseUint(strings.TrimPrefix(raw.BlockNumber, "0x"), 16, 64)
	if err != nil {
		return Record{}, ledgererrors.NewMalformedLogError(layout.Event,
			fmt.Sprintf("block number %q is not hex", raw.BlockNumber))
	}

	rec := Record{Event: layout.Event, BlockNumber: block}
	for _, f := range layout.Fields {
		word, ok := fieldWord(raw, f)
		if !ok {
			return Record{}, ledgererrors.NewMalformedLogError(layout.Event,
				fmt.Sprintf("field %s is out of range", f.Name))
		}
		v, err := decodeField(f, word, &rec)
		if err != nil {
			return Record{}, ledgererrors.NewLedgerError(ledgererrors.ErrCodeMalformedLog, "",
				fmt.Sprintf("%s: decode field %s", layout.Event, f.Name), err).WithContext("event", layout.Event)
		}
		rec.set(f.Name, v)
	}
	return rec, nil
}

func fieldWord(raw RawLog, f Field) (string, bool) {
	if f.Source == Word {
		return raw.word(f.Index)
	}
	// topic 0 is the event signature
	if f.Index < 1 || f.Index >= len(raw.Topics) {
		return "", false
	}
	return normalizeWord(raw.Topics[f.Index]), true
}

func decodeField(f Field, word string, rec *Record) (any, error) {
	switch f.Kind {
	case KindUint:
		return hexcodec.Uint64FromWord(word)
	case KindHash:
		return normalizeWord(word), nil
	case KindAddress:
		return hexcodec.AddressFromTopic(word)
	case KindASCII:
		return hexcodec.DecodeASCII(word)
	case KindBool:
		return strings.HasSuffix(word, "1"), nil
	case KindInfo:
		return f.Info.Decode(word, rec)
	case KindEnum:
		v, err := hexcodec.Uint64FromWord(word)
		if err != nil {
			return nil, err
		}
		if f.Enum == nil || !f.Enum.Valid(v) {
			name := "enum"
			if f.Enum != nil {
				name = f.Enum.Name
			}
			return nil, ledgererrors.NewMalformedLogError(rec.Event, fmt.Sprintf("%d is not a valid %s", v, name))
		}
		return int(v), nil
	default:
		return nil, ledgererrors.NewInternalError(fmt.Sprintf("unknown field kind %d", f.Kind), nil)
	}
}

// DecodeAll decodes logs given in ascending chain order and returns them
// newest first. The first failure aborts the batch.
func DecodeAll[T any](layout Layout, logs []RawLog, build func(*Record) T) ([]T, error) {
	out := make([]T, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		rec, err := Decode(layout, logs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, build(&rec))
	}
	return out, nil
}
