package logdecoder

import (
	"strings"

	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
)

// InfoPolicy chooses how an "info" word is rendered. The same 32 bytes can
// carry a short ASCII tag, a small number or a hash depending on the event.
type InfoPolicy int

const (
	// InfoNumericOrHash renders zero as "", zero-prefixed words as decimal
	// and everything else as hex.
	InfoNumericOrHash InfoPolicy = iota
	// InfoBond decodes ASCII when the bond hash is empty and keeps the raw
	// hash for reference-bond states.
	InfoBond
	// InfoRaw keeps the word as hex.
	InfoRaw
	// InfoBlankSentinel renders zero as "" and keeps everything else as hex.
	InfoBlankSentinel
	// InfoASCIIOrZero renders zero as the sentinel and everything else as ASCII.
	InfoASCIIOrZero
	// InfoNumericPrefix renders zero-prefixed words (zero included) as decimal
	// and everything else as hex.
	InfoNumericPrefix
)

// numericPrefix marks a word whose three high-order bytes are zero.
const numericPrefix = "0x000000"

func normalizeWord(word string) string {
	w := strings.ToLower(word)
	if !hexcodec.HasHexPrefix(w) {
		w = "0x" + w
	}
	return w
}

// NumericOrHash applies the InfoNumericOrHash heuristic to one word.
func NumericOrHash(word string) (string, error) {
	w := normalizeWord(word)
	if hexcodec.IsEmpty(w, hexcodec.KindHash) {
		return "", nil
	}
	return NumericPrefix(w)
}

// NumericPrefix renders zero-prefixed words as decimal and leaves the rest as hex.
func NumericPrefix(word string) (string, error) {
	w := normalizeWord(word)
	if strings.HasPrefix(w, numericPrefix) {
		return hexcodec.DecimalFromWord(w)
	}
	return w, nil
}

// Decode renders word under policy p. rec holds the fields decoded so far.
func (p InfoPolicy) Decode(word string, rec *Record) (string, error) {
	w := normalizeWord(word)
	switch p {
	case InfoBond:
		if hexcodec.IsEmpty(rec.String("hash"), hexcodec.KindHash) {
			return hexcodec.DecodeASCII(w)
		}
		switch BondState(rec.Ordinal("state")) {
		case BondSecuredReferenceBond, BondLockedReferenceBond:
			return w, nil
		}
		return NumericOrHash(w)
	case InfoRaw:
		return w, nil
	case InfoBlankSentinel:
		if hexcodec.IsEmpty(w, hexcodec.KindHash) {
			return "", nil
		}
		return w, nil
	case InfoASCIIOrZero:
		if hexcodec.IsEmpty(w, hexcodec.KindHash) {
			return hexcodec.Sentinel, nil
		}
		return hexcodec.DecodeASCII(w)
	case InfoNumericPrefix:
		return NumericPrefix(w)
	default:
		return NumericOrHash(w)
	}
}
