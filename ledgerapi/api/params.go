package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cast"

	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
	"github.com/insurepool/poolgate/ledgerapi/logdecoder"
)

// params reads query parameters and keeps the first validation failure, so
// a handler can read every field and check err once.
type params struct {
	values url.Values
	err    error
}

func newParams(values url.Values) *params {
	return &params{values: values}
}

func (p *params) fail(format string, args ...any) {
	if p.err == nil {
		p.err = ledgererrors.NewValidationError(fmt.Sprintf(format, args...))
	}
}

// mergeBody copies the fields of a JSON object body over the query values.
// Keys may be given as camelCase or snake_case.
func (p *params) mergeBody(r *http.Request) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return ledgererrors.NewValidationError("request body must be a JSON object")
	}
	for key, value := range body {
		if value == nil {
			continue
		}
		v, err := cast.ToStringE(value)
		if err != nil {
			return ledgererrors.NewValidationError(fmt.Sprintf("%s must be a string or a number", key))
		}
		p.values.Set(camelKey(key), v)
	}
	return nil
}

// camelKey maps contract_adr and ContractAdr to contractAdr.
func camelKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			parts[i] = strings.ToLower(part[:1]) + part[1:]
		} else {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, "")
}

func (p *params) str(name string) string {
	return p.values.Get(name)
}

func (p *params) number(name string) uint64 {
	raw := p.values.Get(name)
	if raw == "" {
		return 0
	}
	v, err := cast.ToUint64E(raw)
	if err != nil {
		p.fail("%s must be an unsigned integer", name)
		return 0
	}
	return v
}

func (p *params) integer(name string, def int) int {
	raw := p.values.Get(name)
	if raw == "" {
		return def
	}
	v, err := cast.ToIntE(raw)
	if err != nil {
		p.fail("%s must be an integer", name)
		return def
	}
	return v
}

// address returns an address parameter that passed the shape check.
func (p *params) address(name string, required bool) string {
	v := p.values.Get(name)
	if !hexcodec.ValidAddress(v, required) {
		if v == "" {
			p.fail("%s is required", name)
		} else {
			p.fail("%s must be a 0x-prefixed 20-byte hex address", name)
		}
		return ""
	}
	return v
}

func (p *params) contractAdr() string {
	return p.address("contractAdr", true)
}

// hash returns a 32-byte hash parameter that passed the shape check.
func (p *params) hash(name string) string {
	v := p.values.Get(name)
	if !hexcodec.ValidHash(v, false) {
		p.fail("%s must be a 0x-prefixed 32-byte hex value", name)
		return ""
	}
	return v
}

func (p *params) enum(name string, spec logdecoder.EnumSpec) int {
	raw := p.values.Get(name)
	if raw == "" {
		return 0
	}
	v, err := spec.Parse(raw)
	if err != nil {
		p.fail("%s: %v", name, err)
		return 0
	}
	return v
}
