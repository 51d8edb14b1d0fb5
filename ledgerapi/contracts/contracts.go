// Package contracts holds the parsed ABIs of the pool ecosystem and the
// event-signature topics the gateway filters on.
package contracts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Parsed ABIs. Parsing happens once at package init; a malformed constant is a
// programming error and panics.
var (
	IntAccessI = mustParse("IntAccessI", IntAccessIABI)
	ExtAccessI = mustParse("ExtAccessI", ExtAccessIABI)
	SetupI     = mustParse("SetupI", SetupIABI)
	Pool       = mustParse("Pool", PoolABI)
	Bond       = mustParse("Bond", BondABI)
	Policy     = mustParse("Policy", PolicyABI)
	Settlement = mustParse("Settlement", SettlementABI)
	Adjustor   = mustParse("Adjustor", AdjustorABI)
	Bank       = mustParse("Bank", BankABI)
	Timer      = mustParse("Timer", TimerABI)
	Trust      = mustParse("Trust", TrustABI)
)

var rawABIs = map[string]string{
	"IntAccessI": IntAccessIABI,
	"ExtAccessI": ExtAccessIABI,
	"SetupI":     SetupIABI,
	"Pool":       PoolABI,
	"Bond":       BondABI,
	"Policy":     PolicyABI,
	"Settlement": SettlementABI,
	"Adjustor":   AdjustorABI,
	"Bank":       BankABI,
	"Timer":      TimerABI,
	"Trust":      TrustABI,
}

// ParseABI parses a JSON ABI definition.
func ParseABI(definition string) (abi.ABI, error) {
	return abi.JSON(strings.NewReader(definition))
}

func mustParse(name, definition string) *abi.ABI {
	parsed, err := ParseABI(definition)
	if err != nil {
		panic(fmt.Sprintf("contracts: parse %s ABI: %v", name, err))
	}
	return &parsed
}

// EventID returns the topic[0] signature hash of the named event.
func EventID(contract *abi.ABI, name string) (common.Hash, error) {
	ev, ok := contract.Events[name]
	if !ok {
		return common.Hash{}, fmt.Errorf("event %s not found in ABI", name)
	}
	return ev.ID, nil
}

// MustEventID is EventID for events known to exist in the embedded ABIs.
func MustEventID(contract *abi.ABI, name string) common.Hash {
	id, err := EventID(contract, name)
	if err != nil {
		panic(err)
	}
	return id
}

// Names lists the contract interfaces known to the gateway, sorted.
func Names() []string {
	names := make([]string, 0, len(rawABIs))
	for name := range rawABIs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RawABI returns the JSON definition of the named contract interface.
func RawABI(name string) (string, bool) {
	def, ok := rawABIs[name]
	return def, ok
}
