package logdecoder

import (
	"fmt"
	"strconv"
)

// EnumSpec names the ordinals of one closed contract enum. Order matters:
// ordinals are the positions in Values.
type EnumSpec struct {
	Name   string
	Values []string
}

// Valid reports whether ordinal is in range.
func (e EnumSpec) Valid(ordinal uint64) bool {
	return ordinal < uint64(len(e.Values))
}

// Parse accepts either a value name or its ordinal in decimal.
func (e EnumSpec) Parse(s string) (int, error) {
	for i, v := range e.Values {
		if v == s {
			return i, nil
		}
	}
	if n, err := strconv.ParseUint(s, 10, 8); err == nil && e.Valid(n) {
		return int(n), nil
	}
	return 0, fmt.Errorf("%q is not a valid %s", s, e.Name)
}

func (e EnumSpec) name(ordinal int) string {
	if ordinal < 0 || ordinal >= len(e.Values) {
		return fmt.Sprintf("%s(%d)", e.Name, ordinal)
	}
	return e.Values[ordinal]
}

func (e EnumSpec) unmarshal(text []byte) (int, error) {
	return e.Parse(string(text))
}

var (
	BondStates = EnumSpec{Name: "BondState", Values: []string{
		"Created", "SecuredBondPrincipal", "SecuredReferenceBond", "Signed",
		"Issued", "LockedReferenceBond", "Defaulted", "Matured",
	}}
	PolicyStates = EnumSpec{Name: "PolicyState", Values: []string{
		"Paused", "Issued", "Lapsed", "PostLapsed", "Retired",
	}}
	SettlementStates = EnumSpec{Name: "SettlementState", Values: []string{
		"Created", "Processing", "Settled",
	}}
	AccountTypes = EnumSpec{Name: "AccountType", Values: []string{
		"PremiumAccount", "BondAccount", "FundingAccount",
	}}
	TransactionTypes = EnumSpec{Name: "TransactionType", Values: []string{
		"Credit", "Debit",
	}}
	PaymentAdviceTypes = EnumSpec{Name: "PaymentAdviceType", Values: []string{
		"PremiumRefund", "Premium", "BondMaturity", "Overflow",
		"PoolOperator", "ServiceProvider", "Trust",
	}}
	SuccessFilters = EnumSpec{Name: "SuccessFilter", Values: []string{
		"All", "Positive", "Negative",
	}}
)

type BondState int

const (
	BondCreated BondState = iota
	BondSecuredBondPrincipal
	BondSecuredReferenceBond
	BondSigned
	BondIssued
	BondLockedReferenceBond
	BondDefaulted
	BondMatured
)

func (s BondState) String() string { return BondStates.name(int(s)) }
func (s BondState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s *BondState) UnmarshalText(text []byte) error {
	v, err := BondStates.unmarshal(text)
	*s = BondState(v)
	return err
}

type PolicyState int

const (
	PolicyPaused PolicyState = iota
	PolicyIssued
	PolicyLapsed
	PolicyPostLapsed
	PolicyRetired
)

func (s PolicyState) String() string { return PolicyStates.name(int(s)) }
func (s PolicyState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s *PolicyState) UnmarshalText(text []byte) error {
	v, err := PolicyStates.unmarshal(text)
	*s = PolicyState(v)
	return err
}

type SettlementState int

const (
	SettlementCreated SettlementState = iota
	SettlementProcessing
	SettlementSettled
)

func (s SettlementState) String() string { return SettlementStates.name(int(s)) }
func (s SettlementState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s *SettlementState) UnmarshalText(text []byte) error {
	v, err := SettlementStates.unmarshal(text)
	*s = SettlementState(v)
	return err
}

type AccountType int

const (
	PremiumAccount AccountType = iota
	BondAccount
	FundingAccount
)

func (a AccountType) String() string { return AccountTypes.name(int(a)) }
func (a AccountType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
func (a *AccountType) UnmarshalText(text []byte) error {
	v, err := AccountTypes.unmarshal(text)
	*a = AccountType(v)
	return err
}

type TransactionType int

const (
	Credit TransactionType = iota
	Debit
)

func (t TransactionType) String() string { return TransactionTypes.name(int(t)) }
func (t TransactionType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
func (t *TransactionType) UnmarshalText(text []byte) error {
	v, err := TransactionTypes.unmarshal(text)
	*t = TransactionType(v)
	return err
}

type PaymentAdviceType int

const (
	AdvicePremiumRefund PaymentAdviceType = iota
	AdvicePremium
	AdviceBondMaturity
	AdviceOverflow
	AdvicePoolOperator
	AdviceServiceProvider
	AdviceTrust
)

func (t PaymentAdviceType) String() string { return PaymentAdviceTypes.name(int(t)) }
func (t PaymentAdviceType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
func (t *PaymentAdviceType) UnmarshalText(text []byte) error {
	v, err := PaymentAdviceTypes.unmarshal(text)
	*t = PaymentAdviceType(v)
	return err
}

// SuccessFilter selects bank log entries by outcome.
type SuccessFilter int

const (
	SuccessAll SuccessFilter = iota
	SuccessPositive
	SuccessNegative
)

func (f SuccessFilter) String() string { return SuccessFilters.name(int(f)) }
func (f SuccessFilter) MarshalText() ([]byte, error) { return []byte(f.String()), nil }
func (f *SuccessFilter) UnmarshalText(text []byte) error {
	v, err := SuccessFilters.unmarshal(text)
	*f = SuccessFilter(v)
	return err
}
