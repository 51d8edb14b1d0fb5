package logdecoder

import "github.com/ethereum/go-ethereum/core/types"

// Event layouts of the pool contracts. Topic indices count from 1 because
// topic 0 carries the event signature.
var (
	BondLayout = Layout{Event: "LogBond", Topics: 3, Words: 2, Fields: []Field{
		{Name: "hash", Source: Topic, Index: 1, Kind: KindHash},
		{Name: "owner", Source: Topic, Index: 2, Kind: KindAddress},
		{Name: "timestamp", Source: Word, Index: 0, Kind: KindUint},
		{Name: "state", Source: Word, Index: 1, Kind: KindEnum, Enum: &BondStates},
		{Name: "info", Source: Topic, Index: 3, Kind: KindInfo, Info: InfoBond},
	}}

	PolicyLayout = Layout{Event: "LogPolicy", Topics: 3, Words: 2, Fields: []Field{
		{Name: "hash", Source: Topic, Index: 1, Kind: KindHash},
		{Name: "owner", Source: Topic, Index: 2, Kind: KindAddress},
		{Name: "info", Source: Topic, Index: 3, Kind: KindInfo, Info: InfoNumericOrHash},
		{Name: "timestamp", Source: Word, Index: 0, Kind: KindUint},
		{Name: "state", Source: Word, Index: 1, Kind: KindEnum, Enum: &PolicyStates},
	}}

	SettlementLayout = Layout{Event: "LogSettlement", Topics: 3, Words: 2, Fields: []Field{
		{Name: "settlementHash", Source: Topic, Index: 1, Kind: KindHash},
		{Name: "adjustorHash", Source: Topic, Index: 2, Kind: KindHash},
		{Name: "info", Source: Topic, Index: 3, Kind: KindInfo, Info: InfoRaw},
		{Name: "timestamp", Source: Word, Index: 0, Kind: KindUint},
		{Name: "state", Source: Word, Index: 1, Kind: KindEnum, Enum: &SettlementStates},
	}}

	AdjustorLayout = Layout{Event: "LogAdjustor", Topics: 3, Words: 1, Fields: []Field{
		{Name: "hash", Source: Topic, Index: 1, Kind: KindHash},
		{Name: "owner", Source: Topic, Index: 2, Kind: KindAddress},
		{Name: "info", Source: Topic, Index: 3, Kind: KindInfo, Info: InfoNumericOrHash},
		{Name: "timestamp", Source: Word, Index: 0, Kind: KindUint},
	}}

	BankLayout = Layout{Event: "LogBank", Topics: 3, Words: 6, Fields: []Field{
		{Name: "internalReferenceHash", Source: Topic, Index: 1, Kind: KindHash},
		{Name: "accountType", Source: Topic, Index: 2, Kind: KindEnum, Enum: &AccountTypes},
		{Name: "success", Source: Topic, Index: 3, Kind: KindBool},
		{Name: "paymentAccountHash", Source: Word, Index: 0, Kind: KindHash},
		{Name: "paymentSubject", Source: Word, Index: 1, Kind: KindInfo, Info: InfoNumericPrefix},
		{Name: "info", Source: Word, Index: 2, Kind: KindInfo, Info: InfoASCIIOrZero},
		{Name: "timestamp", Source: Word, Index: 3, Kind: KindUint},
		{Name: "transactionType", Source: Word, Index: 4, Kind: KindEnum, Enum: &TransactionTypes},
		{Name: "amount", Source: Word, Index: 5, Kind: KindUint},
	}}

	PoolLayout = Layout{Event: "LogPool", Topics: 3, Words: 1, Fields: []Field{
		{Name: "subject", Source: Topic, Index: 1, Kind: KindASCII},
		{Name: "day", Source: Topic, Index: 2, Kind: KindUint},
		{Name: "value", Source: Topic, Index: 3, Kind: KindUint},
		{Name: "timestamp", Source: Word, Index: 0, Kind: KindUint},
	}}

	TrustLayout = Layout{Event: "LogTrust", Topics: 3, Words: 1, Fields: []Field{
		{Name: "subject", Source: Topic, Index: 1, Kind: KindASCII},
		{Name: "address", Source: Topic, Index: 2, Kind: KindAddress},
		{Name: "info", Source: Topic, Index: 3, Kind: KindInfo, Info: InfoBlankSentinel},
		{Name: "timestamp", Source: Word, Index: 0, Kind: KindUint},
	}}
)

type BondLog struct {
	BlockNumber uint64    `json:"block_number"`
	Hash        string    `json:"hash"`
	Owner       string    `json:"owner"`
	Info        string    `json:"info"`
	Timestamp   uint64    `json:"timestamp"`
	State       BondState `json:"state"`
}

func (l BondLog) PrimaryHash() string  { return l.Hash }
func (l BondLog) LogTimestamp() uint64 { return l.Timestamp }

func NewBondLog(r *Record) BondLog {
	return BondLog{
		BlockNumber: r.BlockNumber,
		Hash:        r.String("hash"),
		Owner:       r.String("owner"),
		Info:        r.String("info"),
		Timestamp:   r.Uint("timestamp"),
		State:       BondState(r.Ordinal("state")),
	}
}

type PolicyLog struct {
	BlockNumber uint64      `json:"block_number"`
	Hash        string      `json:"hash"`
	Owner       string      `json:"owner"`
	Info        string      `json:"info"`
	Timestamp   uint64      `json:"timestamp"`
	State       PolicyState `json:"state"`
}

func (l PolicyLog) PrimaryHash() string  { return l.Hash }
func (l PolicyLog) LogTimestamp() uint64 { return l.Timestamp }

func NewPolicyLog(r *Record) PolicyLog {
	return PolicyLog{
		BlockNumber: r.BlockNumber,
		Hash:        r.String("hash"),
		Owner:       r.String("owner"),
		Info:        r.String("info"),
		Timestamp:   r.Uint("timestamp"),
		State:       PolicyState(r.Ordinal("state")),
	}
}

type SettlementLog struct {
	BlockNumber    uint64          `json:"block_number"`
	SettlementHash string          `json:"settlement_hash"`
	AdjustorHash   string          `json:"adjustor_hash"`
	Info           string          `json:"info"`
	Timestamp      uint64          `json:"timestamp"`
	State          SettlementState `json:"state"`
}

func (l SettlementLog) PrimaryHash() string  { return l.SettlementHash }
func (l SettlementLog) LogTimestamp() uint64 { return l.Timestamp }

func NewSettlementLog(r *Record) SettlementLog {
	return SettlementLog{
		BlockNumber:    r.BlockNumber,
		SettlementHash: r.String("settlementHash"),
		AdjustorHash:   r.String("adjustorHash"),
		Info:           r.String("info"),
		Timestamp:      r.Uint("timestamp"),
		State:          SettlementState(r.Ordinal("state")),
	}
}

type AdjustorLog struct {
	BlockNumber uint64 `json:"block_number"`
	Hash        string `json:"hash"`
	Owner       string `json:"owner"`
	Info        string `json:"info"`
	Timestamp   uint64 `json:"timestamp"`
}

func (l AdjustorLog) PrimaryHash() string  { return l.Hash }
func (l AdjustorLog) LogTimestamp() uint64 { return l.Timestamp }

func NewAdjustorLog(r *Record) AdjustorLog {
	return AdjustorLog{
		BlockNumber: r.BlockNumber,
		Hash:        r.String("hash"),
		Owner:       r.String("owner"),
		Info:        r.String("info"),
		Timestamp:   r.Uint("timestamp"),
	}
}

type BankLog struct {
	BlockNumber           uint64          `json:"block_number"`
	InternalReferenceHash string          `json:"internal_reference_hash"`
	AccountType           AccountType     `json:"account_type"`
	Success               bool            `json:"success"`
	PaymentAccountHash    string          `json:"payment_account_hash"`
	PaymentSubject        string          `json:"payment_subject"`
	Info                  string          `json:"info"`
	Timestamp             uint64          `json:"timestamp"`
	TransactionType       TransactionType `json:"transaction_type"`
	Amount                uint64          `json:"amount"`
}

func NewBankLog(r *Record) BankLog {
	return BankLog{
		BlockNumber:           r.BlockNumber,
		InternalReferenceHash: r.String("internalReferenceHash"),
		AccountType:           AccountType(r.Ordinal("accountType")),
		Success:               r.Bool("success"),
		PaymentAccountHash:    r.String("paymentAccountHash"),
		PaymentSubject:        r.String("paymentSubject"),
		Info:                  r.String("info"),
		Timestamp:             r.Uint("timestamp"),
		TransactionType:       TransactionType(r.Ordinal("transactionType")),
		Amount:                r.Uint("amount"),
	}
}

type PoolLog struct {
	BlockNumber uint64 `json:"block_number"`
	Subject     string `json:"subject"`
	Day         uint64 `json:"day"`
	Value       uint64 `json:"value"`
	Timestamp   uint64 `json:"timestamp"`
}

func NewPoolLog(r *Record) PoolLog {
	return PoolLog{
		BlockNumber: r.BlockNumber,
		Subject:     r.String("subject"),
		Day:         r.Uint("day"),
		Value:       r.Uint("value"),
		Timestamp:   r.Uint("timestamp"),
	}
}

type TrustLog struct {
	BlockNumber uint64 `json:"block_number"`
	Subject     string `json:"subject"`
	Address     string `json:"address"`
	Info        string `json:"info"`
	Timestamp   uint64 `json:"timestamp"`
}

func NewTrustLog(r *Record) TrustLog {
	return TrustLog{
		BlockNumber: r.BlockNumber,
		Subject:     r.String("subject"),
		Address:     r.String("address"),
		Info:        r.String("info"),
		Timestamp:   r.Uint("timestamp"),
	}
}

// Decoder pairs a layout with the constructor of its typed record.
type Decoder[T any] struct {
	Layout Layout
	Build  func(*Record) T
}

var (
	Bonds       = Decoder[BondLog]{Layout: BondLayout, Build: NewBondLog}
	Policies    = Decoder[PolicyLog]{Layout: PolicyLayout, Build: NewPolicyLog}
	Settlements = Decoder[SettlementLog]{Layout: SettlementLayout, Build: NewSettlementLog}
	Adjustors   = Decoder[AdjustorLog]{Layout: AdjustorLayout, Build: NewAdjustorLog}
	BankLogs    = Decoder[BankLog]{Layout: BankLayout, Build: NewBankLog}
	PoolLogs    = Decoder[PoolLog]{Layout: PoolLayout, Build: NewPoolLog}
	TrustLogs   = Decoder[TrustLog]{Layout: TrustLayout, Build: NewTrustLog}
)

// Decode converts node logs (ascending) into typed records, newest first.
func (d Decoder[T]) Decode(logs []types.Log) ([]T, error) {
	return DecodeAll(d.Layout, FromEthLogs(logs), d.Build)
}
