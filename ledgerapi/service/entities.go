package service

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/insurepool/poolgate/ledgerapi/assembler"
	"github.com/insurepool/poolgate/ledgerapi/contracts"
	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
	"github.com/insurepool/poolgate/ledgerapi/listreader"
	"github.com/insurepool/poolgate/ledgerapi/logdecoder"
	"github.com/insurepool/poolgate/ledgerapi/logfilter"
)

// List is a page of entities. Info is only set for index-based pages; owner
// listings are rebuilt from logs and carry no list summary.
type List[T any] struct {
	Info  *listreader.ListInfo `json:"info,omitempty"`
	Items []T                  `json:"items"`
}

// LogQuery selects entity logs. Empty fields are wildcards and zero block
// bounds are unset.
type LogQuery struct {
	Hash         string
	Owner        string
	AdjustorHash string
	Info         string
	FromBlock    uint64
	ToBlock      uint64
}

type Bond struct {
	Hash                  string               `json:"hash"`
	Idx                   uint64               `json:"idx"`
	Owner                 string               `json:"owner"`
	PaymentAccountHash    string               `json:"payment_account_hash"`
	Principal             uint64               `json:"principal"`
	Yield                 uint64               `json:"yield"`
	MaturityPayoutAmount  uint64               `json:"maturity_payout_amount"`
	CreationDate          uint64               `json:"creation_date"`
	NextStateExpiryDate   uint64               `json:"next_state_expiry_date"`
	MaturityDate          uint64               `json:"maturity_date"`
	State                 logdecoder.BondState `json:"state"`
	SecurityReferenceHash string               `json:"security_reference_hash"`
	Logs                  []logdecoder.BondLog `json:"logs,omitempty"`
}

type Policy struct {
	Hash                  string                 `json:"hash"`
	Idx                   uint64                 `json:"idx"`
	Owner                 string                 `json:"owner"`
	PaymentAccountHash    string                 `json:"payment_account_hash"`
	DocumentHash          string                 `json:"document_hash"`
	RiskPoints            uint64                 `json:"risk_points"`
	PremiumCredited       uint64                 `json:"premium_credited"`
	PremiumChargedToDate  uint64                 `json:"premium_charged_to_date"`
	State                 logdecoder.PolicyState `json:"state"`
	LastReconciliationDay uint64                 `json:"last_reconciliation_day"`
	NextReconciliationDay uint64                 `json:"next_reconciliation_day"`
	Logs                  []logdecoder.PolicyLog `json:"logs,omitempty"`
}

type Settlement struct {
	Hash             string                     `json:"hash"`
	Idx              uint64                     `json:"idx"`
	SettlementAmount uint64                     `json:"settlement_amount"`
	State            logdecoder.SettlementState `json:"state"`
	Logs             []logdecoder.SettlementLog `json:"logs,omitempty"`
}

type Adjustor struct {
	Hash                     string                   `json:"hash"`
	Idx                      uint64                   `json:"idx"`
	Owner                    string                   `json:"owner"`
	SettlementApprovalAmount uint64                   `json:"settlement_approval_amount"`
	PolicyRiskPointLimit     uint64                   `json:"policy_risk_point_limit"`
	ServiceAgreementHash     string                   `json:"service_agreement_hash"`
	Logs                     []logdecoder.AdjustorLog `json:"logs,omitempty"`
}

// entity describes how one list contract is read. D is the detail record
// and L the decoded log type of the contract's event.
type entity[D any, L assembler.Log] struct {
	contract *abi.ABI
	event    string
	decoder  logdecoder.Decoder[L]
	address  func(ContractAddresses) common.Address
	// topics builds the matchers for topic positions 1 to 3.
	topics func(q LogQuery) ([3]logfilter.Matcher, error)
	read   func(out *outputs) D
	attach func(d *D, hash string, history []L)
}

var bonds = &entity[Bond, logdecoder.BondLog]{
	contract: contracts.Bond,
	event:    "LogBond",
	decoder:  logdecoder.Bonds,
	address:  func(a ContractAddresses) common.Address { return a.bond },
	topics: func(q LogQuery) ([3]logfilter.Matcher, error) {
		return ownedTopics(q, logfilter.NumericOrASCII)
	},
	read: func(out *outputs) Bond {
		return Bond{
			Idx:                   out.number(0),
			Owner:                 out.addressHex(1),
			PaymentAccountHash:    out.hash(2),
			Principal:             out.number(3),
			Yield:                 out.number(4),
			MaturityPayoutAmount:  out.number(5),
			CreationDate:          out.number(6),
			NextStateExpiryDate:   out.number(7),
			MaturityDate:          out.number(8),
			State:                 logdecoder.BondState(out.enum(9, logdecoder.BondStates)),
			SecurityReferenceHash: out.hash(10),
		}
	},
	attach: func(d *Bond, hash string, history []logdecoder.BondLog) {
		d.Hash, d.Logs = hash, history
	},
}

var policies = &entity[Policy, logdecoder.PolicyLog]{
	contract: contracts.Policy,
	event:    "LogPolicy",
	decoder:  logdecoder.Policies,
	address:  func(a ContractAddresses) common.Address { return a.policy },
	topics: func(q LogQuery) ([3]logfilter.Matcher, error) {
		return ownedTopics(q, logfilter.NumericOrHash)
	},
	read: func(out *outputs) Policy {
		return Policy{
			Idx:                   out.number(0),
			Owner:                 out.addressHex(1),
			PaymentAccountHash:    out.hash(2),
			DocumentHash:          out.hash(3),
			RiskPoints:            out.number(4),
			PremiumCredited:       out.number(5),
			PremiumChargedToDate:  out.number(6),
			State:                 logdecoder.PolicyState(out.enum(7, logdecoder.PolicyStates)),
			LastReconciliationDay: out.number(8),
			NextReconciliationDay: out.number(9),
		}
	},
	attach: func(d *Policy, hash string, history []logdecoder.PolicyLog) {
		d.Hash, d.Logs = hash, history
	},
}

var settlements = &entity[Settlement, logdecoder.SettlementLog]{
	contract: contracts.Settlement,
	event:    "LogSettlement",
	decoder:  logdecoder.Settlements,
	address:  func(a ContractAddresses) common.Address { return a.settlement },
	topics: func(q LogQuery) ([3]logfilter.Matcher, error) {
		var topics [3]logfilter.Matcher
		var err error
		if topics[0], err = logfilter.Hash(q.Hash); err != nil {
			return topics, err
		}
		if topics[1], err = logfilter.Hash(q.AdjustorHash); err != nil {
			return topics, err
		}
		topics[2], err = logfilter.Hash(q.Info)
		return topics, err
	},
	read: func(out *outputs) Settlement {
		return Settlement{
			Idx:              out.number(0),
			SettlementAmount: out.number(1),
			State:            logdecoder.SettlementState(out.enum(2, logdecoder.SettlementStates)),
		}
	},
	attach: func(d *Settlement, hash string, history []logdecoder.SettlementLog) {
		d.Hash, d.Logs = hash, history
	},
}

var adjustors = &entity[Adjustor, logdecoder.AdjustorLog]{
	contract: contracts.Adjustor,
	event:    "LogAdjustor",
	decoder:  logdecoder.Adjustors,
	address:  func(a ContractAddresses) common.Address { return a.adjustor },
	topics: func(q LogQuery) ([3]logfilter.Matcher, error) {
		return ownedTopics(q, logfilter.NumericOrHash)
	},
	read: func(out *outputs) Adjustor {
		return Adjustor{
			Idx:                      out.number(0),
			Owner:                    out.addressHex(1),
			SettlementApprovalAmount: out.number(2),
			PolicyRiskPointLimit:     out.number(3),
			ServiceAgreementHash:     out.hash(4),
		}
	},
	attach: func(d *Adjustor, hash string, history []logdecoder.AdjustorLog) {
		d.Hash, d.Logs = hash, history
	},
}

// ownedTopics is the hash, owner, info layout shared by bonds, policies and
// adjustors.
func ownedTopics(q LogQuery, info func(string) (logfilter.Matcher, error)) ([3]logfilter.Matcher, error) {
	var topics [3]logfilter.Matcher
	var err error
	if topics[0], err = logfilter.Hash(q.Hash); err != nil {
		return topics, err
	}
	if topics[1], err = logfilter.Address(q.Owner); err != nil {
		return topics, err
	}
	topics[2], err = info(q.Info)
	return topics, err
}

// entitySource binds an entity to the contract resolved for one request.
type entitySource[D any, L assembler.Log] struct {
	s       *Service
	e       *entity[D, L]
	address common.Address
}

var _ listreader.Source[Bond] = entitySource[Bond, logdecoder.BondLog]{}

func bind[D any, L assembler.Log](ctx context.Context, s *Service, e *entity[D, L], contractAdr string) (entitySource[D, L], error) {
	eco, err := s.ecosystem(ctx, contractAdr)
	if err != nil {
		return entitySource[D, L]{}, err
	}
	return entitySource[D, L]{s: s, e: e, address: e.address(eco)}, nil
}

func (src entitySource[D, L]) ListInfo(ctx context.Context) (listreader.ListInfo, error) {
	return src.s.listInfo(ctx, src.e.contract, src.address)
}

func (src entitySource[D, L]) HashAt(ctx context.Context, idx uint64) (string, error) {
	out, err := src.s.call(ctx, src.e.contract, src.address, "get", uintArg(idx))
	if err != nil {
		return "", err
	}
	hash := out.hash(0)
	return hash, out.Err()
}

func (src entitySource[D, L]) Detail(ctx context.Context, hash string) (D, error) {
	var zero D
	arg, err := hashArg(hash)
	if err != nil {
		return zero, err
	}
	out, err := src.s.call(ctx, src.e.contract, src.address, "dataStorage", arg)
	if err != nil {
		return zero, err
	}
	d := src.e.read(out)
	if err := out.Err(); err != nil {
		return zero, err
	}
	src.e.attach(&d, strings.ToLower(hash), nil)
	return d, nil
}

// Logs returns the entity's logs matching q, newest first.
func (src entitySource[D, L]) Logs(ctx context.Context, q LogQuery) ([]L, error) {
	topics, err := src.e.topics(q)
	if err != nil {
		return nil, err
	}
	logs, err := src.s.logQuery(ctx, src.address, src.e.contract, src.e.event, logfilter.Request{
		Topics:    topics,
		FromBlock: q.FromBlock,
		ToBlock:   q.ToBlock,
	})
	if err != nil {
		return nil, err
	}
	return src.e.decoder.Decode(logs)
}

func (s *Service) listInfo(ctx context.Context, contract *abi.ABI, address common.Address) (listreader.ListInfo, error) {
	out, err := s.call(ctx, contract, address, "hashMap")
	if err != nil {
		return listreader.ListInfo{}, err
	}
	info := listreader.NewListInfo(out.number(0), out.number(1), out.number(2))
	return info, out.Err()
}

func getList[D any, L assembler.Log](ctx context.Context, s *Service, e *entity[D, L], contractAdr, owner string, fromIdx, maxEntries uint64) (List[D], error) {
	src, err := bind(ctx, s, e, contractAdr)
	if err != nil {
		return List[D]{}, err
	}

	if !hexcodec.IsEmpty(owner, hexcodec.KindAddress) {
		items, err := assembler.OwnerListing(ctx, owner, assembler.OwnerOps[D, L]{
			LogsByOwner: func(ctx context.Context, owner string) ([]L, error) {
				return src.Logs(ctx, LogQuery{Owner: owner})
			},
			Detail: src.Detail,
		})
		if err != nil {
			return List[D]{}, err
		}
		return List[D]{Items: items}, nil
	}

	page, err := listreader.ReadPage[D](ctx, src, fromIdx, maxEntries, s.opts.Defaults.PageSize)
	if err != nil {
		return List[D]{}, err
	}
	return List[D]{Info: &page.Info, Items: page.Items}, nil
}

func getDetail[D any, L assembler.Log](ctx context.Context, s *Service, e *entity[D, L], contractAdr, hash string, idx uint64) (D, error) {
	src, err := bind(ctx, s, e, contractAdr)
	if err != nil {
		var zero D
		return zero, err
	}
	return assembler.DetailWithHistory(ctx, hash, idx, assembler.DetailOps[D, L]{
		HashAt: src.HashAt,
		Detail: src.Detail,
		Logs: func(ctx context.Context, hash string) ([]L, error) {
			return src.Logs(ctx, LogQuery{Hash: hash})
		},
		Attach: e.attach,
	})
}

func getLogs[D any, L assembler.Log](ctx context.Context, s *Service, e *entity[D, L], contractAdr string, q LogQuery) ([]L, error) {
	src, err := bind(ctx, s, e, contractAdr)
	if err != nil {
		return nil, err
	}
	return src.Logs(ctx, q)
}

// BondList pages through bonds by index, or lists the bonds owner appears
// on when owner is set.
func (s *Service) BondList(ctx context.Context, contractAdr, owner string, fromIdx, maxEntries uint64) (List[Bond], error) {
	return getList(ctx, s, bonds, contractAdr, owner, fromIdx, maxEntries)
}

// BondDetail reads a bond by hash, or by index when hash is empty, together
// with its log history in ascending order.
func (s *Service) BondDetail(ctx context.Context, contractAdr, hash string, idx uint64) (Bond, error) {
	return getDetail(ctx, s, bonds, contractAdr, hash, idx)
}

// BondLogs searches bond events, newest first.
func (s *Service) BondLogs(ctx context.Context, contractAdr string, q LogQuery) ([]logdecoder.BondLog, error) {
	return getLogs(ctx, s, bonds, contractAdr, q)
}

func (s *Service) PolicyList(ctx context.Context, contractAdr, owner string, fromIdx, maxEntries uint64) (List[Policy], error) {
	return getList(ctx, s, policies, contractAdr, owner, fromIdx, maxEntries)
}

func (s *Service) PolicyDetail(ctx context.Context, contractAdr, hash string, idx uint64) (Policy, error) {
	return getDetail(ctx, s, policies, contractAdr, hash, idx)
}

func (s *Service) PolicyLogs(ctx context.Context, contractAdr string, q LogQuery) ([]logdecoder.PolicyLog, error) {
	return getLogs(ctx, s, policies, contractAdr, q)
}

// SettlementList pages through settlements by index.
func (s *Service) SettlementList(ctx context.Context, contractAdr string, fromIdx, maxEntries uint64) (List[Settlement], error) {
	return getList(ctx, s, settlements, contractAdr, "", fromIdx, maxEntries)
}

func (s *Service) SettlementDetail(ctx context.Context, contractAdr, hash string, idx uint64) (Settlement, error) {
	return getDetail(ctx, s, settlements, contractAdr, hash, idx)
}

// SettlementLogs searches settlement events. q.Owner is ignored; settlements
// are filtered by q.AdjustorHash instead.
func (s *Service) SettlementLogs(ctx context.Context, contractAdr string, q LogQuery) ([]logdecoder.SettlementLog, error) {
	return getLogs(ctx, s, settlements, contractAdr, q)
}

// AdjustorList pages through adjustors by index.
func (s *Service) AdjustorList(ctx context.Context, contractAdr string, fromIdx, maxEntries uint64) (List[Adjustor], error) {
	return getList(ctx, s, adjustors, contractAdr, "", fromIdx, maxEntries)
}

func (s *Service) AdjustorDetail(ctx context.Context, contractAdr, hash string, idx uint64) (Adjustor, error) {
	return getDetail(ctx, s, adjustors, contractAdr, hash, idx)
}

func (s *Service) AdjustorLogs(ctx context.Context, contractAdr string, q LogQuery) ([]logdecoder.AdjustorLog, error) {
	return getLogs(ctx, s, adjustors, contractAdr, q)
}
