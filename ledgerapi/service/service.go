// Package service implements the gateway operations on top of the ledger
// client: ecosystem resolution, entity lists and details, event log searches,
// the timer and bank views, and the signed write transactions.
package service

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"github.com/insurepool/poolgate/ledgerapi/config"
	"github.com/insurepool/poolgate/ledgerapi/contracts"
	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
	"github.com/insurepool/poolgate/ledgerapi/ledger"
	"github.com/insurepool/poolgate/ledgerapi/logfilter"
)

// Options carries the process-wide settings a Service reports and applies.
// Without a Submitter the write operations answer with a ConfigError.
type Options struct {
	Submitter       Submitter
	Defaults        config.Defaults
	EnvironmentName string
	Web3Endpoints   []string
}

// Service answers gateway requests. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	client   ledger.Client
	receipts ledger.ReceiptReader
	filters  *logfilter.Builder
	opts     Options
	logger   zerolog.Logger
}

// New creates a Service. receipts may be nil when transaction lookups are
// not served.
func New(client ledger.Client, receipts ledger.ReceiptReader, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		client:   client,
		receipts: receipts,
		filters:  logfilter.NewBuilder(client, opts.Defaults.LookbackBlocks),
		opts:     opts,
		logger:   logger.With().Str("component", "service").Logger(),
	}
}

// ContractAddresses is the set of contracts forming one ecosystem.
type ContractAddresses struct {
	TrustContractAdr      string `json:"trust_contract_adr"`
	PoolContractAdr       string `json:"pool_contract_adr"`
	BondContractAdr       string `json:"bond_contract_adr"`
	BankContractAdr       string `json:"bank_contract_adr"`
	PolicyContractAdr     string `json:"policy_contract_adr"`
	SettlementContractAdr string `json:"settlement_contract_adr"`
	AdjustorContractAdr   string `json:"adjustor_contract_adr"`
	TimerContractAdr      string `json:"timer_contract_adr"`

	trust, pool, bond, bank, policy, settlement, adjustor, timer common.Address
}

// ContractAddresses resolves the ecosystem that contractAdr belongs to. Any
// contract of the ecosystem can be used as the entry point.
func (s *Service) ContractAddresses(ctx context.Context, contractAdr string) (ContractAddresses, error) {
	return s.ecosystem(ctx, contractAdr)
}

// ecosystem runs before every entity call. Failure to resolve means the
// address is not part of a pool ecosystem.
func (s *Service) ecosystem(ctx context.Context, contractAdr string) (ContractAddresses, error) {
	address, err := parseAddress(contractAdr)
	if err != nil {
		return ContractAddresses{}, err
	}

	values, err := s.client.Call(ctx, contracts.IntAccessI, address, "getContractAdr")
	if err != nil {
		s.logger.Debug().Err(err).Str("contract", contractAdr).Msg("ecosystem lookup failed")
		return ContractAddresses{}, ledgererrors.NewInvalidContractAddressError(contractAdr, err)
	}
	out := &outputs{method: "getContractAdr", values: values}

	adr := make([]common.Address, 8)
	for i := range adr {
		adr[i] = out.address(i)
	}
	if err := out.Err(); err != nil {
		return ContractAddresses{}, ledgererrors.NewInvalidContractAddressError(contractAdr, err)
	}

	return ContractAddresses{
		TrustContractAdr:      lowerHex(adr[0]),
		PoolContractAdr:       lowerHex(adr[1]),
		BondContractAdr:       lowerHex(adr[2]),
		BankContractAdr:       lowerHex(adr[3]),
		PolicyContractAdr:     lowerHex(adr[4]),
		SettlementContractAdr: lowerHex(adr[5]),
		AdjustorContractAdr:   lowerHex(adr[6]),
		TimerContractAdr:      lowerHex(adr[7]),
		trust:                 adr[0],
		pool:                  adr[1],
		bond:                  adr[2],
		bank:                  adr[3],
		policy:                adr[4],
		settlement:            adr[5],
		adjustor:              adr[6],
		timer:                 adr[7],
	}, nil
}

// call runs a read-only contract method and wraps its outputs for typed access.
func (s *Service) call(ctx context.Context, contract *abi.ABI, address common.Address, method string, args ...any) (*outputs, error) {
	values, err := s.client.Call(ctx, contract, address, method, args...)
	if err != nil {
		return nil, err
	}
	return &outputs{method: method, values: values}, nil
}

// callUint reads a single uint256 getter.
func (s *Service) callUint(ctx context.Context, contract *abi.ABI, address common.Address, method string, args ...any) (uint64, error) {
	out, err := s.call(ctx, contract, address, method, args...)
	if err != nil {
		return 0, err
	}
	v := out.number(0)
	return v, out.Err()
}

// callBool reads a single bool getter.
func (s *Service) callBool(ctx context.Context, contract *abi.ABI, address common.Address, method string, args ...any) (bool, error) {
	out, err := s.call(ctx, contract, address, method, args...)
	if err != nil {
		return false, err
	}
	v := out.flag(0)
	return v, out.Err()
}

// logQuery builds the filter for one event and fetches the matching logs.
func (s *Service) logQuery(ctx context.Context, address common.Address, contract *abi.ABI, event string, req logfilter.Request) ([]types.Log, error) {
	eventID, err := contracts.EventID(contract, event)
	if err != nil {
		return nil, ledgererrors.NewInternalError("unknown event", err)
	}
	req.Address = address
	req.Event = eventID

	query, rng, err := s.filters.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	logs, err := s.client.FilterLogs(ctx, query)
	if err != nil {
		return nil, err
	}

	ev := s.logger.Debug().Str("event", event).Uint64("from_block", rng.From).Int("logs", len(logs))
	if rng.To != nil {
		ev = ev.Uint64("to_block", *rng.To)
	}
	ev.Msg("event logs fetched")
	return logs, nil
}

func parseAddress(value string) (common.Address, error) {
	if !hexcodec.ValidAddress(value, true) {
		return common.Address{}, ledgererrors.NewValidationError("contract address must be a 0x-prefixed 20-byte hex value")
	}
	return common.HexToAddress(value), nil
}

// hashArg converts a hash string into a bytes32 call argument.
func hashArg(hash string) ([32]byte, error) {
	padded, err := hexcodec.PadRight32(hash)
	if err != nil {
		return [32]byte{}, err
	}
	return [32]byte(common.HexToHash(padded)), nil
}

func uintArg(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

func lowerHex(a common.Address) string {
	return strings.ToLower(a.Hex())
}
