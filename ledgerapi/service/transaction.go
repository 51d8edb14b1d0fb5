package service

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/insurepool/poolgate/ledgerapi/contracts"
	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
	"github.com/insurepool/poolgate/ledgerapi/ledger"
)

// Receipt waits for txHash to be mined and summarises its receipt. A zero
// maxWait uses the configured default.
func (s *Service) Receipt(ctx context.Context, txHash string, maxWait time.Duration) (ledger.ReceiptSummary, error) {
	if s.receipts == nil {
		return ledger.ReceiptSummary{}, ledgererrors.NewInternalError("transaction lookups are not enabled", nil)
	}
	if !hexcodec.ValidHash(txHash, true) {
		return ledger.ReceiptSummary{}, ledgererrors.NewValidationError("transaction hash must be a 0x-prefixed 32-byte hex value")
	}
	if maxWait == 0 {
		maxWait = s.opts.Defaults.ReceiptWait
	}

	receipt, err := ledger.WaitForReceipt(ctx, s.receipts, common.HexToHash(txHash), maxWait)
	if err != nil {
		return ledger.ReceiptSummary{}, err
	}
	return ledger.Summarize(receipt), nil
}

// Environment describes the hosting setup of this gateway.
type Environment struct {
	EnvironmentName                      string            `json:"environment_name"`
	MaxWaitDurationForTransactionReceipt uint64            `json:"max_wait_duration_for_transaction_receipt"`
	DefaultNumberEntriesForLazyLoading   uint64            `json:"default_number_entries_for_lazy_loading"`
	DefaultBlockRangeForEventLogLoading  uint64            `json:"default_block_range_for_event_log_loading"`
	DefaultGasPrice                      uint64            `json:"default_gas_price"`
	DefaultGasLimit                      uint64            `json:"default_gas_limit"`
	Web3URLEndpoints                     []string          `json:"web3_url_endpoints"`
	AutoSchedulePingDuration             uint64            `json:"auto_schedule_ping_duration"`
	ABIs                                 map[string]string `json:"abis"`
}

// Environment reports the configured defaults together with the current
// auto-ping interval.
func (s *Service) Environment(pingInterval time.Duration) Environment {
	d := s.opts.Defaults
	env := Environment{
		EnvironmentName:                      s.opts.EnvironmentName,
		MaxWaitDurationForTransactionReceipt: uint64(d.ReceiptWait / time.Second),
		DefaultNumberEntriesForLazyLoading:   d.PageSize,
		DefaultBlockRangeForEventLogLoading:  d.LookbackBlocks,
		DefaultGasPrice:                      d.GasPrice,
		DefaultGasLimit:                      d.GasLimit,
		Web3URLEndpoints:                     append([]string{}, s.opts.Web3Endpoints...),
		AutoSchedulePingDuration:             uint64(pingInterval / time.Second),
		ABIs:                                 make(map[string]string),
	}
	for _, name := range contracts.Names() {
		if raw, ok := contracts.RawABI(name); ok {
			env.ABIs[name] = raw
		}
	}
	return env
}
