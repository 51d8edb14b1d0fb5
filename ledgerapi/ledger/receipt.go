package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
)

// receiptPollInterval is the pause between receipt lookups.
var receiptPollInterval = time.Second

// WaitForReceipt polls for the receipt of txHash until it is mined or maxWait
// elapses. An unmined transaction at the deadline is a not-found error.
func WaitForReceipt(ctx context.Context, reader ReceiptReader, txHash common.Hash, maxWait time.Duration) (*types.Receipt, error) {
	polls := int(maxWait / receiptPollInterval)
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for attempt := 0; ; attempt++ {
		receipt, err := reader.TransactionReceipt(ctx, txHash)
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, ledgererrors.NewRPCError("", "failed to get transaction receipt", err)
		}
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if attempt >= polls {
			return nil, ledgererrors.NewNotFoundError(
				"specified transaction hash could not be found or the transaction has not been mined yet")
		}

		select {
		case <-ctx.Done():
			return nil, ledgererrors.NewTimeoutError("receipt wait cancelled")
		case <-ticker.C:
		}
	}
}

// ReceiptSummary is the client-facing view of a mined transaction.
type ReceiptSummary struct {
	TransactionHash      string   `json:"transaction_hash"`
	TransactionIndex     uint     `json:"transaction_index"`
	BlockHash            string   `json:"block_hash"`
	BlockNumber          uint64   `json:"block_number"`
	GasUsed              uint64   `json:"gas_used"`
	CumulativeGasUsed    uint64   `json:"cumulative_gas_used"`
	Success              bool     `json:"success"`
	ContractAddress      string   `json:"contract_address,omitempty"`
	LogCount             int      `json:"log_count"`
	ContractReferenceAdr []string `json:"contract_reference_adr"`
	ObjectReferenceHash  []string `json:"object_reference_hash"`
}

// Summarize flattens a receipt. Each log contributes its emitting contract
// and its first indexed topic, which is the primary hash of the entity the
// log belongs to.
func Summarize(r *types.Receipt) ReceiptSummary {
	s := ReceiptSummary{
		TransactionHash:      r.TxHash.Hex(),
		TransactionIndex:     r.TransactionIndex,
		BlockHash:            r.BlockHash.Hex(),
		GasUsed:              r.GasUsed,
		CumulativeGasUsed:    r.CumulativeGasUsed,
		Success:              r.Status == types.ReceiptStatusSuccessful,
		LogCount:             len(r.Logs),
		ContractReferenceAdr: make([]string, 0, len(r.Logs)),
		ObjectReferenceHash:  make([]string, 0, len(r.Logs)),
	}
	if r.BlockNumber != nil {
		s.BlockNumber = r.BlockNumber.Uint64()
	}
	if r.ContractAddress != (common.Address{}) {
		s.ContractAddress = r.ContractAddress.Hex()
	}
	for _, l := range r.Logs {
		s.ContractReferenceAdr = append(s.ContractReferenceAdr, l.Address.Hex())
		ref := ""
		if len(l.Topics) > 1 {
			ref = l.Topics[1].Hex()
		}
		s.ObjectReferenceHash = append(s.ObjectReferenceHash, ref)
	}
	return s
}
