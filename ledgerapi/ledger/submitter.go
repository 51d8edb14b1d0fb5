package ledger

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"

	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
)

// Submitter signs contract calls with a caller-supplied key and broadcasts
// them as legacy EIP-155 transactions.
type Submitter struct {
	sender   TxSender
	gasPrice *big.Int
	gasLimit uint64
	logger   zerolog.Logger

	// mu spans nonce lookup to broadcast; two submissions with one key
	// must not pick the same pending nonce.
	mu sync.Mutex
}

// NewSubmitter creates a Submitter using fixed gas settings.
func NewSubmitter(sender TxSender, gasPrice, gasLimit uint64, logger zerolog.Logger) *Submitter {
	return &Submitter{
		sender:   sender,
		gasPrice: new(big.Int).SetUint64(gasPrice),
		gasLimit: gasLimit,
		logger:   logger.With().Str("component", "ledger_submitter").Logger(),
	}
}

// Submit packs method with args, signs the call with signingKey (64 hex
// characters, no prefix) and broadcasts it to to. It returns the transaction
// hash without waiting for it to be mined.
func (s *Submitter) Submit(ctx context.Context, signingKey string, contract *abi.ABI, to common.Address, method string, args ...any) (common.Hash, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(signingKey, "0x"))
	if err != nil {
		return common.Hash{}, ledgererrors.NewValidationError("signing key is not a valid private key")
	}
	from := crypto.PubkeyToAddress(key.PublicKey)

	data, err := contract.Pack(method, args...)
	if err != nil {
		return common.Hash{}, ledgererrors.NewInternalError(fmt.Sprintf("failed to pack %s", method), err)
	}

	chainID, err := s.sender.ChainID(ctx)
	if err != nil {
		return common.Hash{}, ledgererrors.NewRPCError(to.Hex(), "failed to read chain ID", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce, err := s.sender.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, ledgererrors.NewRPCError(to.Hex(), "failed to get nonce", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: s.gasPrice,
		Gas:      s.gasLimit,
		To:       &to,
		Value:    big.NewInt(0),
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.NewEIP155Signer(chainID), key)
	if err != nil {
		return common.Hash{}, ledgererrors.NewInternalError("failed to sign transaction", err)
	}

	if err := s.sender.SendTransaction(ctx, signed); err != nil {
		s.logger.Warn().
			Err(err).
			Str("method", method).
			Str("to", to.Hex()).
			Msg("transaction rejected")
		return common.Hash{}, ledgererrors.NewTransactionRejectedError(to.Hex(),
			"the transaction parameters provided were rejected by the contract", err)
	}

	s.logger.Info().
		Str("tx_hash", signed.Hash().Hex()).
		Str("method", method).
		Str("to", to.Hex()).
		Uint64("nonce", nonce).
		Msg("transaction broadcasted")

	return signed.Hash(), nil
}
