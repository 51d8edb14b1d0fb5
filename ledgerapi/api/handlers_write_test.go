package api

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurepool/poolgate/ledgerapi/config"
	"github.com/insurepool/poolgate/ledgerapi/contracts"
	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
	"github.com/insurepool/poolgate/ledgerapi/ledger"
	"github.com/insurepool/poolgate/ledgerapi/service"
)

// recordingSender keeps broadcast transactions in memory.
type recordingSender struct {
	sendErr error
	sent    []*types.Transaction
}

func (f *recordingSender) ChainID(context.Context) (*big.Int, error) { return big.NewInt(31337), nil }

func (f *recordingSender) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return uint64(len(f.sent)), nil
}

func (f *recordingSender) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	return nil
}

func (f *recordingSender) last(t *testing.T, contract *abi.ABI) (*types.Transaction, string, []any) {
	t.Helper()
	require.NotEmpty(t, f.sent)
	tx := f.sent[len(f.sent)-1]
	method, err := contract.MethodById(tx.Data()[:4])
	require.NoError(t, err)
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	return tx, method.Name, args
}

func newWriteRouter(t *testing.T, sender *recordingSender) http.Handler {
	log := zerolog.New(zerolog.NewTestWriter(t))
	svc := service.New(stubClient{}, stubReceipts{}, service.Options{
		Submitter:       ledger.NewSubmitter(sender, 1, 4_712_388, log),
		Defaults:        config.Defaults{PageSize: 10, LookbackBlocks: 1000, ReceiptWait: time.Second},
		EnvironmentName: "test",
	}, log)
	return newTestRouter(t, Dependencies{Ledger: svc})
}

func query(values map[string]string) string {
	q := url.Values{}
	for k, v := range values {
		q.Set(k, v)
	}
	return q.Encode()
}

func decodeTxHash(t *testing.T, body []byte) string {
	t.Helper()
	var resp service.TransactionHash
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.TransactionHash
}

func TestWriteEndpoints(t *testing.T) {
	sender := &recordingSender{}
	router := newWriteRouter(t, sender)
	policyHash := crypto.Keccak256Hash([]byte("policy"))
	docHash := crypto.Keccak256Hash([]byte("doc"))
	owner := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	t.Run("create bond from query", func(t *testing.T) {
		target := "/bond?" + query(map[string]string{
			"contractAdr":       entryAdr.Hex(),
			"signingPrivateKey": testKey,
			"principal":         "25000",
		})
		w := do(t, router, http.MethodPost, target, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		tx, method, args := sender.last(t, contracts.Bond)
		assert.Equal(t, tx.Hash().Hex(), decodeTxHash(t, w.Body.Bytes()))
		assert.Equal(t, bondAdr, *tx.To())
		assert.Equal(t, "createBond", method)
		assert.Equal(t, []any{big.NewInt(25000), [32]byte{}}, args)
	})

	t.Run("create policy from body", func(t *testing.T) {
		body, err := json.Marshal(map[string]any{
			"contract_adr":        entryAdr.Hex(),
			"signing_private_key": testKey,
			"adjustorHash":        policyHash.Hex(),
			"owner":               owner.Hex(),
			"documentHash":        docHash.Hex(),
			"riskPoints":          300,
		})
		require.NoError(t, err)

		w := do(t, router, http.MethodPost, "/policy", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		_, method, args := sender.last(t, contracts.Policy)
		assert.Equal(t, "createPolicy", method)
		assert.Equal(t, []any{[32]byte(policyHash), owner, [32]byte(docHash), big.NewInt(300)}, args)
	})

	t.Run("body overrides query", func(t *testing.T) {
		body, err := json.Marshal(map[string]any{"amount": 42})
		require.NoError(t, err)
		target := "/ecosystem/setWcExpenses?" + query(map[string]string{
			"contractAdr":       entryAdr.Hex(),
			"signingPrivateKey": testKey,
			"amount":            "7",
		})

		w := do(t, router, http.MethodPut, target, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		_, method, args := sender.last(t, contracts.Trust)
		assert.Equal(t, "setWcExpenses", method)
		assert.Equal(t, []any{big.NewInt(42)}, args)
	})

	t.Run("close settlement reads settlementAmount", func(t *testing.T) {
		target := "/settlement/close?" + query(map[string]string{
			"contractAdr":       entryAdr.Hex(),
			"signingPrivateKey": testKey,
			"settlementHash":    policyHash.Hex(),
			"adjustorHash":      policyHash.Hex(),
			"documentHash":      docHash.Hex(),
			"settlementAmount":  "1500",
		})
		w := do(t, router, http.MethodPut, target, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		_, method, args := sender.last(t, contracts.Settlement)
		assert.Equal(t, "closeSettlement", method)
		assert.Equal(t, big.NewInt(1500), args[3])
	})

	t.Run("account credit parses the account type", func(t *testing.T) {
		target := "/bank/processaccountcredit?" + query(map[string]string{
			"contractAdr":              entryAdr.Hex(),
			"signingPrivateKey":        testKey,
			"bankTransactionIdx":       "12",
			"accountType":              "FundingAccount",
			"paymentAccountHashSender": docHash.Hex(),
			"paymentSubject":           "1001",
			"creditAmount":             "99",
		})
		w := do(t, router, http.MethodPost, target, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		_, method, args := sender.last(t, contracts.Bank)
		assert.Equal(t, "processAccountCredit", method)
		assert.Equal(t, big.NewInt(2), args[1])
		assert.Equal(t, [32]byte(common.BigToHash(big.NewInt(1001))), args[3])
	})

	t.Run("auth keys go to the given contract", func(t *testing.T) {
		target := "/authkeys/rotateauthkey?" + query(map[string]string{
			"contractAdr":       foreign,
			"signingPrivateKey": testKey,
		})
		w := do(t, router, http.MethodPut, target, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		tx, method, _ := sender.last(t, contracts.ExtAccessI)
		assert.Equal(t, common.HexToAddress(foreign), *tx.To())
		assert.Equal(t, "rotateKey", method)
	})
}

func TestWriteEndpointErrors(t *testing.T) {
	signed := map[string]string{"contractAdr": entryAdr.Hex(), "signingPrivateKey": testKey}
	withSigned := func(extra map[string]string) string {
		all := map[string]string{}
		for k, v := range signed {
			all[k] = v
		}
		for k, v := range extra {
			all[k] = v
		}
		return query(all)
	}

	tests := []struct {
		name       string
		sender     *recordingSender
		method     string
		target     string
		body       []byte
		wantStatus int
		wantCode   ledgererrors.ErrorCode
	}{
		{
			name: "missing signing key", sender: &recordingSender{},
			method: http.MethodPut, target: "/ecosystem/adjustDaylightSaving?contractAdr=" + entryAdr.Hex(),
			wantStatus: http.StatusBadRequest, wantCode: ledgererrors.ErrCodeValidation,
		},
		{
			name: "bad number", sender: &recordingSender{},
			method: http.MethodPost, target: "/bank/processpaymentadvice?" + withSigned(map[string]string{"adviceIdx": "x"}),
			wantStatus: http.StatusBadRequest, wantCode: ledgererrors.ErrCodeValidation,
		},
		{
			name: "body is not an object", sender: &recordingSender{},
			method: http.MethodPut, target: "/authkeys/preauth?" + withSigned(nil), body: []byte(`[1,2]`),
			wantStatus: http.StatusBadRequest, wantCode: ledgererrors.ErrCodeValidation,
		},
		{
			name: "short policy hash", sender: &recordingSender{},
			method: http.MethodPut, target: "/policy/suspend?" + withSigned(map[string]string{"policyHash": "0x01"}),
			wantStatus: http.StatusBadRequest, wantCode: ledgererrors.ErrCodeValidation,
		},
		{
			name: "not an ecosystem", sender: &recordingSender{},
			method: http.MethodPut, target: "/adjustor/retire?" + query(map[string]string{
				"contractAdr": foreign, "signingPrivateKey": testKey,
				"adjustorHash": crypto.Keccak256Hash([]byte("a")).Hex(),
			}),
			wantStatus: http.StatusNotAcceptable, wantCode: ledgererrors.ErrCodeInvalidContractAddress,
		},
		{
			name: "rejected by the node", sender: &recordingSender{sendErr: errors.New("execution reverted")},
			method: http.MethodPut, target: "/ecosystem/adjustDaylightSaving?" + withSigned(nil),
			wantStatus: http.StatusNotAcceptable, wantCode: ledgererrors.ErrCodeTransactionRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newWriteRouter(t, tt.sender)
			w := do(t, router, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, string(tt.wantCode), decodeError(t, w).Code)
			assert.Empty(t, tt.sender.sent)
		})
	}

	t.Run("submission disabled", func(t *testing.T) {
		router := newTestRouter(t, Dependencies{})
		w := do(t, router, http.MethodPut, "/authkeys/preauth?"+withSigned(nil), nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, string(ledgererrors.ErrCodeConfig), decodeError(t, w).Code)
	})

	t.Run("unrouted method", func(t *testing.T) {
		router := newTestRouter(t, Dependencies{})
		w := do(t, router, http.MethodDelete, "/bond", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestCamelKey(t *testing.T) {
	assert.Equal(t, "contractAdr", camelKey("contract_adr"))
	assert.Equal(t, "contractAdr", camelKey("ContractAdr"))
	assert.Equal(t, "signingPrivateKey", camelKey("signing_private_key"))
	assert.Equal(t, "keyToAddAdr", camelKey("keyToAddAdr"))
}
