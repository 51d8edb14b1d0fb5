package contracts

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventIDs(t *testing.T) {
	tests := []struct {
		name      string
		contract  string
		event     string
		signature string
	}{
		{"bond", "Bond", "LogBond", "LogBond(bytes32,address,bytes32,uint256,uint8)"},
		{"policy", "Policy", "LogPolicy", "LogPolicy(bytes32,address,bytes32,uint256,uint8)"},
		{"settlement", "Settlement", "LogSettlement", "LogSettlement(bytes32,bytes32,bytes32,uint256,uint8)"},
		{"adjustor", "Adjustor", "LogAdjustor", "LogAdjustor(bytes32,address,bytes32,uint256)"},
		{"bank", "Bank", "LogBank", "LogBank(bytes32,uint8,bool,bytes32,bytes32,bytes32,uint256,uint8,uint256)"},
		{"pool", "Pool", "LogPool", "LogPool(bytes32,uint256,uint256,uint256)"},
		{"trust", "Trust", "LogTrust", "LogTrust(bytes32,address,bytes32,uint256)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := RawABI(tt.contract)
			require.True(t, ok)
			contract, err := ParseABI(def)
			require.NoError(t, err)

			id, err := EventID(&contract, tt.event)
			require.NoError(t, err)
			assert.Equal(t, crypto.Keccak256Hash([]byte(tt.signature)), id)
		})
	}
}

func TestEventIDUnknown(t *testing.T) {
	_, err := EventID(Bond, "LogMissing")
	assert.Error(t, err)
	assert.Panics(t, func() { MustEventID(Bond, "LogMissing") })
}

func TestListContractsShareReaders(t *testing.T) {
	for _, c := range []string{"Bond", "Policy", "Settlement", "Adjustor"} {
		def, ok := RawABI(c)
		require.True(t, ok, c)
		parsed, err := ParseABI(def)
		require.NoError(t, err)

		hashMap, ok := parsed.Methods["hashMap"]
		require.True(t, ok, c)
		assert.Len(t, hashMap.Outputs, 3)

		_, ok = parsed.Methods["get"]
		assert.True(t, ok, c)
		_, ok = parsed.Methods["dataStorage"]
		assert.True(t, ok, c)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, 11)
	assert.Contains(t, names, "IntAccessI")
	assert.IsIncreasing(t, names)
}

func TestGetContractAdrOutputs(t *testing.T) {
	method := IntAccessI.Methods["getContractAdr"]
	assert.Len(t, method.Outputs, 8)
	assert.Equal(t, "trustContractAdr", method.Outputs[0].Name)
	assert.Equal(t, "timerContractAdr", method.Outputs[7].Name)
}

func TestTransactionSignatures(t *testing.T) {
	tests := []struct {
		contract  string
		method    string
		signature string
	}{
		{"Bond", "createBond", "createBond(uint256,bytes32)"},
		{"Policy", "createPolicy", "createPolicy(bytes32,address,bytes32,uint256)"},
		{"Policy", "updatePolicy", "updatePolicy(bytes32,bytes32,bytes32,uint256)"},
		{"Policy", "retirePolicy", "retirePolicy(bytes32)"},
		{"Settlement", "closeSettlement", "closeSettlement(bytes32,bytes32,bytes32,uint256)"},
		{"Settlement", "setExpectedSettlementAmount", "setExpectedSettlementAmount(bytes32,bytes32,uint256)"},
		{"Bank", "processPaymentAdvice", "processPaymentAdvice(uint256,uint256)"},
		{"Bank", "processAccountCredit", "processAccountCredit(uint256,uint256,bytes32,bytes32,uint256)"},
		{"Trust", "createAdjustor", "createAdjustor(address,uint256,uint256,bytes32)"},
		{"Trust", "updateAdjustor", "updateAdjustor(bytes32,address,uint256,uint256,bytes32)"},
		{"Trust", "adjustDaylightSaving", "adjustDaylightSaving()"},
		{"ExtAccessI", "addKey", "addKey(address)"},
		{"ExtAccessI", "rotateKey", "rotateKey()"},
		{"Timer", "ping", "ping()"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			def, ok := RawABI(tt.contract)
			require.True(t, ok)
			parsed, err := ParseABI(def)
			require.NoError(t, err)

			method, ok := parsed.Methods[tt.method]
			require.True(t, ok)
			assert.Equal(t, tt.signature, method.Sig)
			assert.False(t, method.IsConstant())
		})
	}
}
