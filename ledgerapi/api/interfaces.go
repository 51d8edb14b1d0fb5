package api

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/insurepool/poolgate/ledgerapi/cron"
	"github.com/insurepool/poolgate/ledgerapi/ledger"
	"github.com/insurepool/poolgate/ledgerapi/logdecoder"
	"github.com/insurepool/poolgate/ledgerapi/service"
	"github.com/insurepool/poolgate/ledgerapi/store"
)

// Ledger defines the ledger operations the API server exposes.
type Ledger interface {
	ContractAddresses(ctx context.Context, contractAdr string) (service.ContractAddresses, error)
	Status(ctx context.Context, contractAdr string) (service.EcosystemStatus, error)
	Configuration(ctx context.Context, contractAdr string) (service.EcosystemConfiguration, error)
	PoolLogs(ctx context.Context, contractAdr string, q service.PoolLogQuery) ([]logdecoder.PoolLog, error)
	TrustLogs(ctx context.Context, contractAdr string, q service.TrustLogQuery) ([]logdecoder.TrustLog, error)
	AuthKeys(ctx context.Context, contractAdr string) (service.AuthKeys, error)

	BondList(ctx context.Context, contractAdr, owner string, fromIdx, maxEntries uint64) (service.List[service.Bond], error)
	BondDetail(ctx context.Context, contractAdr, hash string, idx uint64) (service.Bond, error)
	BondLogs(ctx context.Context, contractAdr string, q service.LogQuery) ([]logdecoder.BondLog, error)
	PolicyList(ctx context.Context, contractAdr, owner string, fromIdx, maxEntries uint64) (service.List[service.Policy], error)
	PolicyDetail(ctx context.Context, contractAdr, hash string, idx uint64) (service.Policy, error)
	PolicyLogs(ctx context.Context, contractAdr string, q service.LogQuery) ([]logdecoder.PolicyLog, error)
	SettlementList(ctx context.Context, contractAdr string, fromIdx, maxEntries uint64) (service.List[service.Settlement], error)
	SettlementDetail(ctx context.Context, contractAdr, hash string, idx uint64) (service.Settlement, error)
	SettlementLogs(ctx context.Context, contractAdr string, q service.LogQuery) ([]logdecoder.SettlementLog, error)
	AdjustorList(ctx context.Context, contractAdr string, fromIdx, maxEntries uint64) (service.List[service.Adjustor], error)
	AdjustorDetail(ctx context.Context, contractAdr, hash string, idx uint64) (service.Adjustor, error)
	AdjustorLogs(ctx context.Context, contractAdr string, q service.LogQuery) ([]logdecoder.AdjustorLog, error)

	BankLogs(ctx context.Context, contractAdr string, q service.BankLogQuery) ([]logdecoder.BankLog, error)
	PaymentAdvice(ctx context.Context, contractAdr string) ([]service.PaymentAdvice, error)

	Notifications(ctx context.Context, contractAdr string, fromTime, toTime uint64) ([]service.Notification, error)
	TimerAddress(ctx context.Context, contractAdr string) (common.Address, error)

	Receipt(ctx context.Context, txHash string, maxWait time.Duration) (ledger.ReceiptSummary, error)
	Environment(pingInterval time.Duration) service.Environment

	Writer
}

// Writer defines the signed write operations. Each answers with the hash of
// the broadcast transaction.
type Writer interface {
	CreateBond(ctx context.Context, req service.BondRequest) (service.TransactionHash, error)
	CreatePolicy(ctx context.Context, req service.PolicyRequest) (service.TransactionHash, error)
	UpdatePolicy(ctx context.Context, req service.PolicyRequest) (service.TransactionHash, error)
	SuspendPolicy(ctx context.Context, req service.Signed, policyHash string) (service.TransactionHash, error)
	UnsuspendPolicy(ctx context.Context, req service.Signed, policyHash string) (service.TransactionHash, error)
	RetirePolicy(ctx context.Context, req service.Signed, policyHash string) (service.TransactionHash, error)
	CreateAdjustor(ctx context.Context, req service.AdjustorRequest) (service.TransactionHash, error)
	UpdateAdjustor(ctx context.Context, req service.AdjustorRequest) (service.TransactionHash, error)
	RetireAdjustor(ctx context.Context, req service.Signed, adjustorHash string) (service.TransactionHash, error)
	CreateSettlement(ctx context.Context, req service.SettlementRequest) (service.TransactionHash, error)
	AddSettlementInfo(ctx context.Context, req service.SettlementRequest) (service.TransactionHash, error)
	CloseSettlement(ctx context.Context, req service.SettlementRequest) (service.TransactionHash, error)
	SetExpectedSettlementAmount(ctx context.Context, req service.SettlementRequest) (service.TransactionHash, error)
	ProcessPaymentAdvice(ctx context.Context, req service.Signed, adviceIdx, bankTransactionIdx uint64) (service.TransactionHash, error)
	ProcessAccountCredit(ctx context.Context, req service.AccountCreditRequest) (service.TransactionHash, error)
	SetWcExpenses(ctx context.Context, req service.Signed, amount uint64) (service.TransactionHash, error)
	AdjustDaylightSaving(ctx context.Context, req service.Signed) (service.TransactionHash, error)
	PreAuth(ctx context.Context, req service.Signed) (service.TransactionHash, error)
	AddAuthKey(ctx context.Context, req service.Signed, keyToAddAdr string) (service.TransactionHash, error)
	RotateAuthKey(ctx context.Context, req service.Signed) (service.TransactionHash, error)
}

// PingScheduler controls the periodic timer ping.
type PingScheduler interface {
	Configure(cfg cron.PingConfig) error
	PingNow(ctx context.Context) (common.Hash, error)
	Interval() time.Duration
}

// PingHistory lists recorded ping executions.
type PingHistory interface {
	RecentPings(limit int) ([]store.PingExecution, error)
}

// HealthChecker reports whether the ledger endpoints answer.
type HealthChecker interface {
	IsHealthy(ctx context.Context) bool
}
