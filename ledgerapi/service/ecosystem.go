package service

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/insurepool/poolgate/ledgerapi/contracts"
	"github.com/insurepool/poolgate/ledgerapi/listreader"
	"github.com/insurepool/poolgate/ledgerapi/logdecoder"
	"github.com/insurepool/poolgate/ledgerapi/logfilter"
)

// EcosystemStatus is the live state of a pool and its lists.
type EcosystemStatus struct {
	CurrentPoolDay                  uint64 `json:"current_pool_day"`
	IsWinterTime                    bool   `json:"is_winter_time"`
	DaylightSavingScheduled         bool   `json:"daylight_saving_scheduled"`
	WcBalFaCu                       uint64 `json:"wc_bal_fa_cu"`
	WcBalBaCu                       uint64 `json:"wc_bal_ba_cu"`
	WcBalPaCu                       uint64 `json:"wc_bal_pa_cu"`
	OverwriteWcExpenses             bool   `json:"overwrite_wc_expenses"`
	WcExpCu                         uint64 `json:"wc_exp_cu"`
	WcLockedCu                      uint64 `json:"wc_locked_cu"`
	WcBondCu                        uint64 `json:"wc_bond_cu"`
	WcTransitCu                     uint64 `json:"wc_transit_cu"`
	BYieldPpb                       uint64 `json:"b_yield_ppb"`
	BGradientPpq                    uint64 `json:"b_gradient_ppq"`
	BondYieldAccellerationScheduled bool   `json:"bond_yield_accelleration_scheduled"`
	BondYieldAccelerationThreshold  uint64 `json:"bond_yield_acceleration_threshold"`

	TotalIssuedPolicyRiskPoints      uint64 `json:"total_issued_policy_risk_points"`
	FundingAccountPaymentsTrackingCu uint64 `json:"funding_account_payments_tracking_cu"`
	LastPingExecution                uint64 `json:"last_ping_execution"`

	BondListInfo       listreader.ListInfo `json:"bond_list_info"`
	PolicyListInfo     listreader.ListInfo `json:"policy_list_info"`
	AdjustorListInfo   listreader.ListInfo `json:"adjustor_list_info"`
	SettlementListInfo listreader.ListInfo `json:"settlement_list_info"`
}

// EcosystemConfiguration holds the constants a pool was deployed with.
type EcosystemConfiguration struct {
	PoolName string `json:"pool_name"`

	WcPoolTargetTimeSec          uint64 `json:"wc_pool_target_time_sec"`
	DurationToBondMaturitySec    uint64 `json:"duration_to_bond_maturity_sec"`
	DurationBondLockNextStateSec uint64 `json:"duration_bond_lock_next_state_sec"`
	DurationWcExpenseHistoryDays uint64 `json:"duration_wc_expense_history_days"`
	YacPerIntervalPpb            uint64 `json:"yac_per_interval_ppb"`
	YacIntervalDurationSec       uint64 `json:"yac_interval_duration_sec"`
	YacExpenseThresholdPpt       uint64 `json:"yac_expense_threshold_ppt"`
	MinYieldPpb                  uint64 `json:"min_yield_ppb"`
	MaxYieldPpb                  uint64 `json:"max_yield_ppb"`
	MinBondPrincipalCu           uint64 `json:"min_bond_principal_cu"`
	MaxBondPrincipalCu           uint64 `json:"max_bond_principal_cu"`
	BondRequiredSecurityRefPpt   uint64 `json:"bond_required_security_reference_ppt"`
	MinPolicyCreditCu            uint64 `json:"min_policy_credit_cu"`
	MaxPolicyCreditCu            uint64 `json:"max_policy_credit_cu"`
	MaxDurationPolicyReconDays   uint64 `json:"max_duration_policy_reconciliation_days"`
	PolicyReconSafetyMargin      uint64 `json:"policy_reconciliation_safety_margin"`
	MinDurationPolicyPausedDay   uint64 `json:"min_duration_policy_paused_day"`
	MaxDurationPolicyPausedDay   uint64 `json:"max_duration_policy_paused_day"`
	DurationPolicyPostLapsedDay  uint64 `json:"duration_policy_post_lapsed_day"`
	MaxDurationPolicyLapsedDay   uint64 `json:"max_duration_policy_lapsed_day"`
	PoolDailyProcessingOffsetSec uint64 `json:"pool_daily_processing_offset_sec"`
	PoolDaylightSavingAdjustSec  uint64 `json:"pool_daylight_saving_adjustment_sec"`
	PoolTimeZoneOffset           int64  `json:"pool_time_zone_offset"`
	PoolOperatorFeePpt           uint64 `json:"pool_operator_fee_ppt"`
	TrustFeePpt                  uint64 `json:"trust_fee_ppt"`
	ExtAccessPreAuthDurationSec  uint64 `json:"ext_access_pre_auth_duration_sec"`
	PremiumAccountPaymentHash    string `json:"premium_account_payment_hash"`
	BondAccountPaymentHash       string `json:"bond_account_payment_hash"`
	FundingAccountPaymentHash    string `json:"funding_account_payment_hash"`
	TrustAccountPaymentHash      string `json:"trust_account_payment_hash"`
	OperatorAccountPaymentHash   string `json:"operator_account_payment_hash"`
	SettlementAccountPaymentHash string `json:"settlement_account_payment_hash"`
	AdjustorAccountPaymentHash   string `json:"adjustor_account_payment_hash"`
}

// AuthKeys are the external access keys registered on a contract.
type AuthKeys struct {
	AuthKeys       []string `json:"auth_keys"`
	PreAuthKeyUsed string   `json:"pre_auth_key_used"`
	PreAuthExpiry  uint64   `json:"pre_auth_expiry"`
}

// PoolLogQuery selects pool events. A zero Day or Value is a wildcard.
type PoolLogQuery struct {
	Subject   string
	Day       uint64
	Value     uint64
	FromBlock uint64
	ToBlock   uint64
}

// TrustLogQuery selects trust events.
type TrustLogQuery struct {
	Subject   string
	Address   string
	Info      string
	FromBlock uint64
	ToBlock   uint64
}

type uintGetter struct {
	method string
	dst    *uint64
}

type boolGetter struct {
	method string
	dst    *bool
}

func (s *Service) readUints(ctx context.Context, contract *abi.ABI, address common.Address, getters []uintGetter) error {
	for _, g := range getters {
		v, err := s.callUint(ctx, contract, address, g.method)
		if err != nil {
			return err
		}
		*g.dst = v
	}
	return nil
}

func (s *Service) readBools(ctx context.Context, contract *abi.ABI, address common.Address, getters []boolGetter) error {
	for _, g := range getters {
		v, err := s.callBool(ctx, contract, address, g.method)
		if err != nil {
			return err
		}
		*g.dst = v
	}
	return nil
}

// Status reads the pool variables, the list summaries of every entity
// contract and the time of the last timer ping.
func (s *Service) Status(ctx context.Context, contractAdr string) (EcosystemStatus, error) {
	eco, err := s.ecosystem(ctx, contractAdr)
	if err != nil {
		return EcosystemStatus{}, err
	}

	var st EcosystemStatus
	if err := s.readBools(ctx, contracts.Pool, eco.pool, []boolGetter{
		{"isWinterTime", &st.IsWinterTime},
		{"daylightSavingScheduled", &st.DaylightSavingScheduled},
		{"overwriteWcExpenses", &st.OverwriteWcExpenses},
		{"bondYieldAccellerationScheduled", &st.BondYieldAccellerationScheduled},
	}); err != nil {
		return EcosystemStatus{}, err
	}
	if err := s.readUints(ctx, contracts.Pool, eco.pool, []uintGetter{
		{"currentPoolDay", &st.CurrentPoolDay},
		{"WC_Bal_FA_Cu", &st.WcBalFaCu},
		{"WC_Bal_BA_Cu", &st.WcBalBaCu},
		{"WC_Bal_PA_Cu", &st.WcBalPaCu},
		{"WC_Exp_Cu", &st.WcExpCu},
		{"WC_Locked_Cu", &st.WcLockedCu},
		{"WC_Bond_Cu", &st.WcBondCu},
		{"WC_Transit_Cu", &st.WcTransitCu},
		{"B_Yield_Ppb", &st.BYieldPpb},
		{"B_Gradient_Ppq", &st.BGradientPpq},
		{"bondYieldAccelerationThreshold", &st.BondYieldAccelerationThreshold},
	}); err != nil {
		return EcosystemStatus{}, err
	}

	lists := []struct {
		contract *abi.ABI
		address  common.Address
		dst      *listreader.ListInfo
	}{
		{contracts.Bond, eco.bond, &st.BondListInfo},
		{contracts.Policy, eco.policy, &st.PolicyListInfo},
		{contracts.Adjustor, eco.adjustor, &st.AdjustorListInfo},
		{contracts.Settlement, eco.settlement, &st.SettlementListInfo},
	}
	for _, l := range lists {
		info, err := s.listInfo(ctx, l.contract, l.address)
		if err != nil {
			return EcosystemStatus{}, err
		}
		*l.dst = info
	}

	if st.TotalIssuedPolicyRiskPoints, err = s.callUint(ctx, contracts.Policy, eco.policy, "totalIssuedPolicyRiskPoints"); err != nil {
		return EcosystemStatus{}, err
	}
	if st.FundingAccountPaymentsTrackingCu, err = s.callUint(ctx, contracts.Bank, eco.bank, "fundingAccountPaymentsTracking_Cu"); err != nil {
		return EcosystemStatus{}, err
	}
	lastPing, err := s.callUint(ctx, contracts.Timer, eco.timer, "lastPingExec_10_S")
	if err != nil {
		return EcosystemStatus{}, err
	}
	st.LastPingExecution = lastPing * 10

	return st, nil
}

// Configuration reads the setup constants of the pool and the pre-auth
// duration of the trust contract.
func (s *Service) Configuration(ctx context.Context, contractAdr string) (EcosystemConfiguration, error) {
	eco, err := s.ecosystem(ctx, contractAdr)
	if err != nil {
		return EcosystemConfiguration{}, err
	}

	var c EcosystemConfiguration
	if c.ExtAccessPreAuthDurationSec, err = s.callUint(ctx, contracts.ExtAccessI, eco.trust, "EXT_ACCESS_PRE_AUTH_DURATION_SEC"); err != nil {
		return EcosystemConfiguration{}, err
	}

	out, err := s.call(ctx, contracts.SetupI, eco.pool, "POOL_NAME")
	if err != nil {
		return EcosystemConfiguration{}, err
	}
	if c.PoolName = out.text(0); out.Err() != nil {
		return EcosystemConfiguration{}, out.Err()
	}

	if err := s.readUints(ctx, contracts.SetupI, eco.pool, []uintGetter{
		{"WC_POOL_TARGET_TIME_SEC", &c.WcPoolTargetTimeSec},
		{"DURATION_TO_BOND_MATURITY_SEC", &c.DurationToBondMaturitySec},
		{"DURATION_BOND_LOCK_NEXT_STATE_SEC", &c.DurationBondLockNextStateSec},
		{"DURATION_WC_EXPENSE_HISTORY_DAYS", &c.DurationWcExpenseHistoryDays},
		{"YAC_PER_INTERVAL_PPB", &c.YacPerIntervalPpb},
		{"YAC_INTERVAL_DURATION_SEC", &c.YacIntervalDurationSec},
		{"YAC_EXPENSE_THRESHOLD_PPT", &c.YacExpenseThresholdPpt},
		{"MIN_YIELD_PPB", &c.MinYieldPpb},
		{"MAX_YIELD_PPB", &c.MaxYieldPpb},
		{"MIN_BOND_PRINCIPAL_CU", &c.MinBondPrincipalCu},
		{"MAX_BOND_PRINCIPAL_CU", &c.MaxBondPrincipalCu},
		{"BOND_REQUIRED_SECURITY_REFERENCE_PPT", &c.BondRequiredSecurityRefPpt},
		{"MIN_POLICY_CREDIT_CU", &c.MinPolicyCreditCu},
		{"MAX_POLICY_CREDIT_CU", &c.MaxPolicyCreditCu},
		{"MAX_DURATION_POLICY_RECONCILIATION_DAYS", &c.MaxDurationPolicyReconDays},
		{"POLICY_RECONCILIATION_SAFETY_MARGIN", &c.PolicyReconSafetyMargin},
		{"MIN_DURATION_POLICY_PAUSED_DAY", &c.MinDurationPolicyPausedDay},
		{"MAX_DURATION_POLICY_PAUSED_DAY", &c.MaxDurationPolicyPausedDay},
		{"DURATION_POLICY_POST_LAPSED_DAY", &c.DurationPolicyPostLapsedDay},
		{"MAX_DURATION_POLICY_LAPSED_DAY", &c.MaxDurationPolicyLapsedDay},
		{"POOL_DAILY_PROCESSING_OFFSET_SEC", &c.PoolDailyProcessingOffsetSec},
		{"POOL_DAYLIGHT_SAVING_ADJUSTMENT_SEC", &c.PoolDaylightSavingAdjustSec},
		{"POOL_OPERATOR_FEE_PPT", &c.PoolOperatorFeePpt},
		{"TRUST_FEE_PPT", &c.TrustFeePpt},
	}); err != nil {
		return EcosystemConfiguration{}, err
	}

	out, err = s.call(ctx, contracts.SetupI, eco.pool, "POOL_TIME_ZONE_OFFSET")
	if err != nil {
		return EcosystemConfiguration{}, err
	}
	if c.PoolTimeZoneOffset = out.signed(0); out.Err() != nil {
		return EcosystemConfiguration{}, out.Err()
	}

	hashes := []struct {
		method string
		dst    *string
	}{
		{"PREMIUM_ACCOUNT_PAYMENT_HASH", &c.PremiumAccountPaymentHash},
		{"BOND_ACCOUNT_PAYMENT_HASH", &c.BondAccountPaymentHash},
		{"FUNDING_ACCOUNT_PAYMENT_HASH", &c.FundingAccountPaymentHash},
		{"TRUST_ACCOUNT_PAYMENT_HASH", &c.TrustAccountPaymentHash},
		{"OPERATOR_ACCOUNT_PAYMENT_HASH", &c.OperatorAccountPaymentHash},
		{"SETTLEMENT_ACCOUNT_PAYMENT_HASH", &c.SettlementAccountPaymentHash},
		{"ADJUSTOR_ACCOUNT_PAYMENT_HASH", &c.AdjustorAccountPaymentHash},
	}
	for _, h := range hashes {
		out, err := s.call(ctx, contracts.SetupI, eco.pool, h.method)
		if err != nil {
			return EcosystemConfiguration{}, err
		}
		if *h.dst = out.hash(0); out.Err() != nil {
			return EcosystemConfiguration{}, out.Err()
		}
	}

	return c, nil
}

// PoolLogs searches the pool's daily processing events, newest first.
func (s *Service) PoolLogs(ctx context.Context, contractAdr string, q PoolLogQuery) ([]logdecoder.PoolLog, error) {
	eco, err := s.ecosystem(ctx, contractAdr)
	if err != nil {
		return nil, err
	}
	logs, err := s.logQuery(ctx, eco.pool, contracts.Pool, "LogPool", logfilter.Request{
		Topics: [3]logfilter.Matcher{
			logfilter.ASCII(q.Subject),
			logfilter.OptionalUint(q.Day),
			logfilter.OptionalUint(q.Value),
		},
		FromBlock: q.FromBlock,
		ToBlock:   q.ToBlock,
	})
	if err != nil {
		return nil, err
	}
	return logdecoder.PoolLogs.Decode(logs)
}

// TrustLogs searches the trust contract's audit events, newest first.
func (s *Service) TrustLogs(ctx context.Context, contractAdr string, q TrustLogQuery) ([]logdecoder.TrustLog, error) {
	eco, err := s.ecosystem(ctx, contractAdr)
	if err != nil {
		return nil, err
	}
	address, err := logfilter.Address(q.Address)
	if err != nil {
		return nil, err
	}
	logs, err := s.logQuery(ctx, eco.trust, contracts.Trust, "LogTrust", logfilter.Request{
		Topics: [3]logfilter.Matcher{
			logfilter.ASCII(q.Subject),
			address,
			logfilter.ASCII(q.Info),
		},
		FromBlock: q.FromBlock,
		ToBlock:   q.ToBlock,
	})
	if err != nil {
		return nil, err
	}
	return logdecoder.TrustLogs.Decode(logs)
}

// AuthKeys reads the external access keys of contractAdr. Any contract
// implementing the external access interface can be queried, so no
// ecosystem lookup is made.
func (s *Service) AuthKeys(ctx context.Context, contractAdr string) (AuthKeys, error) {
	address, err := parseAddress(contractAdr)
	if err != nil {
		return AuthKeys{}, err
	}

	out, err := s.call(ctx, contracts.ExtAccessI, address, "getExtAccessKey")
	if err != nil {
		return AuthKeys{}, err
	}
	keys := AuthKeys{AuthKeys: make([]string, 0, 5)}
	for i := 0; i < 5; i++ {
		keys.AuthKeys = append(keys.AuthKeys, out.addressHex(i))
	}
	if err := out.Err(); err != nil {
		return AuthKeys{}, err
	}

	if out, err = s.call(ctx, contracts.ExtAccessI, address, "getPreAuthKey"); err != nil {
		return AuthKeys{}, err
	}
	if keys.PreAuthKeyUsed = out.addressHex(0); out.Err() != nil {
		return AuthKeys{}, out.Err()
	}

	if keys.PreAuthExpiry, err = s.callUint(ctx, contracts.ExtAccessI, address, "getPreAuthExpiry"); err != nil {
		return AuthKeys{}, err
	}
	return keys, nil
}
