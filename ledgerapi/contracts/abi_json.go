package contracts

// JSON ABIs of the pool ecosystem contracts. Only the members the gateway
// reads and the transactions it submits are listed.

const (
	IntAccessIABI = `[
		{"type": "function", "name": "getContractAdr", "inputs": [], "outputs": [{"name": "trustContractAdr", "type": "address"}, {"name": "poolContractAdr", "type": "address"}, {"name": "bondContractAdr", "type": "address"}, {"name": "bankContractAdr", "type": "address"}, {"name": "policyContractAdr", "type": "address"}, {"name": "settlementContractAdr", "type": "address"}, {"name": "adjustorContractAdr", "type": "address"}, {"name": "timerContractAdr", "type": "address"}], "stateMutability": "view"}
	]`

	ExtAccessIABI = `[
		{"type": "function", "name": "getExtAccessKey", "inputs": [], "outputs": [{"name": "authKey0", "type": "address"}, {"name": "authKey1", "type": "address"}, {"name": "authKey2", "type": "address"}, {"name": "authKey3", "type": "address"}, {"name": "authKey4", "type": "address"}], "stateMutability": "view"},
		{"type": "function", "name": "getPreAuthKey", "inputs": [], "outputs": [{"name": "", "type": "address"}], "stateMutability": "view"},
		{"type": "function", "name": "getPreAuthExpiry", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "EXT_ACCESS_PRE_AUTH_DURATION_SEC", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "preAuth", "inputs": [], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "addKey", "inputs": [{"name": "_externalKey", "type": "address"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "rotateKey", "inputs": [], "outputs": [], "stateMutability": "nonpayable"}
	]`

	SetupIABI = `[
		{"type": "function", "name": "POOL_NAME", "inputs": [], "outputs": [{"name": "", "type": "string"}], "stateMutability": "view"},
		{"type": "function", "name": "WC_POOL_TARGET_TIME_SEC", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "DURATION_TO_BOND_MATURITY_SEC", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "DURATION_BOND_LOCK_NEXT_STATE_SEC", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "DURATION_WC_EXPENSE_HISTORY_DAYS", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "YAC_PER_INTERVAL_PPB", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "YAC_INTERVAL_DURATION_SEC", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "YAC_EXPENSE_THRESHOLD_PPT", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "MIN_YIELD_PPB", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "MAX_YIELD_PPB", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "MIN_BOND_PRINCIPAL_CU", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "MAX_BOND_PRINCIPAL_CU", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "BOND_REQUIRED_SECURITY_REFERENCE_PPT", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "MIN_POLICY_CREDIT_CU", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "MAX_POLICY_CREDIT_CU", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "MAX_DURATION_POLICY_RECONCILIATION_DAYS", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "POLICY_RECONCILIATION_SAFETY_MARGIN", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "MIN_DURATION_POLICY_PAUSED_DAY", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "MAX_DURATION_POLICY_PAUSED_DAY", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "DURATION_POLICY_POST_LAPSED_DAY", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "MAX_DURATION_POLICY_LAPSED_DAY", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "POOL_DAILY_PROCESSING_OFFSET_SEC", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "POOL_DAYLIGHT_SAVING_ADJUSTMENT_SEC", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "POOL_OPERATOR_FEE_PPT", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "TRUST_FEE_PPT", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "POOL_TIME_ZONE_OFFSET", "inputs": [], "outputs": [{"name": "", "type": "int256"}], "stateMutability": "view"},
		{"type": "function", "name": "PREMIUM_ACCOUNT_PAYMENT_HASH", "inputs": [], "outputs": [{"name": "", "type": "bytes32"}], "stateMutability": "view"},
		{"type": "function", "name": "BOND_ACCOUNT_PAYMENT_HASH", "inputs": [], "outputs": [{"name": "", "type": "bytes32"}], "stateMutability": "view"},
		{"type": "function", "name": "FUNDING_ACCOUNT_PAYMENT_HASH", "inputs": [], "outputs": [{"name": "", "type": "bytes32"}], "stateMutability": "view"},
		{"type": "function", "name": "TRUST_ACCOUNT_PAYMENT_HASH", "inputs": [], "outputs": [{"name": "", "type": "bytes32"}], "stateMutability": "view"},
		{"type": "function", "name": "OPERATOR_ACCOUNT_PAYMENT_HASH", "inputs": [], "outputs": [{"name": "", "type": "bytes32"}], "stateMutability": "view"},
		{"type": "function", "name": "SETTLEMENT_ACCOUNT_PAYMENT_HASH", "inputs": [], "outputs": [{"name": "", "type": "bytes32"}], "stateMutability": "view"},
		{"type": "function", "name": "ADJUSTOR_ACCOUNT_PAYMENT_HASH", "inputs": [], "outputs": [{"name": "", "type": "bytes32"}], "stateMutability": "view"}
	]`

	PoolABI = `[
		{"type": "function", "name": "currentPoolDay", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "isWinterTime", "inputs": [], "outputs": [{"name": "", "type": "bool"}], "stateMutability": "view"},
		{"type": "function", "name": "daylightSavingScheduled", "inputs": [], "outputs": [{"name": "", "type": "bool"}], "stateMutability": "view"},
		{"type": "function", "name": "WC_Bal_FA_Cu", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "WC_Bal_BA_Cu", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "WC_Bal_PA_Cu", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "overwriteWcExpenses", "inputs": [], "outputs": [{"name": "", "type": "bool"}], "stateMutability": "view"},
		{"type": "function", "name": "WC_Exp_Cu", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "WC_Locked_Cu", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "WC_Bond_Cu", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "WC_Transit_Cu", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "B_Yield_Ppb", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "B_Gradient_Ppq", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "bondYieldAccellerationScheduled", "inputs": [], "outputs": [{"name": "", "type": "bool"}], "stateMutability": "view"},
		{"type": "function", "name": "bondYieldAccelerationThreshold", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "event", "name": "LogPool", "anonymous": false, "inputs": [{"name": "subject", "type": "bytes32", "indexed": true}, {"name": "day", "type": "uint256", "indexed": true}, {"name": "value", "type": "uint256", "indexed": true}, {"name": "timestamp", "type": "uint256", "indexed": false}]}
	]`

	BondABI = `[
		{"type": "function", "name": "createBond", "inputs": [{"name": "_principal_Cu", "type": "uint256"}, {"name": "_hashOfReferenceBond", "type": "bytes32"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "hashMap", "inputs": [], "outputs": [{"name": "firstIdx", "type": "uint256"}, {"name": "nextIdx", "type": "uint256"}, {"name": "count", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "get", "inputs": [{"name": "_idx", "type": "uint256"}], "outputs": [{"name": "", "type": "bytes32"}], "stateMutability": "view"},
		{"type": "function", "name": "dataStorage", "inputs": [{"name": "", "type": "bytes32"}], "outputs": [{"name": "idx", "type": "uint256"}, {"name": "owner", "type": "address"}, {"name": "paymentAccountHash", "type": "bytes32"}, {"name": "principal_Cu", "type": "uint256"}, {"name": "yield_Ppb", "type": "uint256"}, {"name": "maturityPayoutAmount_Cu", "type": "uint256"}, {"name": "creationDate", "type": "uint256"}, {"name": "nextStateExpiryDate", "type": "uint256"}, {"name": "maturityDate", "type": "uint256"}, {"name": "state", "type": "uint8"}, {"name": "securityReferenceHash", "type": "bytes32"}], "stateMutability": "view"},
		{"type": "event", "name": "LogBond", "anonymous": false, "inputs": [{"name": "bondHash", "type": "bytes32", "indexed": true}, {"name": "owner", "type": "address", "indexed": true}, {"name": "info", "type": "bytes32", "indexed": true}, {"name": "timestamp", "type": "uint256", "indexed": false}, {"name": "state", "type": "uint8", "indexed": false}]}
	]`

	PolicyABI = `[
		{"type": "function", "name": "createPolicy", "inputs": [{"name": "_adjustorHash", "type": "bytes32"}, {"name": "_owner", "type": "address"}, {"name": "_documentHash", "type": "bytes32"}, {"name": "_riskPoints", "type": "uint256"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "updatePolicy", "inputs": [{"name": "_adjustorHash", "type": "bytes32"}, {"name": "_policyHash", "type": "bytes32"}, {"name": "_documentHash", "type": "bytes32"}, {"name": "_riskPoints", "type": "uint256"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "suspendPolicy", "inputs": [{"name": "_policyHash", "type": "bytes32"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "unsuspendPolicy", "inputs": [{"name": "_policyHash", "type": "bytes32"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "retirePolicy", "inputs": [{"name": "_policyHash", "type": "bytes32"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "hashMap", "inputs": [], "outputs": [{"name": "firstIdx", "type": "uint256"}, {"name": "nextIdx", "type": "uint256"}, {"name": "count", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "get", "inputs": [{"name": "_idx", "type": "uint256"}], "outputs": [{"name": "", "type": "bytes32"}], "stateMutability": "view"},
		{"type": "function", "name": "totalIssuedPolicyRiskPoints", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "dataStorage", "inputs": [{"name": "", "type": "bytes32"}], "outputs": [{"name": "idx", "type": "uint256"}, {"name": "owner", "type": "address"}, {"name": "paymentAccountHash", "type": "bytes32"}, {"name": "documentHash", "type": "bytes32"}, {"name": "riskPoints", "type": "uint256"}, {"name": "premiumCredited_Cu", "type": "uint256"}, {"name": "premiumCharged_Cu_Ppt", "type": "uint256"}, {"name": "state", "type": "uint8"}, {"name": "lastReconciliationDay", "type": "uint256"}, {"name": "nextReconciliationDay", "type": "uint256"}], "stateMutability": "view"},
		{"type": "event", "name": "LogPolicy", "anonymous": false, "inputs": [{"name": "policyHash", "type": "bytes32", "indexed": true}, {"name": "owner", "type": "address", "indexed": true}, {"name": "info", "type": "bytes32", "indexed": true}, {"name": "timestamp", "type": "uint256", "indexed": false}, {"name": "state", "type": "uint8", "indexed": false}]}
	]`

	SettlementABI = `[
		{"type": "function", "name": "createSettlement", "inputs": [{"name": "_adjustorHash", "type": "bytes32"}, {"name": "_policyHash", "type": "bytes32"}, {"name": "_documentHash", "type": "bytes32"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "addSettlementInfo", "inputs": [{"name": "_settlementHash", "type": "bytes32"}, {"name": "_adjustorHash", "type": "bytes32"}, {"name": "_documentHash", "type": "bytes32"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "closeSettlement", "inputs": [{"name": "_settlementHash", "type": "bytes32"}, {"name": "_adjustorHash", "type": "bytes32"}, {"name": "_documentHash", "type": "bytes32"}, {"name": "_settlementAmount", "type": "uint256"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "setExpectedSettlementAmount", "inputs": [{"name": "_settlementHash", "type": "bytes32"}, {"name": "_adjustorHash", "type": "bytes32"}, {"name": "_expectedSettlementAmount", "type": "uint256"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "hashMap", "inputs": [], "outputs": [{"name": "firstIdx", "type": "uint256"}, {"name": "nextIdx", "type": "uint256"}, {"name": "count", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "get", "inputs": [{"name": "_idx", "type": "uint256"}], "outputs": [{"name": "", "type": "bytes32"}], "stateMutability": "view"},
		{"type": "function", "name": "dataStorage", "inputs": [{"name": "", "type": "bytes32"}], "outputs": [{"name": "idx", "type": "uint256"}, {"name": "settlementAmount", "type": "uint256"}, {"name": "state", "type": "uint8"}], "stateMutability": "view"},
		{"type": "event", "name": "LogSettlement", "anonymous": false, "inputs": [{"name": "settlementHash", "type": "bytes32", "indexed": true}, {"name": "adjustorHash", "type": "bytes32", "indexed": true}, {"name": "info", "type": "bytes32", "indexed": true}, {"name": "timestamp", "type": "uint256", "indexed": false}, {"name": "state", "type": "uint8", "indexed": false}]}
	]`

	AdjustorABI = `[
		{"type": "function", "name": "hashMap", "inputs": [], "outputs": [{"name": "firstIdx", "type": "uint256"}, {"name": "nextIdx", "type": "uint256"}, {"name": "count", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "get", "inputs": [{"name": "_idx", "type": "uint256"}], "outputs": [{"name": "", "type": "bytes32"}], "stateMutability": "view"},
		{"type": "function", "name": "dataStorage", "inputs": [{"name": "", "type": "bytes32"}], "outputs": [{"name": "idx", "type": "uint256"}, {"name": "owner", "type": "address"}, {"name": "settlementApprovalAmount_Cu", "type": "uint256"}, {"name": "policyRiskPointLimit", "type": "uint256"}, {"name": "serviceAgreementHash", "type": "bytes32"}], "stateMutability": "view"},
		{"type": "event", "name": "LogAdjustor", "anonymous": false, "inputs": [{"name": "adjustorHash", "type": "bytes32", "indexed": true}, {"name": "owner", "type": "address", "indexed": true}, {"name": "info", "type": "bytes32", "indexed": true}, {"name": "timestamp", "type": "uint256", "indexed": false}]}
	]`

	BankABI = `[
		{"type": "function", "name": "processPaymentAdvice", "inputs": [{"name": "_idx", "type": "uint256"}, {"name": "_bankTransactionIdx", "type": "uint256"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "processAccountCredit", "inputs": [{"name": "_bankTransactionIdx", "type": "uint256"}, {"name": "_accountType", "type": "uint256"}, {"name": "_paymentAccountHashSender", "type": "bytes32"}, {"name": "_paymentSubject", "type": "bytes32"}, {"name": "_bankCreditAmount_Cu", "type": "uint256"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "countPaymentAdviceEntries", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "fundingAccountPaymentsTracking_Cu", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "bankPaymentAdvice", "inputs": [{"name": "", "type": "uint256"}], "outputs": [{"name": "adviceType", "type": "uint8"}, {"name": "paymentAccountHashRecipient", "type": "bytes32"}, {"name": "paymentSubject", "type": "bytes32"}, {"name": "amount", "type": "uint256"}, {"name": "internalReferenceHash", "type": "bytes32"}], "stateMutability": "view"},
		{"type": "event", "name": "LogBank", "anonymous": false, "inputs": [{"name": "internalReferenceHash", "type": "bytes32", "indexed": true}, {"name": "accountType", "type": "uint8", "indexed": true}, {"name": "success", "type": "bool", "indexed": true}, {"name": "paymentAccountHash", "type": "bytes32", "indexed": false}, {"name": "paymentSubject", "type": "bytes32", "indexed": false}, {"name": "info", "type": "bytes32", "indexed": false}, {"name": "timestamp", "type": "uint256", "indexed": false}, {"name": "transactionType", "type": "uint8", "indexed": false}, {"name": "amount", "type": "uint256", "indexed": false}]}
	]`

	TimerABI = `[
		{"type": "function", "name": "ping", "inputs": [], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "lastPingExec_10_S", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "getBlockchainEPOCHTime", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "TIMER_INCEPTION_DATE", "inputs": [], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "timeIntervalHasEntries", "inputs": [{"name": "_timeInterval_100_S", "type": "uint256"}], "outputs": [{"name": "", "type": "bool"}], "stateMutability": "view"},
		{"type": "function", "name": "getTimerNotificationCount", "inputs": [{"name": "_timeSlot_10_S", "type": "uint256"}], "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view"},
		{"type": "function", "name": "notification", "inputs": [{"name": "", "type": "uint256"}, {"name": "", "type": "uint256"}], "outputs": [{"name": "notificationAddress", "type": "address"}, {"name": "subject", "type": "uint256"}, {"name": "message", "type": "bytes32"}], "stateMutability": "view"}
	]`

	TrustABI = `[
		{"type": "function", "name": "createAdjustor", "inputs": [{"name": "_adjustorAdr", "type": "address"}, {"name": "_settlementApprovalAmount_Cu", "type": "uint256"}, {"name": "_policyRiskPointLimit", "type": "uint256"}, {"name": "_serviceAgreementHash", "type": "bytes32"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "updateAdjustor", "inputs": [{"name": "_adjustorHash", "type": "bytes32"}, {"name": "_adjustorAdr", "type": "address"}, {"name": "_settlementApprovalAmount_Cu", "type": "uint256"}, {"name": "_policyRiskPointLimit", "type": "uint256"}, {"name": "_serviceAgreementHash", "type": "bytes32"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "retireAdjustor", "inputs": [{"name": "_adjustorHash", "type": "bytes32"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "setWcExpenses", "inputs": [{"name": "_amount_Cu", "type": "uint256"}], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "function", "name": "adjustDaylightSaving", "inputs": [], "outputs": [], "stateMutability": "nonpayable"},
		{"type": "event", "name": "LogTrust", "anonymous": false, "inputs": [{"name": "subject", "type": "bytes32", "indexed": true}, {"name": "adr", "type": "address", "indexed": true}, {"name": "info", "type": "bytes32", "indexed": true}, {"name": "timestamp", "type": "uint256", "indexed": false}]}
	]`
)
