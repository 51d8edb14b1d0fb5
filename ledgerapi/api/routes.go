package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes for the API server
func (s *Server) setupRoutes() *mux.Router {
	router := mux.NewRouter()
	router.Use(metricsMiddleware)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)

	router.HandleFunc("/bond/list", s.handleBondList).Methods(http.MethodGet)
	router.HandleFunc("/bond", s.handleBond).Methods(http.MethodGet)
	router.HandleFunc("/bond/logs", s.handleBondLogs).Methods(http.MethodGet)
	router.HandleFunc("/bond", s.write(s.createBond)).Methods(http.MethodPost)

	router.HandleFunc("/policy/list", s.handlePolicyList).Methods(http.MethodGet)
	router.HandleFunc("/policy", s.handlePolicy).Methods(http.MethodGet)
	router.HandleFunc("/policy/logs", s.handlePolicyLogs).Methods(http.MethodGet)
	router.HandleFunc("/policy", s.write(s.createPolicy)).Methods(http.MethodPost)
	router.HandleFunc("/policy", s.write(s.updatePolicy)).Methods(http.MethodPut)
	router.HandleFunc("/policy/suspend", s.write(s.policyState(Ledger.SuspendPolicy))).Methods(http.MethodPut)
	router.HandleFunc("/policy/unsuspend", s.write(s.policyState(Ledger.UnsuspendPolicy))).Methods(http.MethodPut)
	router.HandleFunc("/policy/retire", s.write(s.policyState(Ledger.RetirePolicy))).Methods(http.MethodPut)

	router.HandleFunc("/settlement/list", s.handleSettlementList).Methods(http.MethodGet)
	router.HandleFunc("/settlement", s.handleSettlement).Methods(http.MethodGet)
	router.HandleFunc("/settlement/logs", s.handleSettlementLogs).Methods(http.MethodGet)
	router.HandleFunc("/settlement", s.write(s.settlement(Ledger.CreateSettlement))).Methods(http.MethodPost)
	router.HandleFunc("/settlement/addinfo", s.write(s.settlement(Ledger.AddSettlementInfo))).Methods(http.MethodPut)
	router.HandleFunc("/settlement/close", s.write(s.settlement(Ledger.CloseSettlement))).Methods(http.MethodPut)
	router.HandleFunc("/settlement/amount", s.write(s.settlement(Ledger.SetExpectedSettlementAmount))).Methods(http.MethodPut)

	router.HandleFunc("/adjustor/list", s.handleAdjustorList).Methods(http.MethodGet)
	router.HandleFunc("/adjustor", s.handleAdjustor).Methods(http.MethodGet)
	router.HandleFunc("/adjustor/logs", s.handleAdjustorLogs).Methods(http.MethodGet)
	router.HandleFunc("/adjustor", s.write(s.adjustor(Ledger.CreateAdjustor))).Methods(http.MethodPost)
	router.HandleFunc("/adjustor", s.write(s.adjustor(Ledger.UpdateAdjustor))).Methods(http.MethodPut)
	router.HandleFunc("/adjustor/retire", s.write(s.retireAdjustor)).Methods(http.MethodPut)

	router.HandleFunc("/bank/logs", s.handleBankLogs).Methods(http.MethodGet)
	router.HandleFunc("/bank/paymentadvice", s.handlePaymentAdvice).Methods(http.MethodGet)
	router.HandleFunc("/bank/processpaymentadvice", s.write(s.processPaymentAdvice)).Methods(http.MethodPost)
	router.HandleFunc("/bank/processaccountcredit", s.write(s.processAccountCredit)).Methods(http.MethodPost)

	router.HandleFunc("/ecosystem/status", s.handleEcosystemStatus).Methods(http.MethodGet)
	router.HandleFunc("/ecosystem/logs", s.handleEcosystemLogs).Methods(http.MethodGet)
	router.HandleFunc("/ecosystem/configuration", s.handleEcosystemConfiguration).Methods(http.MethodGet)
	router.HandleFunc("/ecosystem/contractaddresses", s.handleContractAddresses).Methods(http.MethodGet)
	router.HandleFunc("/trust/logs", s.handleTrustLogs).Methods(http.MethodGet)
	router.HandleFunc("/ecosystem/setWcExpenses", s.write(s.setWcExpenses)).Methods(http.MethodPut)
	router.HandleFunc("/ecosystem/adjustDaylightSaving", s.write(s.signedOnly(Ledger.AdjustDaylightSaving))).Methods(http.MethodPut)
	router.HandleFunc("/authkeys", s.handleAuthKeys).Methods(http.MethodGet)
	router.HandleFunc("/authkeys/preauth", s.write(s.signedOnly(Ledger.PreAuth))).Methods(http.MethodPut)
	router.HandleFunc("/authkeys/addauthkey", s.write(s.addAuthKey)).Methods(http.MethodPut)
	router.HandleFunc("/authkeys/rotateauthkey", s.write(s.signedOnly(Ledger.RotateAuthKey))).Methods(http.MethodPut)

	router.HandleFunc("/timer/notifications", s.handleNotifications).Methods(http.MethodGet)
	router.HandleFunc("/timer/ping", s.handlePing).Methods(http.MethodPut)
	router.HandleFunc("/timer/ping/history", s.handlePingHistory).Methods(http.MethodGet)

	router.HandleFunc("/transaction", s.handleTransaction).Methods(http.MethodGet)

	return router
}
