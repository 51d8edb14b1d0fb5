package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/insurepool/poolgate/ledgerapi/cron"
	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
	"github.com/insurepool/poolgate/ledgerapi/ledger"
	"github.com/insurepool/poolgate/ledgerapi/logdecoder"
	"github.com/insurepool/poolgate/ledgerapi/service"
)

// defaultHistoryLimit caps GET /timer/ping/history without a limit.
const defaultHistoryLimit = 50

// statusFor maps an error code to its HTTP status.
func statusFor(code ledgererrors.ErrorCode) int {
	switch code {
	case ledgererrors.ErrCodeValidation, ledgererrors.ErrCodeDecode:
		return http.StatusBadRequest
	case ledgererrors.ErrCodeInvalidContractAddress, ledgererrors.ErrCodeTransactionRejected:
		return http.StatusNotAcceptable
	case ledgererrors.ErrCodeNotFound:
		return http.StatusNotFound
	case ledgererrors.ErrCodeRPC:
		return http.StatusBadGateway
	case ledgererrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ledgererrors.ErrCodeConfig:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := ledgererrors.CodeOf(err)
	status := statusFor(code)
	event := s.logger.Debug()
	if status >= http.StatusInternalServerError {
		event = s.logger.Warn()
	}
	event.Err(err).
		Str("path", r.URL.Path).
		Str("code", string(code)).
		Str("severity", string(ledgererrors.GetSeverity(err))).
		Int("status", status).
		Msg("request failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error(), Code: string(code)})
}

// serve runs fn once the query parameters are read, answering with its
// result or its error.
func serve[T any](s *Server, w http.ResponseWriter, r *http.Request, fn func(p *params) (T, error)) {
	p := newParams(r.URL.Query())
	result, err := fn(p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, result)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil && !s.health.IsHealthy(r.Context()) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("UNHEALTHY"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleConfig handles GET /config
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var interval time.Duration
	if s.pings != nil {
		interval = s.pings.Interval()
	}
	respondJSON(w, s.ledger.Environment(interval))
}

// listArgs reads the parameters shared by the list endpoints.
func listArgs(p *params) (contractAdr string, fromIdx, maxEntries uint64) {
	return p.contractAdr(), p.number("fromIdx"), p.number("maxEntries")
}

// detailArgs reads the parameters shared by the detail endpoints.
func detailArgs(p *params) (contractAdr, hash string, idx uint64) {
	return p.contractAdr(), p.hash("hash"), p.number("idx")
}

// logArgs reads the parameters shared by the entity log endpoints.
func logArgs(p *params) (string, service.LogQuery) {
	return p.contractAdr(), service.LogQuery{
		Hash:         p.hash("hash"),
		Owner:        p.address("owner", false),
		AdjustorHash: p.hash("adjustorHash"),
		Info:         p.str("info"),
		FromBlock:    p.number("fromBlock"),
		ToBlock:      p.number("toBlock"),
	}
}

// handleBondList handles GET /bond/list?contractAdr=&owner=&fromIdx=&maxEntries=
func (s *Server) handleBondList(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (service.List[service.Bond], error) {
		owner := p.address("owner", false)
		adr, fromIdx, maxEntries := listArgs(p)
		if p.err != nil {
			return service.List[service.Bond]{}, p.err
		}
		return s.ledger.BondList(r.Context(), adr, owner, fromIdx, maxEntries)
	})
}

// handleBond handles GET /bond?contractAdr=&hash=&idx=
func (s *Server) handleBond(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (service.Bond, error) {
		adr, hash, idx := detailArgs(p)
		if p.err != nil {
			return service.Bond{}, p.err
		}
		return s.ledger.BondDetail(r.Context(), adr, hash, idx)
	})
}

// handleBondLogs handles GET /bond/logs?contractAdr=&hash=&owner=&info=&fromBlock=&toBlock=
func (s *Server) handleBondLogs(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) ([]logdecoder.BondLog, error) {
		adr, q := logArgs(p)
		if p.err != nil {
			return nil, p.err
		}
		return s.ledger.BondLogs(r.Context(), adr, q)
	})
}

func (s *Server) handlePolicyList(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (service.List[service.Policy], error) {
		owner := p.address("owner", false)
		adr, fromIdx, maxEntries := listArgs(p)
		if p.err != nil {
			return service.List[service.Policy]{}, p.err
		}
		return s.ledger.PolicyList(r.Context(), adr, owner, fromIdx, maxEntries)
	})
}

func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (service.Policy, error) {
		adr, hash, idx := detailArgs(p)
		if p.err != nil {
			return service.Policy{}, p.err
		}
		return s.ledger.PolicyDetail(r.Context(), adr, hash, idx)
	})
}

func (s *Server) handlePolicyLogs(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) ([]logdecoder.PolicyLog, error) {
		adr, q := logArgs(p)
		if p.err != nil {
			return nil, p.err
		}
		return s.ledger.PolicyLogs(r.Context(), adr, q)
	})
}

func (s *Server) handleSettlementList(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (service.List[service.Settlement], error) {
		adr, fromIdx, maxEntries := listArgs(p)
		if p.err != nil {
			return service.List[service.Settlement]{}, p.err
		}
		return s.ledger.SettlementList(r.Context(), adr, fromIdx, maxEntries)
	})
}

func (s *Server) handleSettlement(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (service.Settlement, error) {
		adr, hash, idx := detailArgs(p)
		if p.err != nil {
			return service.Settlement{}, p.err
		}
		return s.ledger.SettlementDetail(r.Context(), adr, hash, idx)
	})
}

// handleSettlementLogs handles GET /settlement/logs?contractAdr=&hash=&adjustorHash=&info=&fromBlock=&toBlock=
func (s *Server) handleSettlementLogs(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) ([]logdecoder.SettlementLog, error) {
		adr, q := logArgs(p)
		if p.err != nil {
			return nil, p.err
		}
		return s.ledger.SettlementLogs(r.Context(), adr, q)
	})
}

func (s *Server) handleAdjustorList(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (service.List[service.Adjustor], error) {
		adr, fromIdx, maxEntries := listArgs(p)
		if p.err != nil {
			return service.List[service.Adjustor]{}, p.err
		}
		return s.ledger.AdjustorList(r.Context(), adr, fromIdx, maxEntries)
	})
}

func (s *Server) handleAdjustor(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (service.Adjustor, error) {
		adr, hash, idx := detailArgs(p)
		if p.err != nil {
			return service.Adjustor{}, p.err
		}
		return s.ledger.AdjustorDetail(r.Context(), adr, hash, idx)
	})
}

func (s *Server) handleAdjustorLogs(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) ([]logdecoder.AdjustorLog, error) {
		adr, q := logArgs(p)
		if p.err != nil {
			return nil, p.err
		}
		return s.ledger.AdjustorLogs(r.Context(), adr, q)
	})
}

// handleBankLogs handles GET /bank/logs?contractAdr=&internalReferenceHash=&accountType=&success=&fromBlock=&toBlock=
func (s *Server) handleBankLogs(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) ([]logdecoder.BankLog, error) {
		adr := p.contractAdr()
		q := service.BankLogQuery{
			InternalReferenceHash: p.hash("internalReferenceHash"),
			AccountType:           logdecoder.AccountType(p.enum("accountType", logdecoder.AccountTypes)),
			Success:               logdecoder.SuccessFilter(p.enum("success", logdecoder.SuccessFilters)),
			FromBlock:             p.number("fromBlock"),
			ToBlock:               p.number("toBlock"),
		}
		if p.err != nil {
			return nil, p.err
		}
		return s.ledger.BankLogs(r.Context(), adr, q)
	})
}

func (s *Server) handlePaymentAdvice(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) ([]service.PaymentAdvice, error) {
		adr := p.contractAdr()
		if p.err != nil {
			return nil, p.err
		}
		return s.ledger.PaymentAdvice(r.Context(), adr)
	})
}

func (s *Server) handleEcosystemStatus(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (service.EcosystemStatus, error) {
		adr := p.contractAdr()
		if p.err != nil {
			return service.EcosystemStatus{}, p.err
		}
		return s.ledger.Status(r.Context(), adr)
	})
}

// handleEcosystemLogs handles GET /ecosystem/logs?contractAdr=&subject=&day=&value=&fromBlock=&toBlock=
func (s *Server) handleEcosystemLogs(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) ([]logdecoder.PoolLog, error) {
		adr := p.contractAdr()
		q := service.PoolLogQuery{
			Subject:   p.str("subject"),
			Day:       p.number("day"),
			Value:     p.number("value"),
			FromBlock: p.number("fromBlock"),
			ToBlock:   p.number("toBlock"),
		}
		if p.err != nil {
			return nil, p.err
		}
		return s.ledger.PoolLogs(r.Context(), adr, q)
	})
}

func (s *Server) handleEcosystemConfiguration(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (service.EcosystemConfiguration, error) {
		adr := p.contractAdr()
		if p.err != nil {
			return service.EcosystemConfiguration{}, p.err
		}
		return s.ledger.Configuration(r.Context(), adr)
	})
}

func (s *Server) handleContractAddresses(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (service.ContractAddresses, error) {
		adr := p.contractAdr()
		if p.err != nil {
			return service.ContractAddresses{}, p.err
		}
		return s.ledger.ContractAddresses(r.Context(), adr)
	})
}

// handleTrustLogs handles GET /trust/logs?contractAdr=&subject=&address=&info=&fromBlock=&toBlock=
func (s *Server) handleTrustLogs(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) ([]logdecoder.TrustLog, error) {
		adr := p.contractAdr()
		q := service.TrustLogQuery{
			Subject:   p.str("subject"),
			Address:   p.address("address", false),
			Info:      p.str("info"),
			FromBlock: p.number("fromBlock"),
			ToBlock:   p.number("toBlock"),
		}
		if p.err != nil {
			return nil, p.err
		}
		return s.ledger.TrustLogs(r.Context(), adr, q)
	})
}

func (s *Server) handleAuthKeys(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (service.AuthKeys, error) {
		adr := p.contractAdr()
		if p.err != nil {
			return service.AuthKeys{}, p.err
		}
		return s.ledger.AuthKeys(r.Context(), adr)
	})
}

// handleNotifications handles GET /timer/notifications?contractAdr=&fromTime=&toTime=
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) ([]service.Notification, error) {
		adr := p.contractAdr()
		from, to := p.number("fromTime"), p.number("toTime")
		if p.err != nil {
			return nil, p.err
		}
		return s.ledger.Notifications(r.Context(), adr, from, to)
	})
}

// handlePing handles PUT /timer/ping. It replaces the auto-ping schedule
// and submits one ping immediately.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (PingResponse, error) {
		if s.pings == nil {
			return PingResponse{}, ledgererrors.NewConfigError("timer ping is not enabled")
		}

		var body PingRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				return PingResponse{}, ledgererrors.NewValidationError("request body is not valid JSON")
			}
		}
		if body.ContractAdr != "" {
			p.values.Set("contractAdr", body.ContractAdr)
		}
		if body.SigningPrivateKey != "" {
			p.values.Set("signingPrivateKey", body.SigningPrivateKey)
		}

		adr := p.contractAdr()
		key := p.str("signingPrivateKey")
		duration := p.number("autoSchedulePingDuration")
		if body.AutoSchedulePingDuration != 0 {
			duration = body.AutoSchedulePingDuration
		}
		if p.err != nil {
			return PingResponse{}, p.err
		}

		timer, err := s.ledger.TimerAddress(r.Context(), adr)
		if err != nil {
			return PingResponse{}, err
		}
		err = s.pings.Configure(cron.PingConfig{
			TimerAddress: timer,
			SigningKey:   key,
			Interval:     time.Duration(duration) * time.Second,
		})
		if err != nil {
			return PingResponse{}, err
		}

		hash, err := s.pings.PingNow(r.Context())
		if err != nil {
			return PingResponse{}, err
		}
		return PingResponse{TransactionHash: hash.Hex(), AutoSchedulePingDuration: duration}, nil
	})
}

// handlePingHistory handles GET /timer/ping/history?limit=
func (s *Server) handlePingHistory(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) ([]PingExecution, error) {
		if s.history == nil {
			return nil, ledgererrors.NewConfigError("ping history is not enabled")
		}
		limit := p.integer("limit", defaultHistoryLimit)
		if p.err != nil {
			return nil, p.err
		}

		rows, err := s.history.RecentPings(limit)
		if err != nil {
			return nil, ledgererrors.NewDatabaseError("failed to read ping history", err)
		}
		out := make([]PingExecution, 0, len(rows))
		for _, row := range rows {
			out = append(out, PingExecution{
				ID:           row.ID,
				TimerAddress: row.TimerAddress,
				TxHash:       row.TxHash,
				Status:       row.Status,
				ErrorMsg:     row.ErrorMsg,
				CreatedAt:    row.CreatedAt,
			})
		}
		return out, nil
	})
}

// handleTransaction handles GET /transaction?transactionHash=&maxWaitDurationForTransactionReceipt=
func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	serve(s, w, r, func(p *params) (ledger.ReceiptSummary, error) {
		hash := p.str("transactionHash")
		wait := p.number("maxWaitDurationForTransactionReceipt")
		if p.err != nil {
			return ledger.ReceiptSummary{}, p.err
		}
		return s.ledger.Receipt(r.Context(), hash, time.Duration(wait)*time.Second)
	})
}
