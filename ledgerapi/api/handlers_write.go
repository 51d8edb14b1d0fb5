package api

import (
	"context"
	"net/http"

	"github.com/insurepool/poolgate/ledgerapi/logdecoder"
	"github.com/insurepool/poolgate/ledgerapi/service"
)

// writeOp is a write request whose parameters have been read.
type writeOp func(ctx context.Context) (service.TransactionHash, error)

// write serves a transaction endpoint. Parameters come from the query
// string, overridden by the fields of an optional JSON body. build reads the
// operation's own fields; the request is only sent when every read passed.
func (s *Server) write(build func(p *params, req service.Signed) writeOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serve(s, w, r, func(p *params) (service.TransactionHash, error) {
			if err := p.mergeBody(r); err != nil {
				return service.TransactionHash{}, err
			}
			req := service.Signed{
				ContractAdr:       p.contractAdr(),
				SigningPrivateKey: p.str("signingPrivateKey"),
			}
			op := build(p, req)
			if p.err != nil {
				return service.TransactionHash{}, p.err
			}
			return op(r.Context())
		})
	}
}

// createBond handles POST /bond
func (s *Server) createBond(p *params, req service.Signed) writeOp {
	bond := service.BondRequest{
		Signed:                req,
		Principal:             p.number("principal"),
		SecurityReferenceHash: p.str("securityReferenceHash"),
	}
	return func(ctx context.Context) (service.TransactionHash, error) {
		return s.ledger.CreateBond(ctx, bond)
	}
}

// createPolicy handles POST /policy
func (s *Server) createPolicy(p *params, req service.Signed) writeOp {
	policy := service.PolicyRequest{
		Signed:       req,
		AdjustorHash: p.str("adjustorHash"),
		Owner:        p.str("owner"),
		DocumentHash: p.str("documentHash"),
		RiskPoints:   p.number("riskPoints"),
	}
	return func(ctx context.Context) (service.TransactionHash, error) {
		return s.ledger.CreatePolicy(ctx, policy)
	}
}

// updatePolicy handles PUT /policy
func (s *Server) updatePolicy(p *params, req service.Signed) writeOp {
	policy := service.PolicyRequest{
		Signed:       req,
		AdjustorHash: p.str("adjustorHash"),
		PolicyHash:   p.str("policyHash"),
		DocumentHash: p.str("documentHash"),
		RiskPoints:   p.number("riskPoints"),
	}
	return func(ctx context.Context) (service.TransactionHash, error) {
		return s.ledger.UpdatePolicy(ctx, policy)
	}
}

// policyState serves the suspend, unsuspend and retire routes.
func (s *Server) policyState(call func(Ledger, context.Context, service.Signed, string) (service.TransactionHash, error)) func(*params, service.Signed) writeOp {
	return func(p *params, req service.Signed) writeOp {
		hash := p.str("policyHash")
		return func(ctx context.Context) (service.TransactionHash, error) {
			return call(s.ledger, ctx, req, hash)
		}
	}
}

func (s *Server) adjustor(call func(Ledger, context.Context, service.AdjustorRequest) (service.TransactionHash, error)) func(*params, service.Signed) writeOp {
	return func(p *params, req service.Signed) writeOp {
		adjustor := service.AdjustorRequest{
			Signed:                   req,
			AdjustorHash:             p.str("adjustorHash"),
			Owner:                    p.str("owner"),
			SettlementApprovalAmount: p.number("settlementApprovalAmount"),
			PolicyRiskPointLimit:     p.number("policyRiskPointLimit"),
			ServiceAgreementHash:     p.str("serviceAgreementHash"),
		}
		return func(ctx context.Context) (service.TransactionHash, error) {
			return call(s.ledger, ctx, adjustor)
		}
	}
}

// retireAdjustor handles PUT /adjustor/retire
func (s *Server) retireAdjustor(p *params, req service.Signed) writeOp {
	hash := p.str("adjustorHash")
	return func(ctx context.Context) (service.TransactionHash, error) {
		return s.ledger.RetireAdjustor(ctx, req, hash)
	}
}

// settlement serves the settlement writes. The amount is read from
// settlementAmount on close and from expectedSettlementAmount otherwise.
func (s *Server) settlement(call func(Ledger, context.Context, service.SettlementRequest) (service.TransactionHash, error)) func(*params, service.Signed) writeOp {
	return func(p *params, req service.Signed) writeOp {
		amount := p.number("expectedSettlementAmount")
		if p.str("settlementAmount") != "" {
			amount = p.number("settlementAmount")
		}
		settlement := service.SettlementRequest{
			Signed:         req,
			SettlementHash: p.str("settlementHash"),
			AdjustorHash:   p.str("adjustorHash"),
			PolicyHash:     p.str("policyHash"),
			DocumentHash:   p.str("documentHash"),
			Amount:         amount,
		}
		return func(ctx context.Context) (service.TransactionHash, error) {
			return call(s.ledger, ctx, settlement)
		}
	}
}

// processPaymentAdvice handles POST /bank/processpaymentadvice
func (s *Server) processPaymentAdvice(p *params, req service.Signed) writeOp {
	adviceIdx, bankIdx := p.number("adviceIdx"), p.number("bankTransactionIdx")
	return func(ctx context.Context) (service.TransactionHash, error) {
		return s.ledger.ProcessPaymentAdvice(ctx, req, adviceIdx, bankIdx)
	}
}

// processAccountCredit handles POST /bank/processaccountcredit
func (s *Server) processAccountCredit(p *params, req service.Signed) writeOp {
	credit := service.AccountCreditRequest{
		Signed:                   req,
		BankTransactionIdx:       p.number("bankTransactionIdx"),
		AccountType:              logdecoder.AccountType(p.enum("accountType", logdecoder.AccountTypes)),
		PaymentAccountHashSender: p.str("paymentAccountHashSender"),
		PaymentSubject:           p.str("paymentSubject"),
		CreditAmount:             p.number("creditAmount"),
	}
	return func(ctx context.Context) (service.TransactionHash, error) {
		return s.ledger.ProcessAccountCredit(ctx, credit)
	}
}

// setWcExpenses handles PUT /ecosystem/setWcExpenses
func (s *Server) setWcExpenses(p *params, req service.Signed) writeOp {
	amount := p.number("amount")
	return func(ctx context.Context) (service.TransactionHash, error) {
		return s.ledger.SetWcExpenses(ctx, req, amount)
	}
}

// addAuthKey handles PUT /authkeys/addauthkey
func (s *Server) addAuthKey(p *params, req service.Signed) writeOp {
	key := p.str("keyToAddAdr")
	return func(ctx context.Context) (service.TransactionHash, error) {
		return s.ledger.AddAuthKey(ctx, req, key)
	}
}

// signedOnly serves writes without fields of their own.
func (s *Server) signedOnly(call func(Ledger, context.Context, service.Signed) (service.TransactionHash, error)) func(*params, service.Signed) writeOp {
	return func(_ *params, req service.Signed) writeOp {
		return func(ctx context.Context) (service.TransactionHash, error) {
			return call(s.ledger, ctx, req)
		}
	}
}
