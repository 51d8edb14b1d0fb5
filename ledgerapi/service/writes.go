package service

import (
	"context"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/insurepool/poolgate/ledgerapi/contracts"
	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
	"github.com/insurepool/poolgate/ledgerapi/logdecoder"
)

// Submitter broadcasts a signed contract call and returns its hash.
type Submitter interface {
	Submit(ctx context.Context, signingKey string, contract *abi.ABI, to common.Address, method string, args ...any) (common.Hash, error)
}

// TransactionHash is the answer to every write operation. The transaction
// is broadcast but not yet mined.
type TransactionHash struct {
	TransactionHash string `json:"transaction_hash"`
}

// Signed carries the fields every write operation needs.
type Signed struct {
	ContractAdr       string
	SigningPrivateKey string
}

// BondRequest creates a bond. SecurityReferenceHash is optional.
type BondRequest struct {
	Signed
	Principal             uint64
	SecurityReferenceHash string
}

// PolicyRequest creates or updates a policy. Owner is used on create,
// PolicyHash on update.
type PolicyRequest struct {
	Signed
	AdjustorHash string
	PolicyHash   string
	Owner        string
	DocumentHash string
	RiskPoints   uint64
}

// AdjustorRequest creates or updates an adjustor. AdjustorHash is used on
// update only.
type AdjustorRequest struct {
	Signed
	AdjustorHash             string
	Owner                    string
	SettlementApprovalAmount uint64
	PolicyRiskPointLimit     uint64
	ServiceAgreementHash     string
}

// SettlementRequest drives the settlement life cycle. Amount is the final
// amount on close and the expected amount on SetExpectedSettlementAmount.
type SettlementRequest struct {
	Signed
	SettlementHash string
	AdjustorHash   string
	PolicyHash     string
	DocumentHash   string
	Amount         uint64
}

// AccountCreditRequest confirms a payment received on a pool bank account.
// A decimal PaymentSubject is sent as a numeric word, anything else as a
// hash.
type AccountCreditRequest struct {
	Signed
	BankTransactionIdx       uint64
	AccountType              logdecoder.AccountType
	PaymentAccountHashSender string
	PaymentSubject           string
	CreditAmount             uint64
}

// signed checks the common write fields. It does not touch the ledger.
func (s *Service) signed(req Signed) (common.Address, error) {
	address, err := parseAddress(req.ContractAdr)
	if err != nil {
		return common.Address{}, err
	}
	if !hexcodec.ValidPrivateKey(req.SigningPrivateKey, true) {
		return common.Address{}, ledgererrors.NewValidationError("signing private key must be 64 hex characters without prefix")
	}
	return address, nil
}

// submit sends one transaction signed with the caller's key.
func (s *Service) submit(ctx context.Context, req Signed, contract *abi.ABI, to common.Address, method string, args ...any) (TransactionHash, error) {
	if s.opts.Submitter == nil {
		return TransactionHash{}, ledgererrors.NewConfigError("transaction submission is not enabled")
	}
	hash, err := s.opts.Submitter.Submit(ctx, req.SigningPrivateKey, contract, to, method, args...)
	if err != nil {
		return TransactionHash{}, err
	}
	s.logger.Debug().Str("method", method).Str("to", lowerHex(to)).Str("tx_hash", hash.Hex()).Msg("write submitted")
	return TransactionHash{TransactionHash: hash.Hex()}, nil
}

// prepare validates req and resolves its ecosystem.
func (s *Service) prepare(ctx context.Context, req Signed) (ContractAddresses, error) {
	if _, err := s.signed(req); err != nil {
		return ContractAddresses{}, err
	}
	return s.ecosystem(ctx, req.ContractAdr)
}

type hashField struct {
	name     string
	value    string
	required bool
}

// hashes converts hash fields to bytes32 arguments after a shape check. A
// field that is not required may be empty and becomes the zero word.
func hashes(fields ...hashField) ([][32]byte, error) {
	out := make([][32]byte, len(fields))
	for i, f := range fields {
		if !hexcodec.ValidHash(f.value, f.required) {
			return nil, ledgererrors.NewValidationError(f.name + " must be a 0x-prefixed 32-byte hex value")
		}
		if hexcodec.IsEmpty(f.value, hexcodec.KindHash) {
			continue
		}
		word, err := hashArg(f.value)
		if err != nil {
			return nil, err
		}
		out[i] = word
	}
	return out, nil
}

func ownerArg(name, value string) (common.Address, error) {
	if !hexcodec.ValidAddress(value, true) {
		return common.Address{}, ledgererrors.NewValidationError(name + " must be a 0x-prefixed 20-byte hex address")
	}
	return common.HexToAddress(value), nil
}

func positive(name string, v uint64) error {
	if v == 0 {
		return ledgererrors.NewValidationError(name + " must be greater than zero")
	}
	return nil
}

// CreateBond submits Bond.createBond.
func (s *Service) CreateBond(ctx context.Context, req BondRequest) (TransactionHash, error) {
	if err := positive("principal", req.Principal); err != nil {
		return TransactionHash{}, err
	}
	h, err := hashes(hashField{"securityReferenceHash", req.SecurityReferenceHash, false})
	if err != nil {
		return TransactionHash{}, err
	}
	eco, err := s.prepare(ctx, req.Signed)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req.Signed, contracts.Bond, eco.bond, "createBond", uintArg(req.Principal), h[0])
}

// CreatePolicy submits Policy.createPolicy.
func (s *Service) CreatePolicy(ctx context.Context, req PolicyRequest) (TransactionHash, error) {
	if err := positive("riskPoints", req.RiskPoints); err != nil {
		return TransactionHash{}, err
	}
	owner, err := ownerArg("owner", req.Owner)
	if err != nil {
		return TransactionHash{}, err
	}
	h, err := hashes(
		hashField{"adjustorHash", req.AdjustorHash, true},
		hashField{"documentHash", req.DocumentHash, true},
	)
	if err != nil {
		return TransactionHash{}, err
	}
	eco, err := s.prepare(ctx, req.Signed)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req.Signed, contracts.Policy, eco.policy, "createPolicy", h[0], owner, h[1], uintArg(req.RiskPoints))
}

// UpdatePolicy submits Policy.updatePolicy.
func (s *Service) UpdatePolicy(ctx context.Context, req PolicyRequest) (TransactionHash, error) {
	if err := positive("riskPoints", req.RiskPoints); err != nil {
		return TransactionHash{}, err
	}
	h, err := hashes(
		hashField{"adjustorHash", req.AdjustorHash, true},
		hashField{"policyHash", req.PolicyHash, true},
		hashField{"documentHash", req.DocumentHash, true},
	)
	if err != nil {
		return TransactionHash{}, err
	}
	eco, err := s.prepare(ctx, req.Signed)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req.Signed, contracts.Policy, eco.policy, "updatePolicy", h[0], h[1], h[2], uintArg(req.RiskPoints))
}

// SuspendPolicy submits Policy.suspendPolicy. Only the policy holder's key
// is accepted by the contract.
func (s *Service) SuspendPolicy(ctx context.Context, req Signed, policyHash string) (TransactionHash, error) {
	return s.policyState(ctx, req, policyHash, "suspendPolicy")
}

// UnsuspendPolicy submits Policy.unsuspendPolicy.
func (s *Service) UnsuspendPolicy(ctx context.Context, req Signed, policyHash string) (TransactionHash, error) {
	return s.policyState(ctx, req, policyHash, "unsuspendPolicy")
}

// RetirePolicy submits Policy.retirePolicy.
func (s *Service) RetirePolicy(ctx context.Context, req Signed, policyHash string) (TransactionHash, error) {
	return s.policyState(ctx, req, policyHash, "retirePolicy")
}

func (s *Service) policyState(ctx context.Context, req Signed, policyHash, method string) (TransactionHash, error) {
	h, err := hashes(hashField{"policyHash", policyHash, true})
	if err != nil {
		return TransactionHash{}, err
	}
	eco, err := s.prepare(ctx, req)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req, contracts.Policy, eco.policy, method, h[0])
}

// CreateAdjustor submits Trust.createAdjustor. Adjustors are managed by the
// trust contract, not the adjustor contract.
func (s *Service) CreateAdjustor(ctx context.Context, req AdjustorRequest) (TransactionHash, error) {
	owner, err := ownerArg("owner", req.Owner)
	if err != nil {
		return TransactionHash{}, err
	}
	h, err := hashes(hashField{"serviceAgreementHash", req.ServiceAgreementHash, true})
	if err != nil {
		return TransactionHash{}, err
	}
	eco, err := s.prepare(ctx, req.Signed)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req.Signed, contracts.Trust, eco.trust, "createAdjustor",
		owner, uintArg(req.SettlementApprovalAmount), uintArg(req.PolicyRiskPointLimit), h[0])
}

// UpdateAdjustor submits Trust.updateAdjustor.
func (s *Service) UpdateAdjustor(ctx context.Context, req AdjustorRequest) (TransactionHash, error) {
	owner, err := ownerArg("owner", req.Owner)
	if err != nil {
		return TransactionHash{}, err
	}
	h, err := hashes(
		hashField{"adjustorHash", req.AdjustorHash, true},
		hashField{"serviceAgreementHash", req.ServiceAgreementHash, true},
	)
	if err != nil {
		return TransactionHash{}, err
	}
	eco, err := s.prepare(ctx, req.Signed)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req.Signed, contracts.Trust, eco.trust, "updateAdjustor",
		h[0], owner, uintArg(req.SettlementApprovalAmount), uintArg(req.PolicyRiskPointLimit), h[1])
}

// RetireAdjustor submits Trust.retireAdjustor.
func (s *Service) RetireAdjustor(ctx context.Context, req Signed, adjustorHash string) (TransactionHash, error) {
	h, err := hashes(hashField{"adjustorHash", adjustorHash, true})
	if err != nil {
		return TransactionHash{}, err
	}
	eco, err := s.prepare(ctx, req)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req, contracts.Trust, eco.trust, "retireAdjustor", h[0])
}

// CreateSettlement submits Settlement.createSettlement. PolicyHash and
// DocumentHash are optional.
func (s *Service) CreateSettlement(ctx context.Context, req SettlementRequest) (TransactionHash, error) {
	h, err := hashes(
		hashField{"adjustorHash", req.AdjustorHash, true},
		hashField{"policyHash", req.PolicyHash, false},
		hashField{"documentHash", req.DocumentHash, false},
	)
	if err != nil {
		return TransactionHash{}, err
	}
	eco, err := s.prepare(ctx, req.Signed)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req.Signed, contracts.Settlement, eco.settlement, "createSettlement", h[0], h[1], h[2])
}

// AddSettlementInfo submits Settlement.addSettlementInfo.
func (s *Service) AddSettlementInfo(ctx context.Context, req SettlementRequest) (TransactionHash, error) {
	h, err := hashes(
		hashField{"settlementHash", req.SettlementHash, true},
		hashField{"adjustorHash", req.AdjustorHash, true},
		hashField{"documentHash", req.DocumentHash, true},
	)
	if err != nil {
		return TransactionHash{}, err
	}
	eco, err := s.prepare(ctx, req.Signed)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req.Signed, contracts.Settlement, eco.settlement, "addSettlementInfo", h[0], h[1], h[2])
}

// CloseSettlement submits Settlement.closeSettlement with the final amount.
func (s *Service) CloseSettlement(ctx context.Context, req SettlementRequest) (TransactionHash, error) {
	h, err := hashes(
		hashField{"settlementHash", req.SettlementHash, true},
		hashField{"adjustorHash", req.AdjustorHash, true},
		hashField{"documentHash", req.DocumentHash, true},
	)
	if err != nil {
		return TransactionHash{}, err
	}
	eco, err := s.prepare(ctx, req.Signed)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req.Signed, contracts.Settlement, eco.settlement, "closeSettlement",
		h[0], h[1], h[2], uintArg(req.Amount))
}

// SetExpectedSettlementAmount submits Settlement.setExpectedSettlementAmount.
func (s *Service) SetExpectedSettlementAmount(ctx context.Context, req SettlementRequest) (TransactionHash, error) {
	h, err := hashes(
		hashField{"settlementHash", req.SettlementHash, true},
		hashField{"adjustorHash", req.AdjustorHash, true},
	)
	if err != nil {
		return TransactionHash{}, err
	}
	eco, err := s.prepare(ctx, req.Signed)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req.Signed, contracts.Settlement, eco.settlement, "setExpectedSettlementAmount",
		h[0], h[1], uintArg(req.Amount))
}

// ProcessPaymentAdvice marks a bank payment advice as executed.
func (s *Service) ProcessPaymentAdvice(ctx context.Context, req Signed, adviceIdx, bankTransactionIdx uint64) (TransactionHash, error) {
	eco, err := s.prepare(ctx, req)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req, contracts.Bank, eco.bank, "processPaymentAdvice",
		uintArg(adviceIdx), uintArg(bankTransactionIdx))
}

// ProcessAccountCredit submits Bank.processAccountCredit.
func (s *Service) ProcessAccountCredit(ctx context.Context, req AccountCreditRequest) (TransactionHash, error) {
	if err := positive("creditAmount", req.CreditAmount); err != nil {
		return TransactionHash{}, err
	}
	h, err := hashes(hashField{"paymentAccountHashSender", req.PaymentAccountHashSender, true})
	if err != nil {
		return TransactionHash{}, err
	}
	subject, err := paymentSubjectArg(req.PaymentSubject)
	if err != nil {
		return TransactionHash{}, err
	}
	eco, err := s.prepare(ctx, req.Signed)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req.Signed, contracts.Bank, eco.bank, "processAccountCredit",
		uintArg(req.BankTransactionIdx), uintArg(uint64(req.AccountType)), h[0], subject, uintArg(req.CreditAmount))
}

// paymentSubjectArg sends a 32-bit decimal subject (a policy or bond
// reference number) as a numeric word and any other value as hex.
func paymentSubjectArg(subject string) ([32]byte, error) {
	if v, err := strconv.ParseUint(subject, 10, 32); err == nil {
		return [32]byte(common.HexToHash(hexcodec.Uint64ToWord(v))), nil
	}
	return hashArg(subject)
}

// SetWcExpenses submits Trust.setWcExpenses for the next overnight run.
func (s *Service) SetWcExpenses(ctx context.Context, req Signed, amount uint64) (TransactionHash, error) {
	eco, err := s.prepare(ctx, req)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req, contracts.Trust, eco.trust, "setWcExpenses", uintArg(amount))
}

// AdjustDaylightSaving schedules a summer/winter time switch for the next
// overnight run.
func (s *Service) AdjustDaylightSaving(ctx context.Context, req Signed) (TransactionHash, error) {
	eco, err := s.prepare(ctx, req)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req, contracts.Trust, eco.trust, "adjustDaylightSaving")
}

// PreAuth, AddAuthKey and RotateAuthKey go straight to ContractAdr, which
// may be any contract implementing the external access interface.

// PreAuth submits ExtAccessI.preAuth.
func (s *Service) PreAuth(ctx context.Context, req Signed) (TransactionHash, error) {
	to, err := s.signed(req)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req, contracts.ExtAccessI, to, "preAuth")
}

// AddAuthKey registers keyToAddAdr as an external access key.
func (s *Service) AddAuthKey(ctx context.Context, req Signed, keyToAddAdr string) (TransactionHash, error) {
	key, err := ownerArg("keyToAddAdr", keyToAddAdr)
	if err != nil {
		return TransactionHash{}, err
	}
	to, err := s.signed(req)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req, contracts.ExtAccessI, to, "addKey", key)
}

// RotateAuthKey submits ExtAccessI.rotateKey.
func (s *Service) RotateAuthKey(ctx context.Context, req Signed) (TransactionHash, error) {
	to, err := s.signed(req)
	if err != nil {
		return TransactionHash{}, err
	}
	return s.submit(ctx, req, contracts.ExtAccessI, to, "rotateKey")
}
