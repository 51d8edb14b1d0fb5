package service

import (
	"context"

	"github.com/insurepool/poolgate/ledgerapi/contracts"
	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
	"github.com/insurepool/poolgate/ledgerapi/logdecoder"
	"github.com/insurepool/poolgate/ledgerapi/logfilter"
)

// BankLogQuery selects bank transaction events. AccountType is always part
// of the filter.
type BankLogQuery struct {
	InternalReferenceHash string
	AccountType           logdecoder.AccountType
	Success               logdecoder.SuccessFilter
	FromBlock             uint64
	ToBlock               uint64
}

// PaymentAdvice is an outstanding instruction for the bank to pay out funds.
type PaymentAdvice struct {
	Idx                         uint64                       `json:"idx"`
	AdviceType                  logdecoder.PaymentAdviceType `json:"advice_type"`
	PaymentAccountHashRecipient string                       `json:"payment_account_hash_recipient"`
	PaymentSubject              string                       `json:"payment_subject"`
	Amount                      uint64                       `json:"amount"`
	InternalReferenceHash       string                       `json:"internal_reference_hash"`
}

// BankLogs searches bank transaction events, newest first. Only a request
// without reference hash and with the success filter at All is limited to
// the default block window.
func (s *Service) BankLogs(ctx context.Context, contractAdr string, q BankLogQuery) ([]logdecoder.BankLog, error) {
	eco, err := s.ecosystem(ctx, contractAdr)
	if err != nil {
		return nil, err
	}

	reference, err := logfilter.Hash(q.InternalReferenceHash)
	if err != nil {
		return nil, err
	}
	success := logfilter.Any()
	switch q.Success {
	case logdecoder.SuccessPositive:
		success = logfilter.Bool(true)
	case logdecoder.SuccessNegative:
		success = logfilter.Bool(false)
	}
	narrowing := q.Success != logdecoder.SuccessAll ||
		!hexcodec.IsEmpty(q.InternalReferenceHash, hexcodec.KindHash)

	logs, err := s.logQuery(ctx, eco.bank, contracts.Bank, "LogBank", logfilter.Request{
		Topics: [3]logfilter.Matcher{
			reference,
			logfilter.Uint(uint64(q.AccountType)),
			success,
		},
		FromBlock: q.FromBlock,
		ToBlock:   q.ToBlock,
		Narrowing: &narrowing,
	})
	if err != nil {
		return nil, err
	}
	return logdecoder.BankLogs.Decode(logs)
}

// PaymentAdvice lists the bank's payment advice entries that still carry an
// amount. Processed entries are zeroed by the contract and skipped.
func (s *Service) PaymentAdvice(ctx context.Context, contractAdr string) ([]PaymentAdvice, error) {
	eco, err := s.ecosystem(ctx, contractAdr)
	if err != nil {
		return nil, err
	}

	count, err := s.callUint(ctx, contracts.Bank, eco.bank, "countPaymentAdviceEntries")
	if err != nil {
		return nil, err
	}

	items := make([]PaymentAdvice, 0)
	for i := uint64(0); i < count; i++ {
		out, err := s.call(ctx, contracts.Bank, eco.bank, "bankPaymentAdvice", uintArg(i))
		if err != nil {
			return nil, err
		}
		advice := PaymentAdvice{
			Idx:                         i,
			AdviceType:                  logdecoder.PaymentAdviceType(out.enum(0, logdecoder.PaymentAdviceTypes)),
			PaymentAccountHashRecipient: out.hash(1),
			Amount:                      out.number(3),
			InternalReferenceHash:       out.hash(4),
		}
		subject := out.fullWord(2)
		if err := out.Err(); err != nil {
			return nil, err
		}
		if advice.Amount == 0 {
			continue
		}
		if advice.PaymentSubject, err = logdecoder.NumericPrefix(subject); err != nil {
			return nil, err
		}
		items = append(items, advice)
	}
	return items, nil
}
