package service

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/insurepool/poolgate/ledgerapi/contracts"
	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
)

// MaxNotificationWindow is the longest span, in seconds, a notification
// query may cover.
const MaxNotificationWindow uint64 = 24 * 3600

// Notification is one scheduled timer callback.
type Notification struct {
	Address   string `json:"address"`
	Subject   uint64 `json:"subject"`
	Message   string `json:"message"`
	Timestamp uint64 `json:"timestamp"`
}

// Notifications lists the timer callbacks scheduled between fromTime and
// toTime (EPOCH seconds, both inclusive at 10 second resolution). Without
// bounds the next 24 hours of ledger time are returned; a single bound is
// extended by 24 hours in the open direction.
func (s *Service) Notifications(ctx context.Context, contractAdr string, fromTime, toTime uint64) ([]Notification, error) {
	eco, err := s.ecosystem(ctx, contractAdr)
	if err != nil {
		return nil, err
	}

	now, err := s.callUint(ctx, contracts.Timer, eco.timer, "getBlockchainEPOCHTime")
	if err != nil {
		return nil, err
	}
	inception, err := s.callUint(ctx, contracts.Timer, eco.timer, "TIMER_INCEPTION_DATE")
	if err != nil {
		return nil, err
	}

	from, to, err := notificationWindow(fromTime, toTime, now, inception)
	if err != nil {
		return nil, err
	}

	from10, to10 := from/10, to/10
	entries := make([]Notification, 0)
	for bucket := from10 / 10; bucket <= to10/10; bucket++ {
		has, err := s.callBool(ctx, contracts.Timer, eco.timer, "timeIntervalHasEntries", uintArg(bucket))
		if err != nil {
			return nil, err
		}
		if !has {
			continue
		}

		for slot := bucket * 10; slot < (bucket+1)*10; slot++ {
			if slot < from10 || slot > to10 {
				continue
			}
			count, err := s.callUint(ctx, contracts.Timer, eco.timer, "getTimerNotificationCount", uintArg(slot))
			if err != nil {
				return nil, err
			}
			for k := uint64(0); k < count; k++ {
				out, err := s.call(ctx, contracts.Timer, eco.timer, "notification", uintArg(slot), uintArg(k))
				if err != nil {
					return nil, err
				}
				n := Notification{
					Address:   out.addressHex(0),
					Subject:   out.number(1),
					Timestamp: slot * 10,
				}
				message := out.fullWord(2)
				if err := out.Err(); err != nil {
					return nil, err
				}
				if n.Message, err = hexcodec.DecodeASCII(message); err != nil {
					return nil, err
				}
				entries = append(entries, n)
			}
		}
	}
	return entries, nil
}

// notificationWindow resolves and validates the requested time window.
func notificationWindow(fromTime, toTime, now, inception uint64) (uint64, uint64, error) {
	if (fromTime != 0 && fromTime < inception) || (toTime != 0 && toTime < inception) {
		return 0, 0, ledgererrors.NewValidationError(
			fmt.Sprintf("notification window must not start before the timer inception at %d", inception))
	}

	switch {
	case fromTime == 0 && toTime == 0:
		return now, now + MaxNotificationWindow, nil
	case fromTime == 0:
		from := inception
		if toTime-inception > MaxNotificationWindow {
			from = toTime - MaxNotificationWindow
		}
		return from, toTime, nil
	case toTime == 0:
		return fromTime, fromTime + MaxNotificationWindow, nil
	case fromTime > toTime || toTime-fromTime > MaxNotificationWindow:
		return 0, 0, ledgererrors.NewValidationError(
			fmt.Sprintf("notification window must be ordered and span at most %d seconds", MaxNotificationWindow))
	}
	return fromTime, toTime, nil
}

// TimerAddress resolves the timer contract of the ecosystem contractAdr
// belongs to.
func (s *Service) TimerAddress(ctx context.Context, contractAdr string) (common.Address, error) {
	eco, err := s.ecosystem(ctx, contractAdr)
	if err != nil {
		return common.Address{}, err
	}
	return eco.timer, nil
}
