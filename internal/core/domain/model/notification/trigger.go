package notification

import (
	"fmt"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// Trigger is the preference key of a notification-producing event. Each
// trigger carries an urgency tier that drives the channel decision matrix.
type Trigger string

const (
	TriggerOrderPlaced    Trigger = "orderPlaced"
	TriggerOrderConfirmed Trigger = "orderConfirmed"
	TriggerOrderPreparing Trigger = "orderPreparing"
	TriggerOrderReady     Trigger = "orderReady"
	TriggerOrderPickedUp  Trigger = "orderPickedUp"
	TriggerOrderInTransit Trigger = "orderInTransit"
	TriggerOrderDelivered Trigger = "orderDelivered"
	TriggerOrderCancelled Trigger = "orderCancelled"
	TriggerRiderAssigned  Trigger = "riderAssigned"
	TriggerRiderArriving  Trigger = "riderArriving"
	TriggerAnnouncement   Trigger = "announcement"
)

// Urgency classifies a trigger for the channel decision matrix.
type Urgency int

const (
	// UrgencyLow marks informational messages such as announcements.
	UrgencyLow Urgency = iota + 1

	// UrgencyMedium marks routine order progress updates.
	UrgencyMedium

	// UrgencyHigh marks events the recipient acts on right away.
	UrgencyHigh

	// UrgencyCritical is reserved for security and fraud class events. It is
	// not produced by the normal order flow.
	UrgencyCritical
)

// getTriggerUrgencies maps each trigger to its urgency tier.
func getTriggerUrgencies() map[Trigger]Urgency {
	return map[Trigger]Urgency{
		TriggerOrderPlaced:    UrgencyMedium,
		TriggerOrderConfirmed: UrgencyMedium,
		TriggerOrderPreparing: UrgencyMedium,
		TriggerOrderReady:     UrgencyMedium,
		TriggerOrderPickedUp:  UrgencyMedium,
		TriggerOrderInTransit: UrgencyHigh,
		TriggerOrderDelivered: UrgencyHigh,
		TriggerOrderCancelled: UrgencyHigh,
		TriggerRiderAssigned:  UrgencyHigh,
		TriggerRiderArriving:  UrgencyHigh,
		TriggerAnnouncement:   UrgencyLow,
	}
}

// TriggerForStatus maps an order status change to its notification trigger.
func TriggerForStatus(status order.Status) (Trigger, error) {
	triggers := map[order.Status]Trigger{
		order.Pending:   TriggerOrderPlaced,
		order.Confirmed: TriggerOrderConfirmed,
		order.Preparing: TriggerOrderPreparing,
		order.Ready:     TriggerOrderReady,
		order.PickedUp:  TriggerOrderPickedUp,
		order.InTransit: TriggerOrderInTransit,
		order.Delivered: TriggerOrderDelivered,
		order.Cancelled: TriggerOrderCancelled,
	}

	trigger, ok := triggers[status]
	if !ok {
		return "", errs.NewValueIsInvalidErrorWithCause("status has no notification trigger",
			fmt.Errorf("order status %s", status))
	}
	return trigger, nil
}

// Validate checks the trigger is one of the defined preference keys.
func (t Trigger) Validate() error {
	if _, ok := getTriggerUrgencies()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("trigger is invalid",
			fmt.Errorf("%q is not a valid trigger", string(t)))
	}
	return nil
}

// String returns the preference key of the trigger.
func (t Trigger) String() string {
	return string(t)
}

// Urgency returns the urgency tier of the trigger.
func (t Trigger) Urgency() Urgency {
	if u, ok := getTriggerUrgencies()[t]; ok {
		return u
	}
	return UrgencyLow
}

// IsHardOverride reports whether the trigger notifies even when the
// recipient switched it off. Only order cancellation behaves this way.
func (t Trigger) IsHardOverride() bool {
	return t == TriggerOrderCancelled
}
