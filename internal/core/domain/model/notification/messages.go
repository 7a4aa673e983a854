package notification

import "fmt"

// Content is a rendered subject/body pair ready for a channel provider.
type Content struct {
	Subject string
	Body    string
}

// getTriggerContents maps each trigger to its customer-facing wording. The
// %s placeholder takes the short order reference.
func getTriggerContents() map[Trigger]Content {
	return map[Trigger]Content{
		TriggerOrderPlaced:    {"Order received", "We received your order %s and sent it to the restaurant."},
		TriggerOrderConfirmed: {"Order confirmed", "The restaurant confirmed your order %s."},
		TriggerOrderPreparing: {"Order in the kitchen", "Your order %s is being prepared."},
		TriggerOrderReady:     {"Order ready", "Your order %s is ready and waiting for a rider."},
		TriggerOrderPickedUp:  {"Order picked up", "A rider picked up your order %s."},
		TriggerOrderInTransit: {"Order on its way", "Your order %s is on its way to you."},
		TriggerOrderDelivered: {"Order delivered", "Your order %s was delivered. Enjoy!"},
		TriggerOrderCancelled: {"Order cancelled", "Your order %s was cancelled."},
		TriggerRiderAssigned:  {"Rider assigned", "A rider was assigned to your order %s."},
		TriggerRiderArriving:  {"Rider arriving", "Your rider is arriving with order %s."},
	}
}

// RenderContent produces the subject and body for an order trigger. Triggers
// without a template, such as announcements, take their content from the
// caller instead.
func RenderContent(trigger Trigger, orderRef string) (Content, bool) {
	tpl, ok := getTriggerContents()[trigger]
	if !ok {
		return Content{}, false
	}
	return Content{Subject: tpl.Subject, Body: fmt.Sprintf(tpl.Body, orderRef)}, true
}
