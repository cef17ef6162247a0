package notification

import "pharmacy/internal/core/domain/model/order"

// Template is the content of one notification kind.
type Template struct {
	Title   string
	Message string
	Urgency Urgency
	Channel Channel
}

// TemplateFor returns the content of event. It is the only place notification
// content is defined.
func TemplateFor(event order.Event) (Template, bool) {
	switch event {
	case order.EventSubmitted:
		return Template{"New order", "A patient submitted a new order for review.", UrgencyMedium, ChannelPush}, true
	case order.EventConfirmed:
		return Template{"Order confirmed", "Your order has been priced and confirmed by the pharmacy.", UrgencyMedium, ChannelPush}, true
	case order.EventRejected:
		return Template{"Order rejected", "The pharmacy could not fulfil your order.", UrgencyHigh, ChannelPush}, true
	case order.EventPreparing:
		return Template{"Order in preparation", "The pharmacy is preparing your medications.", UrgencyLow, ChannelInApp}, true
	case order.EventReady:
		return Template{"Order ready", "Your order is ready and waiting for a courier.", UrgencyLow, ChannelInApp}, true
	case order.EventOffered:
		return Template{"New delivery", "A pharmacy offered you a delivery. Accept or decline it.", UrgencyHigh, ChannelPushAudio}, true
	case order.EventOfferAccepted:
		return Template{"Delivery accepted", "The courier accepted the delivery.", UrgencyMedium, ChannelPush}, true
	case order.EventOfferDeclined:
		return Template{"Delivery declined", "The courier declined the delivery. Choose another courier.", UrgencyHigh, ChannelPush}, true
	case order.EventOfferExpired:
		return Template{"Delivery offer expired", "The delivery offer was not answered in time.", UrgencyMedium, ChannelPush}, true
	case order.EventInTransit:
		return Template{"Order on its way", "A courier is on the way with your order.", UrgencyMedium, ChannelPush}, true
	case order.EventCourierArrived:
		return Template{"Courier arrived", "The courier has arrived. Confirm once you received your order.", UrgencyHigh, ChannelPushAudio}, true
	case order.EventDelivered:
		return Template{"Order delivered", "The patient confirmed receipt of the order.", UrgencyLow, ChannelInApp}, true
	case order.EventForceConfirmed:
		return Template{"Delivery closed without patient", "The delivery was confirmed without the patient's confirmation.", UrgencyHigh, ChannelPush}, true
	case order.EventCancelled:
		return Template{"Order cancelled", "The order has been cancelled.", UrgencyHigh, ChannelPush}, true
	case order.EventDeliveryDisputed:
		return Template{"Delivery needs review", "The patient has not confirmed receipt after the courier's arrival.", UrgencyHigh, ChannelPush}, true
	}
	return Template{}, false
}
