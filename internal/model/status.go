package model

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
	OrderDelivered: {},
	OrderCancelled: {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether the edge s -> next is in the transition table.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	switch s {
	case OrderShipped, OrderDelivered, OrderCancelled:
		return false
	}
	return true
}

// PaymentStatus is the payment state of an order. It is the primary driver of
// the order lifecycle: the order becomes confirmed exactly when payment completes.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded},
	PaymentFailed:    {},
	PaymentRefunded:  {},
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, t := range paymentTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether a payment decision has already been made.
func (s PaymentStatus) Terminal() bool {
	return s != PaymentPending
}

// ConsultationStatus is the lifecycle state of a consultation booking.
type ConsultationStatus string

const (
	ConsultationScheduled   ConsultationStatus = "scheduled"
	ConsultationCompleted   ConsultationStatus = "completed"
	ConsultationCancelled   ConsultationStatus = "cancelled"
	ConsultationRescheduled ConsultationStatus = "rescheduled"
)

var consultationTransitions = map[ConsultationStatus][]ConsultationStatus{
	ConsultationScheduled:   {ConsultationCompleted, ConsultationCancelled, ConsultationRescheduled},
	ConsultationRescheduled: {ConsultationCompleted, ConsultationCancelled, ConsultationRescheduled},
	ConsultationCompleted:   {},
	ConsultationCancelled:   {},
}

func (s ConsultationStatus) Valid() bool {
	_, ok := consultationTransitions[s]
	return ok
}

func (s ConsultationStatus) CanTransitionTo(next ConsultationStatus) bool {
	for _, t := range consultationTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Active reports whether the consultation still occupies its time slot.
func (s ConsultationStatus) Active() bool {
	return s == ConsultationScheduled || s == ConsultationRescheduled
}
