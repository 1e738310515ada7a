package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateOrder       OutboxAggregateType = "order"
	AggregateAppointment OutboxAggregateType = "appointment"
	AggregateTestimonial OutboxAggregateType = "testimonial"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregateAppointment,
	AggregateTestimonial,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres. The value doubles
// as the AMQP routing key suffix.
type OutboxEventType string

const (
	EventOrderCreated         OutboxEventType = "order_created"
	EventOrderStatusChanged   OutboxEventType = "order_status_changed"
	EventOrderCancelled       OutboxEventType = "order_cancelled"
	EventPaymentCompleted     OutboxEventType = "payment_completed"
	EventPaymentFailed        OutboxEventType = "payment_failed"
	EventAppointmentBooked    OutboxEventType = "appointment_booked"
	EventAppointmentCancelled OutboxEventType = "appointment_cancelled"
	EventTestimonialSubmitted OutboxEventType = "testimonial_submitted"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderCreated,
	EventOrderStatusChanged,
	EventOrderCancelled,
	EventPaymentCompleted,
	EventPaymentFailed,
	EventAppointmentBooked,
	EventAppointmentCancelled,
	EventTestimonialSubmitted,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}

// OutboxDLQErrorReason explains why an event was parked in the dead letter table.
type OutboxDLQErrorReason string

const (
	OutboxDLQReasonMaxAttempts  OutboxDLQErrorReason = "max_attempts"
	OutboxDLQReasonNonRetryable OutboxDLQErrorReason = "non_retryable"
)

func (r OutboxDLQErrorReason) IsValid() bool {
	return r == OutboxDLQReasonMaxAttempts || r == OutboxDLQReasonNonRetryable
}
