package enums

// OutboxEventType names the domain events stored in outbox_events.
type OutboxEventType string

const (
	EventOrderPlaced      OutboxEventType = "order.placed"
	EventOrderStatus      OutboxEventType = "order.status_changed"
	EventBookingCompleted OutboxEventType = "booking.completed"
)

// OutboxAggregateType names the aggregate a domain event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder   OutboxAggregateType = "order"
	AggregateBooking OutboxAggregateType = "booking"
)

// OutboxEventStatus tracks the publish lifecycle of an outbox row.
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusPublished OutboxEventStatus = "published"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)
