package enums

// OutboxEventType names a queued side-effect event.
type OutboxEventType string

const (
	OutboxEventWarrantyRegistered OutboxEventType = "warranty.registered"
)

// OutboxAggregateType names the entity an outbox event belongs to.
type OutboxAggregateType string

const (
	OutboxAggregateWarranty OutboxAggregateType = "warranty_registration"
)
