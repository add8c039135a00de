package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event records something significant that
// happened to class data; subscribers use them for audit logging.
const (
	// Student events
	EventStudentsAdded  EventType = "student.added"
	EventStudentDeleted EventType = "student.deleted"
	EventClassReset     EventType = "class.reset"

	// Repair events
	EventExpNormalized EventType = "progress.exp_normalized"

	// Shop events
	EventPurchaseRecorded EventType = "shop.purchase_recorded"
	EventPurchaseUsed     EventType = "shop.purchase_used"

	// Avatar events
	EventItemRenamed EventType = "avatar.item_renamed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Student Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentsAddedEvent is emitted when students are appended to a class.
type StudentsAddedEvent struct {
	BaseEvent
	ClassID string   `json:"class_id"`
	Names   []string `json:"names"`
}

// Payload implements Event interface.
func (e StudentsAddedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"class_id": e.ClassID,
		"names":    e.Names,
	}
}

// NewStudentsAddedEvent creates a new StudentsAddedEvent.
func NewStudentsAddedEvent(classID string, names []string) StudentsAddedEvent {
	return StudentsAddedEvent{
		BaseEvent: NewBaseEvent(EventStudentsAdded, classID),
		ClassID:   classID,
		Names:     names,
	}
}

// StudentDeletedEvent is emitted when a student is removed from a class.
type StudentDeletedEvent struct {
	BaseEvent
	ClassID   string `json:"class_id"`
	StudentID string `json:"student_id"`
}

// Payload implements Event interface.
func (e StudentDeletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"class_id":   e.ClassID,
		"student_id": e.StudentID,
	}
}

// NewStudentDeletedEvent creates a new StudentDeletedEvent.
func NewStudentDeletedEvent(classID, studentID string) StudentDeletedEvent {
	return StudentDeletedEvent{
		BaseEvent: NewBaseEvent(EventStudentDeleted, classID),
		ClassID:   classID,
		StudentID: studentID,
	}
}

// ClassResetEvent is emitted after the destructive bulk reset of a class.
type ClassResetEvent struct {
	BaseEvent
	ClassID      string `json:"class_id"`
	StudentCount int    `json:"student_count"`
}

// Payload implements Event interface.
func (e ClassResetEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"class_id":      e.ClassID,
		"student_count": e.StudentCount,
	}
}

// NewClassResetEvent creates a new ClassResetEvent.
func NewClassResetEvent(classID string, studentCount int) ClassResetEvent {
	return ClassResetEvent{
		BaseEvent:    NewBaseEvent(EventClassReset, classID),
		ClassID:      classID,
		StudentCount: studentCount,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Repair Events
// ═══════════════════════════════════════════════════════════════════════════

// ExpNormalizedEvent is emitted after a normalization pass over a class.
type ExpNormalizedEvent struct {
	BaseEvent
	ClassID    string `json:"class_id"`
	Processed  int    `json:"processed"`
	ErrorCount int    `json:"error_count"`
}

// Payload implements Event interface.
func (e ExpNormalizedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"class_id":    e.ClassID,
		"processed":   e.Processed,
		"error_count": e.ErrorCount,
	}
}

// NewExpNormalizedEvent creates a new ExpNormalizedEvent.
func NewExpNormalizedEvent(classID string, processed, errorCount int) ExpNormalizedEvent {
	return ExpNormalizedEvent{
		BaseEvent:  NewBaseEvent(EventExpNormalized, classID),
		ClassID:    classID,
		Processed:  processed,
		ErrorCount: errorCount,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Shop Events
// ═══════════════════════════════════════════════════════════════════════════

// PurchaseRecordedEvent is emitted when a purchase record is created.
type PurchaseRecordedEvent struct {
	BaseEvent
	ClassID   string `json:"class_id"`
	StudentID string `json:"student_id"`
	ItemID    string `json:"item_id"`
}

// Payload implements Event interface.
func (e PurchaseRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"class_id":   e.ClassID,
		"student_id": e.StudentID,
		"item_id":    e.ItemID,
	}
}

// NewPurchaseRecordedEvent creates a new PurchaseRecordedEvent.
func NewPurchaseRecordedEvent(classID, purchaseID, studentID, itemID string) PurchaseRecordedEvent {
	return PurchaseRecordedEvent{
		BaseEvent: NewBaseEvent(EventPurchaseRecorded, purchaseID),
		ClassID:   classID,
		StudentID: studentID,
		ItemID:    itemID,
	}
}

// PurchaseUsedEvent is emitted on the one-way used transition.
type PurchaseUsedEvent struct {
	BaseEvent
	ClassID string `json:"class_id"`
}

// Payload implements Event interface.
func (e PurchaseUsedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"class_id": e.ClassID,
	}
}

// NewPurchaseUsedEvent creates a new PurchaseUsedEvent.
func NewPurchaseUsedEvent(classID, purchaseID string) PurchaseUsedEvent {
	return PurchaseUsedEvent{
		BaseEvent: NewBaseEvent(EventPurchaseUsed, purchaseID),
		ClassID:   classID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Avatar Events
// ═══════════════════════════════════════════════════════════════════════════

// ItemRenamedEvent is emitted when a catalog item gets a display-name override.
type ItemRenamedEvent struct {
	BaseEvent
	ItemID  string `json:"item_id"`
	NewName string `json:"new_name"`
}

// Payload implements Event interface.
func (e ItemRenamedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"item_id":  e.ItemID,
		"new_name": e.NewName,
	}
}

// NewItemRenamedEvent creates a new ItemRenamedEvent.
func NewItemRenamedEvent(itemID, newName string) ItemRenamedEvent {
	return ItemRenamedEvent{
		BaseEvent: NewBaseEvent(EventItemRenamed, itemID),
		ItemID:    itemID,
		NewName:   newName,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Contracts
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// NopPublisher discards all events. Useful in tests and one-shot CLI runs.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(Event) error { return nil }
