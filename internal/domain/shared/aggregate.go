package shared

// BaseAggregateRoot provides common fields and behavior for aggregate roots.
// Version starts at 0 for a freshly created aggregate and is incremented by
// the repository on every committed state change, never by the domain itself.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `json:"version" gorm:"default:0"`
	domainEvents []DomainEvent `json:"-" gorm:"-"`
}

// NewBaseAggregateRoot creates a new aggregate root at version 0
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    0,
	}
}

// GetVersion returns the current version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// SetVersion sets the version (used when loading from persistence)
func (a *BaseAggregateRoot) SetVersion(version int) {
	a.Version = version
}

// AddDomainEvent records a domain event to be published after persistence
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all recorded domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents removes all recorded domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}
