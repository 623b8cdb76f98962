package handler

import "fmt"

// ValidationError rejects bad or missing input before any mutation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError signals an unknown or soft-deleted identifier.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// InsufficientStockError is returned when a reservation or outbound would
// drive availableQuantity below zero. State is left untouched.
type InsufficientStockError struct {
	ProductID   int64
	WarehouseID int64
	Available   int32
	Requested   int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d in warehouse %d: available %d, requested %d",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

// ConsistencyFault marks a broken internal invariant. It is never swallowed:
// callers log it at error level and surface a 500.
type ConsistencyFault struct {
	Message string
}

func (e *ConsistencyFault) Error() string { return e.Message }

func consistencyFaultf(format string, args ...interface{}) *ConsistencyFault {
	return &ConsistencyFault{Message: fmt.Sprintf(format, args...)}
}
