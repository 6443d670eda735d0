package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// MaxOrderIDLength bounds identifiers accepted from collaborators.
const MaxOrderIDLength = 64

// ErrOrderIDIsNotConstructed is returned when validating a zero-value OrderID.
var ErrOrderIDIsNotConstructed = errs.NewValueIsRequiredError("OrderID must be created via NewOrderID or OrderIDFromString")

// OrderID identifies an order across the OrderStore and the timing queue.
// The value is opaque: collaborators may supply any non-blank string, and
// NewOrderID generates a random UUID-based identifier for orders placed here.
//
// Example:
//
//	id, err := kernel.OrderIDFromString("A-1042")
//	if err != nil {
//	    return fmt.Errorf("invalid order id: %w", err)
//	}
type OrderID struct {
	value string
}

// NewOrderID generates a new random identifier.
func NewOrderID() OrderID {
	return OrderID{value: uuid.NewString()}
}

// OrderIDFromString wraps an identifier received from a collaborator.
// Surrounding whitespace is trimmed; blank and over-long values are rejected.
func OrderIDFromString(s string) (OrderID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return OrderID{}, errs.NewValueIsRequiredError("orderId")
	}
	if len(s) > MaxOrderIDLength {
		return OrderID{}, errs.NewValueIsInvalidErrorWithCause(
			"orderId",
			fmt.Errorf("length %d exceeds %d", len(s), MaxOrderIDLength),
		)
	}
	return OrderID{value: s}, nil
}

// MustOrderIDFromString is OrderIDFromString for identifiers known to be valid.
// It panics otherwise and is intended for tests and constants.
func MustOrderIDFromString(s string) OrderID {
	id, err := OrderIDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the raw identifier.
func (id OrderID) String() string {
	return id.value
}

// IsEqual reports whether both identifiers are the same.
func (id OrderID) IsEqual(other OrderID) bool {
	return id.value == other.value
}

// Validate returns ErrOrderIDIsNotConstructed for the zero value.
func (id OrderID) Validate() error {
	if id.value == "" {
		return ErrOrderIDIsNotConstructed
	}
	return nil
}
