package timing

import (
	"fmt"
	"math/rand/v2"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const (
	smallOrderMinWait kernel.Minutes = 3
	smallOrderMaxWait kernel.Minutes = 5
)

// RandomSource picks the base wait of small orders. *rand.Rand satisfies it.
type RandomSource interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// DefaultRandom draws from the math/rand/v2 global source.
var DefaultRandom RandomSource = globalRandom{}

// BaseWaitTime derives the intrinsic preparation time of an order from its item count.
func BaseWaitTime(itemCount int, rnd RandomSource) (kernel.Minutes, error) {
	if itemCount <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("itemCount is invalid", fmt.Errorf("%d is not greater than 0", itemCount))
	}

	switch {
	case itemCount < 5:
		if rnd == nil {
			rnd = DefaultRandom
		}
		span := int(smallOrderMaxWait-smallOrderMinWait) + 1
		return smallOrderMinWait + kernel.Minutes(rnd.IntN(span)), nil
	case itemCount < 10:
		return 10, nil
	case itemCount < 20:
		return 15, nil
	default:
		return 20, nil
	}
}

// validateBaseWaitTime checks that base could have been produced by BaseWaitTime for itemCount.
func validateBaseWaitTime(itemCount int, base kernel.Minutes) error {
	if itemCount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("itemCount is invalid", fmt.Errorf("%d is not greater than 0", itemCount))
	}

	if itemCount < 5 {
		if base < smallOrderMinWait || base > smallOrderMaxWait {
			return errs.NewValueIsOutOfRangeError("baseWaitTime", base, smallOrderMinWait, smallOrderMaxWait)
		}
		return nil
	}

	expected, err := BaseWaitTime(itemCount, nil)
	if err != nil {
		return err
	}
	if base != expected {
		return errs.NewValueIsOutOfRangeError("baseWaitTime", base, expected, expected)
	}
	return nil
}

// FormatTimeDisplay renders a remaining wait for customers:
// "Ready!" for zero or less, "1h 15m" from an hour up, "9m" otherwise.
func FormatTimeDisplay(minutes kernel.Minutes) string {
	if minutes <= 0 {
		return "Ready!"
	}

	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
