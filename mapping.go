package lsbsteg

import (
	"errors"
	"fmt"

	"github.com/axbits/lsbsteg/capacity"
	"github.com/axbits/lsbsteg/frame"
)

// mapFrameErr translates a frame package sentinel into the matching root
// sentinel, wrapping so both errors.Is chains stay reachable.
func mapFrameErr(err error) error {
	switch {
	case errors.Is(err, frame.ErrExtensionTooLong):
		return fmt.Errorf("%w: %w", ErrExtensionTooLong, err)
	case errors.Is(err, frame.ErrCalculationOverflow):
		return fmt.Errorf("%w: %w", ErrCalculationOverflow, err)
	case errors.Is(err, frame.ErrInsufficientCapacity):
		return fmt.Errorf("%w: %w", ErrInsufficientCapacity, err)
	case errors.Is(err, frame.ErrHashFlagParse):
		return fmt.Errorf("%w: %w", ErrHashFlagParse, err)
	case errors.Is(err, frame.ErrPayloadParse):
		return fmt.Errorf("%w: %w", ErrPayloadParse, err)
	case errors.Is(err, frame.ErrChecksumMismatch):
		return fmt.Errorf("%w: %w", ErrChecksumMismatch, err)
	default:
		return err
	}
}

// mapCapacityErr translates a capacity.OverflowError into ErrCalculationOverflow.
func mapCapacityErr(err error) error {
	var overflow *capacity.OverflowError
	if errors.As(err, &overflow) {
		return fmt.Errorf("%w: %w", ErrCalculationOverflow, err)
	}
	return err
}
