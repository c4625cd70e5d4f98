// Package salary converts raw wage figures into the storage-scaled
// annual values kept in the index, and scales aggregation results back.
package salary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openlabor/wagedex/internal/domain"
)

// maxHalfFloat is the largest magnitude representable by the index's
// half_float salary field.
const maxHalfFloat = 65504

// storageScale is applied to annual salaries before storage; queries undo
// it with ResultScale. Halves the precision the field has to carry.
const (
	storageScale = 1e-3
	ResultScale  = 1e3
)

// payScales maps a pay-period unit to its annualization factor pre-scaled
// by storageScale, so one multiply yields the storable value.
// hour = 2080h/yr, day = 260, week = 52, bi-weekly = 26, month = 12.
var payScales = map[string]float64{
	"hour":      2.08,
	"day":       0.26,
	"week":      0.052,
	"bi-weekly": 0.026,
	"month":     0.012,
	"year":      0.001,
}

// Convert turns a raw wage figure and its pay-period unit into the
// storage-scaled annual salary. The unit label is trimmed and lowercased
// before lookup. Amounts implausibly large for a sub-annual unit are
// assumed to be already-annual figures the source mislabeled, and are
// reclassified as yearly before conversion.
func Convert(rawAmount, unitLabel string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(rawAmount), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, rawAmount)
	}

	unit := strings.ToLower(strings.TrimSpace(unitLabel))
	scale, ok := payScales[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownUnit, unitLabel)
	}

	if unit != "year" && amount > 10000/scale {
		unit = "year"
		scale = payScales[unit]
	}

	scaled := amount * scale

	// Literal port of the source system's half_float guard, including its
	// second division by the scale factor. See the open-question note in
	// DESIGN.md before changing the threshold.
	if scaled > maxHalfFloat*1000/scale {
		return 0, fmt.Errorf("%w: %g (%s)", domain.ErrOutOfRange, scaled, unit)
	}

	return scaled, nil
}
