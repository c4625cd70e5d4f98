package ingest

import (
	"errors"

	"github.com/google/uuid"

	"github.com/openlabor/wagedex/internal/domain"
	"github.com/openlabor/wagedex/internal/domain/salary"
	"github.com/openlabor/wagedex/internal/domain/text"
	"github.com/openlabor/wagedex/internal/domain/wage"
)

// Skip reasons, used as metric labels.
const (
	reasonInvalidTitle    = "invalid_title"
	reasonInvalidLocation = "invalid_location"
	reasonInvalidAmount   = "invalid_amount"
	reasonUnknownUnit     = "unknown_unit"
	reasonOutOfRange      = "out_of_range"
)

// buildRecord turns one raw row into an indexable wage record. A false
// return means the row is dropped; the reason labels the skip metric.
// Only rows passing every check ever become records, so the index never
// holds a document violating the field constraints.
func buildRecord(r rawRow) (wage.Record, string, bool) {
	title := text.Normalize(r.title)
	if !text.IsValid(title) {
		return wage.Record{}, reasonInvalidTitle, false
	}

	city := text.Normalize(r.city)
	state := text.Normalize(r.state)
	if full, ok := stateNames[state]; ok {
		state = full
	}
	// The joined field is validated as stored, spaces included. A row with
	// no location at all still indexes as " " and serves title-only queries.
	cityState := city + " " + state
	if !text.IsValid(cityState) {
		return wage.Record{}, reasonInvalidLocation, false
	}

	scaled, err := salary.Convert(r.wage, r.unit)
	if err != nil {
		return wage.Record{}, convertReason(err), false
	}

	return wage.Record{
		ID:        uuid.NewString(),
		JobTitle:  title,
		CityState: cityState,
		Salary:    scaled,
	}, "", true
}

func convertReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownUnit):
		return reasonUnknownUnit
	case errors.Is(err, domain.ErrOutOfRange):
		return reasonOutOfRange
	default:
		return reasonInvalidAmount
	}
}
