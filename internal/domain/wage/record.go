// Package wage defines the indexed wage observation.
package wage

// Record is one wage-survey row as persisted in the index. Records are
// created in bulk during ingestion and never updated afterwards; the only
// delete path is dropping the whole index.
type Record struct {
	ID        string
	JobTitle  string  // normalized, non-empty, not purely numeric
	CityState string  // normalized "city state", same constraints
	Salary    float64 // annualized, storage-scaled for the half_float field
}
