package booking

import "github.com/arvellino/dinespot/internal/models"

// Availability is the free/taken split of a restaurant's tables for one
// date and time slot.
type Availability struct {
	Available []string `json:"available"`
	Reserved  []string `json:"reserved"`
}

// ComputeAvailability unions the table identifiers claimed by the given
// reservations and subtracts them from the restaurant's full identifier
// set. Order of Available follows identifier generation order.
func ComputeAvailability(types []models.TableType, reservations []models.Reservation) Availability {
	reserved := make(map[string]bool)
	for _, r := range reservations {
		for _, id := range SplitTableNumbers(r.TableNumber) {
			reserved[id] = true
		}
	}

	all := GenerateIdentifiers(types)
	result := Availability{Available: []string{}, Reserved: []string{}}
	for _, id := range all {
		if reserved[id] {
			result.Reserved = append(result.Reserved, id)
		} else {
			result.Available = append(result.Available, id)
		}
	}
	return result
}

// CheckRequested fails if any requested identifier is already taken.
func (a Availability) CheckRequested(identifiers []string) error {
	taken := make(map[string]bool, len(a.Reserved))
	for _, id := range a.Reserved {
		taken[id] = true
	}
	for _, id := range identifiers {
		if taken[id] {
			return ErrTableAlreadyReserved
		}
	}
	return nil
}
