package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/arvellino/dinespot/internal/models"
)

var (
	ErrUnknownTable         = errors.New("table identifier does not exist for this restaurant")
	ErrInsufficientCapacity = errors.New("selected tables cannot seat the party")
	ErrTableAlreadyReserved = errors.New("table already reserved for this slot")
	ErrNoTablesSelected     = errors.New("no table selected")
)

// GenerateIdentifiers expands a restaurant's table configuration into its
// stable three-digit table codes. Type index t with quantity q yields
// t*100+1 .. t*100+q, zero-padded. The numbering is load-bearing: stored
// reservations reference these codes as plain strings.
func GenerateIdentifiers(types []models.TableType) []string {
	var ids []string
	for t, tt := range types {
		for i := 0; i < tt.Quantity; i++ {
			ids = append(ids, fmt.Sprintf("%03d", t*100+i+1))
		}
	}
	return ids
}

// SplitTableNumbers splits a reservation's comma-joined table_number field.
func SplitTableNumbers(tableNumber string) []string {
	var ids []string
	for _, part := range strings.Split(tableNumber, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

// SeatCount resolves one identifier back to its table type's seat count.
func SeatCount(types []models.TableType, identifier string) (int, error) {
	code, err := strconv.Atoi(identifier)
	if err != nil {
		return 0, ErrUnknownTable
	}
	typeIndex := code / 100
	seq := code % 100
	if typeIndex < 0 || typeIndex >= len(types) {
		return 0, ErrUnknownTable
	}
	if seq < 1 || seq > types[typeIndex].Quantity {
		return 0, ErrUnknownTable
	}
	return types[typeIndex].SeatCount, nil
}

// CheckCapacity verifies the chosen tables can seat the whole party.
func CheckCapacity(types []models.TableType, identifiers []string, partySize int) error {
	if len(identifiers) == 0 {
		return ErrNoTablesSelected
	}
	total := 0
	for _, id := range identifiers {
		seats, err := SeatCount(types, id)
		if err != nil {
			return err
		}
		total += seats
	}
	if total < partySize {
		return ErrInsufficientCapacity
	}
	return nil
}
