package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arvellino/dinespot/internal/models"
)

func TestComputeAvailability(t *testing.T) {
	types := []models.TableType{
		{SeatCount: 4, Quantity: 3},
		{SeatCount: 2, Quantity: 2},
	}

	tests := []struct {
		name              string
		reservations      []models.Reservation
		expectedAvailable []string
		expectedReserved  []string
	}{
		{
			name:              "no_reservations",
			reservations:      nil,
			expectedAvailable: []string{"001", "002", "003", "101", "102"},
			expectedReserved:  []string{},
		},
		{
			name: "single_table_reserved",
			reservations: []models.Reservation{
				{TableNumber: "002"},
			},
			expectedAvailable: []string{"001", "003", "101", "102"},
			expectedReserved:  []string{"002"},
		},
		{
			name: "comma_joined_multi_table_reservation",
			reservations: []models.Reservation{
				{TableNumber: "001,101"},
				{TableNumber: "003"},
			},
			expectedAvailable: []string{"002", "102"},
			expectedReserved:  []string{"001", "003", "101"},
		},
		{
			name: "all_tables_reserved",
			reservations: []models.Reservation{
				{TableNumber: "001,002,003"},
				{TableNumber: "101,102"},
			},
			expectedAvailable: []string{},
			expectedReserved:  []string{"001", "002", "003", "101", "102"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			availability := ComputeAvailability(types, testCase.reservations)
			assert.Equal(t, testCase.expectedAvailable, availability.Available)
			assert.Equal(t, testCase.expectedReserved, availability.Reserved)

			// Available and reserved always partition the identifier set.
			all := GenerateIdentifiers(types)
			assert.Len(t, append(availability.Available, availability.Reserved...), len(all))
			seen := make(map[string]bool)
			for _, id := range append(availability.Available, availability.Reserved...) {
				assert.False(t, seen[id], "identifier %s appears twice", id)
				seen[id] = true
			}
		})
	}
}

func TestAvailabilityCheckRequested(t *testing.T) {
	availability := Availability{
		Available: []string{"001", "003"},
		Reserved:  []string{"002", "101"},
	}

	assert.NoError(t, availability.CheckRequested([]string{"001", "003"}))
	assert.ErrorIs(t, availability.CheckRequested([]string{"002"}), ErrTableAlreadyReserved)
	assert.ErrorIs(t, availability.CheckRequested([]string{"001", "101"}), ErrTableAlreadyReserved)
}
