package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeOrderTotal(t *testing.T) {
	tests := []struct {
		name     string
		items    []OrderItemRequest
		expected int
	}{
		{
			name: "two_line_items",
			items: []OrderItemRequest{
				{Name: "Kottu", Price: 500, Quantity: 2},
				{Name: "Lime Juice", Price: 300, Quantity: 1},
			},
			expected: 1300,
		},
		{
			name:     "single_item",
			items:    []OrderItemRequest{{Name: "Rice", Price: 450, Quantity: 1}},
			expected: 450,
		},
		{
			name:     "empty_items",
			items:    nil,
			expected: 0,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, computeOrderTotal(testCase.items))
		})
	}
}
