package products

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateProductInput(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		quantity int
		want     string
	}{
		{"Tomatoes", 120, 5, ""},
		{"", 120, 5, "Product name is required"},
		{"Tomatoes", -1, 5, "Price cannot be negative"},
		{"Tomatoes", 120, -1, "Quantity cannot be negative"},
		{"Tomatoes", 0, 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validateProductInput(tt.name, tt.price, tt.quantity))
	}
}
