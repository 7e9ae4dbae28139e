package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailableAt(t *testing.T) {
	window := func(start, end string) *CrossCoupon {
		return &CrossCoupon{AvailableTimeStart: &start, AvailableTimeEnd: &end}
	}

	t.Run("Boundaries inclusive", func(t *testing.T) {
		c := window("11:00", "14:00")

		assert.True(t, c.AvailableAt("11:00"))
		assert.True(t, c.AvailableAt("12:30"))
		assert.True(t, c.AvailableAt("14:00"))
		assert.False(t, c.AvailableAt("10:59"))
		assert.False(t, c.AvailableAt("14:01"))
	})

	t.Run("No window always available", func(t *testing.T) {
		c := &CrossCoupon{}

		assert.True(t, c.AvailableAt("03:00"))
		assert.True(t, c.AvailableAt("23:59"))
	})

	t.Run("Start only treated as no window", func(t *testing.T) {
		start := "11:00"
		c := &CrossCoupon{AvailableTimeStart: &start}

		assert.True(t, c.AvailableAt("09:00"))
	})
}

func TestDiscountFor(t *testing.T) {
	t.Run("Fixed ignores order amount", func(t *testing.T) {
		c := &CrossCoupon{DiscountType: DiscountFixed, DiscountValue: 3000}

		assert.Equal(t, 3000, c.DiscountFor(0))
		assert.Equal(t, 3000, c.DiscountFor(50000))
	})

	t.Run("Percentage rounds half up", func(t *testing.T) {
		c := &CrossCoupon{DiscountType: DiscountPercentage, DiscountValue: 10}

		assert.Equal(t, 1000, c.DiscountFor(10000))
		// 10% of 9995 = 999.5 -> 1000
		assert.Equal(t, 1000, c.DiscountFor(9995))
		// 10% of 9994 = 999.4 -> 999
		assert.Equal(t, 999, c.DiscountFor(9994))
	})

	t.Run("Unknown type yields zero", func(t *testing.T) {
		c := &CrossCoupon{DiscountType: "BOGO", DiscountValue: 1}

		assert.Equal(t, 0, c.DiscountFor(10000))
	})
}
