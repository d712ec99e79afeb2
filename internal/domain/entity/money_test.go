package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name        string
		part, total int64
		want        int64
	}{
		{"cero total", 5, 0, 0},
		{"exacto", 1, 4, 25},
		{"redondea arriba", 2, 3, 67},
		{"redondea abajo", 1, 3, 33},
		{"mitad sube", 1, 8, 13}, // 12.5
		{"completo", 7, 7, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.part, tt.total))
		})
	}
}

func TestMoney_Times(t *testing.T) {
	assert.Equal(t, Money(3000), Money(1000).Times(3))
	assert.Equal(t, "12500", Money(12500).Decimal().String())
}

func TestKinds_Sign(t *testing.T) {
	assert.Equal(t, int64(1), MovementReceipt.Sign())
	assert.Equal(t, int64(-1), MovementTransfer.Sign())
	assert.Equal(t, int64(0), MovementAdjustment.Sign())
	assert.Equal(t, int64(1), ReturnSale.Sign())
	assert.Equal(t, int64(-1), ReturnPurchase.Sign())
	assert.False(t, ReturnKind("swap").Valid())
}
