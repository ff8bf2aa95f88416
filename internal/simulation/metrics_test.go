package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalaji/replenish/internal/domain"
)

func TestMargin(t *testing.T) {
	assert.Equal(t, 40.0, Margin(100, 60))
	assert.Equal(t, 0.0, Margin(0, 60))
	assert.Equal(t, -25.0, Margin(40, 50))

	// margin is a ratio: scaling price and cost together must not change it
	assert.Equal(t, Margin(100, 60), Margin(200, 120))
}

func TestEOQ(t *testing.T) {
	assert.Equal(t, 0, EOQ(0, 3))
	assert.Equal(t, 0, EOQ(5, 0))
	assert.Equal(t, 0, EOQ(-1, 3))

	// sqrt(2 * 365 * 50 / 12.5) = 54.04, ceil to 55
	assert.Equal(t, 55, EOQ(1, 4))

	// high demand with long lead time: the lead-time floor dominates
	assert.Equal(t, 3000, EOQ(100, 30))
}

func TestReorderPoint(t *testing.T) {
	assert.Equal(t, 16, ReorderPoint(2, 3, 10))
	assert.Equal(t, 4, ReorderPoint(1, 4, 0))
	assert.Equal(t, 0, ReorderPoint(-5, 3, 0))
}

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		threshold float64
		want      domain.RiskLevel
	}{
		{"well below threshold", 3, 10, domain.RiskHigh},
		{"exactly half", 5, 10, domain.RiskHigh},
		{"between half and full", 8, 10, domain.RiskMedium},
		{"exactly at threshold", 10, 10, domain.RiskMedium},
		{"above threshold", 15, 10, domain.RiskLow},
		{"zero threshold degrades", 5, 0, domain.RiskLow},
		{"negative threshold degrades", 5, -1, domain.RiskLow},
		{"negative value degrades", -1, 10, domain.RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ClassifyRisk(tt.value, tt.threshold))
		})
	}
}

func TestRiskRankOrdersHighFirst(t *testing.T) {
	assert.Less(t, riskRank(domain.RiskHigh), riskRank(domain.RiskMedium))
	assert.Less(t, riskRank(domain.RiskMedium), riskRank(domain.RiskLow))
}

func TestRound2UsesDecimalRounding(t *testing.T) {
	assert.Equal(t, 1.01, round2(1.005))
	assert.Equal(t, 538.07, round2(538.0681))
}
