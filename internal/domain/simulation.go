package domain

// Scenario tags accepted by the engine.
const (
	ScenarioSeasonal    = "seasonal"
	ScenarioStockout    = "stockout"
	ScenarioPricing     = "pricing"
	ScenarioReordering  = "reordering"
	ScenarioExpiry      = "expiry"
	ScenarioSales       = "sales"
	ScenarioRestructure = "restructure"
)

// RiskLevel is the three-tier classification used for sorting and
// prioritizing remediation.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// SimulationResult is a tagged union over the per-scenario result types.
// Exactly one of the pointers is non-nil, matching Type. Results are
// ephemeral: built fresh per invocation and never persisted.
type SimulationResult struct {
	Type        string             `json:"type"`
	Seasonal    *SeasonalResult    `json:"seasonal,omitempty"`
	Stockout    *StockoutResult    `json:"stockout,omitempty"`
	Pricing     *PricingResult     `json:"pricing,omitempty"`
	Reordering  *ReorderingResult  `json:"reordering,omitempty"`
	Expiry      *ExpiryResult      `json:"expiry,omitempty"`
	Sales       *SalesResult       `json:"sales,omitempty"`
	Restructure *RestructureResult `json:"restructure,omitempty"`
}

type SeasonalResult struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Products    []SeasonalProduct `json:"products"`
	Stats       []Stat            `json:"stats"`
}

type SeasonalProduct struct {
	ProductID           int64              `json:"product_id"`
	Name                string             `json:"name"`
	Category            string             `json:"category"`
	CurrentQuantity     int                `json:"current_quantity"`
	CurrentSeason       string             `json:"current_season"`
	PeakSeason          string             `json:"peak_season"`
	SeasonalFactors     map[string]float64 `json:"seasonal_factors"`
	ProjectedQuantities map[string]int     `json:"projected_quantities"`
	Recommendation      string             `json:"recommendation"`
}

type StockoutResult struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Products    []StockoutProduct `json:"products"`
	Stats       []Stat            `json:"stats"`
}

type StockoutProduct struct {
	ProductID         int64     `json:"product_id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	CurrentQuantity   int       `json:"current_quantity"`
	ReorderLevel      int       `json:"reorder_level"`
	DailySalesAvg     int       `json:"daily_sales_avg"`
	DaysUntilStockout int       `json:"days_until_stockout"`
	StockoutDate      string    `json:"stockout_date"`
	RiskLevel         RiskLevel `json:"risk_level"`
	Recommendation    string    `json:"recommendation"`
}

type PricingResult struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Currency    string           `json:"currency"`
	Products    []PricingProduct `json:"products"`
	Stats       []Stat           `json:"stats"`
}

type PricePoint struct {
	Price             float64 `json:"price"`
	EstimatedQuantity int     `json:"estimated_quantity"`
	Margin            float64 `json:"margin"`
	Profit            float64 `json:"profit"`
}

type PricingProduct struct {
	ProductID      int64        `json:"product_id"`
	Name           string       `json:"name"`
	Category       string       `json:"category"`
	CurrentPrice   float64      `json:"current_price"`
	CostPrice      float64      `json:"cost_price"`
	CurrentMargin  float64      `json:"current_margin"`
	PricePoints    []PricePoint `json:"price_points"`
	OptimalPrice   float64      `json:"optimal_price"`
	Recommendation string       `json:"recommendation"`
}

type ReorderingResult struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Currency    string              `json:"currency"`
	Products    []ReorderingProduct `json:"products"`
	Stats       []Stat              `json:"stats"`
}

type ReorderingProduct struct {
	ProductID           int64   `json:"product_id"`
	Name                string  `json:"name"`
	CurrentQuantity     int     `json:"current_quantity"`
	DailySales          int     `json:"daily_sales"`
	LeadTimeDays        int     `json:"lead_time_days"`
	EOQ                 int     `json:"eoq"`
	ReorderPoint        int     `json:"reorder_point"`
	CurrentReorderLevel int     `json:"current_reorder_level"`
	DaysUntilReorder    int     `json:"days_until_reorder"`
	OrderCycleDays      int     `json:"order_cycle_days"`
	TotalAnnualCost     float64 `json:"total_annual_cost"`
	Recommendation      string  `json:"recommendation"`
}

type ExpiryResult struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Products    []ExpiryProduct `json:"products"`
	Stats       []Stat          `json:"stats"`
}

// Batch is a synthetic sub-division of a product's quantity used only within
// one expiry scenario run; batches are never persisted.
type Batch struct {
	BatchID         string `json:"batch_id"`
	Quantity        int    `json:"quantity"`
	ExpiryDate      string `json:"expiry_date"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
	Status          string `json:"status"`
}

type ExpiryProduct struct {
	ProductID      int64   `json:"product_id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	TotalQuantity  int     `json:"total_quantity"`
	Batches        []Batch `json:"batches"`
	TotalValue     float64 `json:"total_value"`
	ValueAtRisk    float64 `json:"value_at_risk"`
	Recommendation string  `json:"recommendation"`
}

type SalesResult struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Currency    string         `json:"currency"`
	Products    []SalesProduct `json:"products"`
	Stats       []Stat         `json:"stats"`
}

type WeeklySale struct {
	Week     int     `json:"week"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
	Profit   float64 `json:"profit"`
}

type SalesProduct struct {
	ProductID      int64        `json:"product_id"`
	Name           string       `json:"name"`
	Category       string       `json:"category"`
	WeeklySales    []WeeklySale `json:"weekly_sales"`
	TotalRevenue   float64      `json:"total_revenue"`
	TotalProfit    float64      `json:"total_profit"`
	TotalQuantity  int          `json:"total_quantity"`
	TrendPercent   float64      `json:"trend_percent"`
	TrendStatus    string       `json:"trend_status"`
	Recommendation string       `json:"recommendation"`
}

// Trend buckets used by the sales scenario.
const (
	TrendStrongGrowth   = "Strong Growth"
	TrendModerateGrowth = "Moderate Growth"
	TrendStable         = "Stable"
	TrendDeclining      = "Declining"
)

type RestructureResult struct {
	Title               string                         `json:"title"`
	Description         string                         `json:"description"`
	Categories          map[string]*CategoryAllocation `json:"categories"`
	TotalInventoryValue float64                        `json:"total_inventory_value"`
	Stats               []Stat                         `json:"stats"`
}

type CategoryAllocation struct {
	Products             []AllocationProduct `json:"products"`
	TotalValue           float64             `json:"total_value"`
	AvgTurnover          float64             `json:"avg_turnover"`
	CapitalAllocation    float64             `json:"capital_allocation"`
	OptimalAllocation    float64             `json:"optimal_allocation"`
	AllocationDifference float64             `json:"allocation_difference"`
	Recommendation       string              `json:"recommendation"`
}

type AllocationProduct struct {
	ProductID      int64   `json:"product_id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	CostPrice      float64 `json:"cost_price"`
	InventoryValue float64 `json:"inventory_value"`
	Turnover       float64 `json:"turnover"`
}

// Mutation is one committed per-product state change.
type Mutation struct {
	ProductID     int64   `json:"product_id"`
	Name          string  `json:"name"`
	QuantityDelta int     `json:"quantity_delta,omitempty"`
	NewPrice      float64 `json:"new_price,omitempty"`
	Reason        string  `json:"reason"`
}

// MutationFailure records a per-product mutation that could not be applied.
type MutationFailure struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Error     string `json:"error"`
}

// ApplyReport describes the outcome of walking a scenario's recommendations.
// Cross-product consistency is not guaranteed: an interrupted run leaves the
// remaining products unmutated and the report reflects only what committed.
type ApplyReport struct {
	Scenario string            `json:"scenario"`
	Applied  []Mutation        `json:"applied"`
	Failed   []MutationFailure `json:"failed"`
}
