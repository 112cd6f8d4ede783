package snapshot

// TaxSummary holds the headline counters of the tax risk dashboard.
type TaxSummary struct {
	TotalFlags          int64 `json:"totalFlags"`
	CriticalIssues      int64 `json:"criticalIssues"`
	HighRiskFlags       int64 `json:"highRiskFlags"`
	MediumRiskFlags     int64 `json:"mediumRiskFlags"`
	LowRiskFlags        int64 `json:"lowRiskFlags"`
	ExposureAmount      int64 `json:"exposureAmount"`
	FlaggedTransactions int64 `json:"flaggedTransactions"`
	TotalTransactions   int64 `json:"totalTransactions"`
}

// MaterialityPoint is one bubble on the materiality vs likelihood matrix.
type MaterialityPoint struct {
	Name        string        `json:"name"`
	Likelihood  BoundedMetric `json:"likelihood"`
	Materiality BoundedMetric `json:"materiality"`
	Weight      int64         `json:"weight"`
	Risk        RiskTier      `json:"risk"`
}

// RiskFlag is a catalogued compliance finding.
type RiskFlag struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Source      string   `json:"source"`
	Confidence  int64    `json:"confidence"`
	Date        string   `json:"date"`
	Risk        RiskTier `json:"risk"`
	Description string   `json:"description"`
	Impact      int64    `json:"impact"`
}

// MitigationScore compares the current effectiveness of a control area
// with its target. Current is bounded by [0, Target].
type MitigationScore struct {
	Name    string        `json:"name"`
	Current BoundedMetric `json:"current"`
	Target  int64         `json:"target"`
}

// ExposureProbability is one axis group of the exposure radar chart.
type ExposureProbability struct {
	Name        string        `json:"name"`
	Probability BoundedMetric `json:"probability"`
	Impact      int64         `json:"impact"`
	Mitigation  BoundedMetric `json:"mitigation"`
}

// Supplier is one of the top risk suppliers.
type Supplier struct {
	Name         string        `json:"name"`
	Risk         BoundedMetric `json:"risk"`
	Transactions int64         `json:"transactions"`
	Amount       int64         `json:"amount"`
}

// RiskReduction models achievable risk reduction. Potential never exceeds
// Current.
type RiskReduction struct {
	Category  string `json:"category"`
	Current   int64  `json:"current"`
	Potential int64  `json:"potential"`
	Savings   int64  `json:"savings"`
}

// TaxDashboard is the tax risk intelligence dashboard.
type TaxDashboard struct {
	Summary             TaxSummary            `json:"summary"`
	RiskByCategory      []CategoryItem        `json:"riskByCategory"`
	Timeline            TimeSeries            `json:"timeline"`
	Materiality         []MaterialityPoint    `json:"materiality"`
	RecentFlags         []RiskFlag            `json:"recentFlags"`
	SupplierRisk        []CategoryItem        `json:"supplierRisk"`
	SectorRisk          []CategoryItem        `json:"sectorRisk"`
	Mitigation          []MitigationScore     `json:"mitigation"`
	ExposureProbability []ExposureProbability `json:"exposureProbability"`
	Forecast            []PredictiveInterval  `json:"forecast"`
	TopSuppliers        []Supplier            `json:"topSuppliers"`
	VatAnalysis         []DerivedRatio        `json:"vatAnalysis"`
	RiskReduction       []RiskReduction       `json:"riskReduction"`
	MonthlyTrend        TimeSeries            `json:"monthlyTrend"`
}

// RevenueSummary holds the headline revenue recognition figures.
// DeferredRevenue is always TotalRevenue - RecognizedRevenue.
type RevenueSummary struct {
	TotalRevenue      int64 `json:"totalRevenue"`
	RecognizedRevenue int64 `json:"recognizedRevenue"`
	DeferredRevenue   int64 `json:"deferredRevenue"`
	ContractsCount    int64 `json:"contractsCount"`
	PendingReview     int64 `json:"pendingReview"`
}

// Contract is a contract awaiting review.
type Contract struct {
	ID         string `json:"id"`
	Customer   string `json:"customer"`
	Type       string `json:"type"`
	Amount     int64  `json:"amount"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Status     string `json:"status"`
	Complexity string `json:"complexity"`
}

// RevenueDashboard is the revenue recognition dashboard.
type RevenueDashboard struct {
	Summary          RevenueSummary `json:"summary"`
	RevenueByType    []CategoryItem `json:"revenueByType"`
	Timeline         TimeSeries     `json:"timeline"`
	PendingContracts []Contract     `json:"pendingContracts"`
	Compliance       DerivedRatio   `json:"compliance"`
	Obligations      DerivedRatio   `json:"obligations"`
}

// LeaseSummary holds the headline lease portfolio figures.
type LeaseSummary struct {
	TotalLeases    int64 `json:"totalLeases"`
	ActiveLeases   int64 `json:"activeLeases"`
	ExpiringLeases int64 `json:"expiringLeases"`
	TotalLiability int64 `json:"totalLiability"`
	TotalAssets    int64 `json:"totalAssets"`
}

// Lease is a lease approaching expiry.
type Lease struct {
	ID             string `json:"id"`
	Property       string `json:"property"`
	Type           string `json:"type"`
	Location       string `json:"location"`
	MonthlyPayment int64  `json:"monthlyPayment"`
	ExpiryDate     string `json:"expiryDate"`
	Status         string `json:"status"`
	Classification string `json:"classification"`
}

// ComplianceScore is a named percentage score.
type ComplianceScore struct {
	Name  string        `json:"name"`
	Score BoundedMetric `json:"score"`
}

// LeaseDashboard is the lease management dashboard. ByLocation values are
// percentage shares summing to RatioWhole.
type LeaseDashboard struct {
	Summary           LeaseSummary      `json:"summary"`
	ByType            []CategoryItem    `json:"byType"`
	Classification    DerivedRatio      `json:"classification"`
	LiabilityTimeline TimeSeries        `json:"liabilityTimeline"`
	Expiring          []Lease           `json:"expiring"`
	Compliance        []ComplianceScore `json:"compliance"`
	ByLocation        []CategoryItem    `json:"byLocation"`
}
