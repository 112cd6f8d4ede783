package snapshot

import "github.com/google/uuid"

// SeedID identifies the fixed seed model. It is stable across processes.
var SeedID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("finpulse.seed")).String()

// Seed returns a fresh copy of the fixed seed model. Every session starts
// from these values.
func Seed() *Snapshot {
	return &Snapshot{
		ID:       SeedID,
		Sequence: 0,
		Tax:      seedTax(),
		Revenue:  seedRevenue(),
		Leases:   seedLeases(),
	}
}

func point(period string, fields []string, values ...int64) Point {
	p := Point{Period: period, Values: make(map[string]int64, len(fields))}
	for i, f := range fields {
		p.Values[f] = values[i]
	}
	return p
}

// newSeries freezes every point but the last.
func newSeries(fields []string, points ...Point) TimeSeries {
	last := len(points) - 1
	return TimeSeries{
		Fields:  fields,
		History: points[:last],
		Current: points[last],
	}
}

// Time series field names.
const (
	FieldFlags      = "flags"
	FieldExposure   = "exposure"
	FieldVAT        = "vat"
	FieldTP         = "tp"
	FieldWHT        = "wht"
	FieldCIT        = "cit"
	FieldCustoms    = "customs"
	FieldRecognized = "recognized"
	FieldDeferred   = "deferred"
	FieldShortTerm  = "shortTerm"
	FieldLongTerm   = "longTerm"
)

func seedTax() TaxDashboard {
	timeline := []string{FieldFlags, FieldExposure}
	trend := []string{FieldVAT, FieldTP, FieldWHT, FieldCIT, FieldCustoms}

	return TaxDashboard{
		Summary: TaxSummary{
			TotalFlags:          42,
			CriticalIssues:      8,
			HighRiskFlags:       15,
			MediumRiskFlags:     19,
			LowRiskFlags:        8,
			ExposureAmount:      1250000,
			FlaggedTransactions: 87,
			TotalTransactions:   1243,
		},
		RiskByCategory: []CategoryItem{
			{Label: "VAT Deductions", Value: 35, Risk: RiskHigh},
			{Label: "Transfer Pricing", Value: 28, Risk: RiskHigh},
			{Label: "Withholding Tax", Value: 22, Risk: RiskMedium},
			{Label: "Corporate Income Tax", Value: 18, Risk: RiskMedium},
			{Label: "Customs & Duties", Value: 15, Risk: RiskLow},
			{Label: "Employee Benefits", Value: 12, Risk: RiskLow},
		},
		Timeline: newSeries(timeline,
			point("Jan", timeline, 12, 320000),
			point("Feb", timeline, 8, 280000),
			point("Mar", timeline, 17, 390000),
			point("Apr", timeline, 15, 340000),
			point("May", timeline, 21, 450000),
			point("Jun", timeline, 19, 420000),
		),
		Materiality: []MaterialityPoint{
			{Name: "VAT Deduction Issues", Likelihood: Percent(35), Materiality: Percent(80), Weight: 15, Risk: RiskHigh},
			{Name: "Transfer Pricing Gap", Likelihood: Percent(65), Materiality: Percent(85), Weight: 20, Risk: RiskHigh},
			{Name: "Withholding Compliance", Likelihood: Percent(50), Materiality: Percent(60), Weight: 12, Risk: RiskMedium},
			{Name: "Customs Classification", Likelihood: Percent(75), Materiality: Percent(40), Weight: 8, Risk: RiskMedium},
			{Name: "Employee Benefits", Likelihood: Percent(25), Materiality: Percent(30), Weight: 5, Risk: RiskLow},
			{Name: "Documentation Issues", Likelihood: Percent(85), Materiality: Percent(20), Weight: 3, Risk: RiskLow},
		},
		RecentFlags: []RiskFlag{
			{
				ID: "RF001", Title: "VAT Deduction on Holding Company Expenses", Source: "VAT Law Section 41",
				Confidence: 92, Date: "2023-06-15", Risk: RiskHigh, Impact: 185000,
				Description: "Holding company expenses are fully deducted although deductibility is limited to direct revenue generation.",
			},
			{
				ID: "RF002", Title: "Transfer Pricing Documentation Gap", Source: "Income Tax Regulations 2006",
				Confidence: 87, Date: "2023-06-10", Risk: RiskHigh, Impact: 230000,
				Description: "Intercompany transactions with a foreign subsidiary lack the required transfer pricing documentation.",
			},
			{
				ID: "RF003", Title: "Withholding Tax on Technical Services", Source: "Income Tax Ordinance Section 170",
				Confidence: 76, Date: "2023-06-05", Risk: RiskMedium, Impact: 120000,
				Description: "Payments to foreign consultants may be subject to a higher withholding rate than the one applied.",
			},
			{
				ID: "RF004", Title: "Employee Benefit Taxation", Source: "Income Tax Ruling 2022/08",
				Confidence: 68, Date: "2023-06-01", Risk: RiskMedium, Impact: 85000,
				Description: "Wellness program benefits may be classified as taxable benefits under recent guidance.",
			},
			{
				ID: "RF005", Title: "Customs Classification Discrepancy", Source: "Customs Tariff Code",
				Confidence: 62, Date: "2023-05-28", Risk: RiskLow, Impact: 45000,
				Description: "Imported equipment may fall under a tariff code with a higher duty rate.",
			},
		},
		SupplierRisk: []CategoryItem{
			{Label: "High-Risk Suppliers", Value: 12, Risk: RiskHigh},
			{Label: "Medium-Risk Suppliers", Value: 28, Risk: RiskMedium},
			{Label: "Low-Risk Suppliers", Value: 60, Risk: RiskLow},
		},
		SectorRisk: []CategoryItem{
			{Label: "Technology", Value: 35, Risk: RiskHigh},
			{Label: "Financial Services", Value: 28, Risk: RiskHigh},
			{Label: "Manufacturing", Value: 22, Risk: RiskMedium},
			{Label: "Retail", Value: 18, Risk: RiskMedium},
			{Label: "Healthcare", Value: 15, Risk: RiskLow},
			{Label: "Construction", Value: 12, Risk: RiskLow},
		},
		Mitigation: []MitigationScore{
			mitigation("Documentation", 65, 90),
			mitigation("Compliance Processes", 72, 95),
			mitigation("Staff Training", 58, 85),
			mitigation("System Controls", 80, 95),
			mitigation("Vendor Management", 45, 80),
		},
		ExposureProbability: []ExposureProbability{
			{Name: "VAT Deductions", Probability: Percent(75), Impact: 85, Mitigation: Percent(60)},
			{Name: "Transfer Pricing", Probability: Percent(65), Impact: 90, Mitigation: Percent(55)},
			{Name: "Withholding Tax", Probability: Percent(45), Impact: 70, Mitigation: Percent(65)},
			{Name: "Corporate Income Tax", Probability: Percent(35), Impact: 80, Mitigation: Percent(75)},
			{Name: "Customs & Duties", Probability: Percent(25), Impact: 60, Mitigation: Percent(80)},
		},
		Forecast: []PredictiveInterval{
			{Period: "Jul", Predicted: 22, LowerBound: 18, UpperBound: 26},
			{Period: "Aug", Predicted: 24, LowerBound: 19, UpperBound: 29},
			{Period: "Sep", Predicted: 27, LowerBound: 21, UpperBound: 33},
			{Period: "Oct", Predicted: 30, LowerBound: 23, UpperBound: 37},
			{Period: "Nov", Predicted: 34, LowerBound: 26, UpperBound: 42},
			{Period: "Dec", Predicted: 38, LowerBound: 29, UpperBound: 47},
		},
		TopSuppliers: []Supplier{
			{Name: "Tech Solutions Ltd", Risk: Percent(85), Transactions: 42, Amount: 320000},
			{Name: "Global Services Inc", Risk: Percent(78), Transactions: 36, Amount: 280000},
			{Name: "Innovative Systems", Risk: Percent(72), Transactions: 28, Amount: 210000},
			{Name: "Strategic Consulting", Risk: Percent(68), Transactions: 22, Amount: 190000},
			{Name: "Digital Platforms Co", Risk: Percent(65), Transactions: 18, Amount: 150000},
		},
		VatAnalysis: []DerivedRatio{
			NewRatio("IT Services", 75, RiskMedium),
			NewRatio("Consulting", 60, RiskHigh),
			NewRatio("Legal Services", 50, RiskHigh),
			NewRatio("Marketing", 80, RiskLow),
			NewRatio("Maintenance", 90, RiskLow),
			NewRatio("Professional Training", 70, RiskMedium),
		},
		RiskReduction: []RiskReduction{
			{Category: "VAT Deductions", Current: 85, Potential: 35, Savings: 120000},
			{Category: "Transfer Pricing", Current: 78, Potential: 30, Savings: 180000},
			{Category: "Withholding Tax", Current: 65, Potential: 25, Savings: 90000},
			{Category: "Corporate Income Tax", Current: 55, Potential: 20, Savings: 75000},
			{Category: "Customs & Duties", Current: 45, Potential: 15, Savings: 40000},
		},
		MonthlyTrend: newSeries(trend,
			point("Jan", trend, 35, 28, 22, 18, 15),
			point("Feb", trend, 32, 30, 20, 19, 14),
			point("Mar", trend, 38, 32, 24, 20, 16),
			point("Apr", trend, 36, 29, 25, 18, 17),
			point("May", trend, 40, 33, 26, 21, 18),
			point("Jun", trend, 42, 35, 24, 22, 16),
		),
	}
}

func mitigation(name string, current, target int64) MitigationScore {
	return MitigationScore{
		Name:    name,
		Current: BoundedMetric{Value: current, Min: 0, Max: target},
		Target:  target,
	}
}

func seedRevenue() RevenueDashboard {
	fields := []string{FieldRecognized, FieldDeferred}

	return RevenueDashboard{
		Summary: RevenueSummary{
			TotalRevenue:      4250000,
			RecognizedRevenue: 2850000,
			DeferredRevenue:   1400000,
			ContractsCount:    87,
			PendingReview:     12,
		},
		RevenueByType: []CategoryItem{
			{Label: "Subscription", Value: 1850000},
			{Label: "Professional Services", Value: 950000},
			{Label: "License", Value: 750000},
			{Label: "Support", Value: 700000},
		},
		Timeline: newSeries(fields,
			point("Jan", fields, 420000, 180000),
			point("Feb", fields, 450000, 220000),
			point("Mar", fields, 480000, 250000),
			point("Apr", fields, 500000, 230000),
			point("May", fields, 520000, 260000),
			point("Jun", fields, 480000, 260000),
		),
		PendingContracts: []Contract{
			{
				ID: "CON001", Customer: "Acme Corporation", Type: "Subscription", Amount: 185000,
				StartDate: "2023-06-15", EndDate: "2024-06-14", Status: "pending_review", Complexity: "high",
			},
			{
				ID: "CON002", Customer: "TechGlobal Inc", Type: "Professional Services", Amount: 120000,
				StartDate: "2023-06-10", EndDate: "2023-12-10", Status: "pending_review", Complexity: "medium",
			},
			{
				ID: "CON003", Customer: "Innovate Solutions", Type: "License + Support", Amount: 230000,
				StartDate: "2023-07-01", EndDate: "2024-06-30", Status: "pending_approval", Complexity: "high",
			},
		},
		Compliance:  NewRatio("ASC 606 Compliant", 85, ""),
		Obligations: NewRatio("Performance Obligations Identified", 92, ""),
	}
}

func seedLeases() LeaseDashboard {
	fields := []string{FieldShortTerm, FieldLongTerm}

	return LeaseDashboard{
		Summary: LeaseSummary{
			TotalLeases:    124,
			ActiveLeases:   98,
			ExpiringLeases: 12,
			TotalLiability: 8750000,
			TotalAssets:    9200000,
		},
		ByType: []CategoryItem{
			{Label: "Office Space", Value: 42},
			{Label: "Retail", Value: 28},
			{Label: "Equipment", Value: 35},
			{Label: "Vehicles", Value: 19},
		},
		Classification: NewRatio("Finance", 65, ""),
		LiabilityTimeline: newSeries(fields,
			point("Jan", fields, 120000, 720000),
			point("Feb", fields, 125000, 710000),
			point("Mar", fields, 130000, 700000),
			point("Apr", fields, 135000, 690000),
			point("May", fields, 140000, 680000),
			point("Jun", fields, 145000, 670000),
		),
		Expiring: []Lease{
			{
				ID: "LS001", Property: "Downtown Office Tower", Type: "Office Space", Location: "New York, NY",
				MonthlyPayment: 28500, ExpiryDate: "2023-08-15", Status: "expiring_soon", Classification: "finance",
			},
			{
				ID: "LS002", Property: "Retail Store #42", Type: "Retail", Location: "Chicago, IL",
				MonthlyPayment: 15200, ExpiryDate: "2023-09-01", Status: "expiring_soon", Classification: "operating",
			},
			{
				ID: "LS003", Property: "Server Equipment", Type: "Equipment", Location: "Data Center",
				MonthlyPayment: 8500, ExpiryDate: "2023-07-30", Status: "expiring_soon", Classification: "finance",
			},
		},
		Compliance: []ComplianceScore{
			{Name: "IFRS 16 Compliant", Score: Percent(92)},
			{Name: "ASC 842 Compliant", Score: Percent(95)},
			{Name: "Documentation Complete", Score: Percent(88)},
		},
		ByLocation: []CategoryItem{
			{Label: "North America", Value: 65},
			{Label: "Europe", Value: 20},
			{Label: "Asia Pacific", Value: 10},
			{Label: "Other", Value: 5},
		},
	}
}
