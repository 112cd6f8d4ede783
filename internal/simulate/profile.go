package simulate

import (
	"fmt"
	"sort"

	"github.com/iwvelando/finpulse/internal/snapshot"
	"github.com/iwvelando/finpulse/pkg/constants"
	"go.uber.org/multierr"
)

// TaxVariation holds the per-field variation fractions of the tax dashboard.
type TaxVariation struct {
	TotalFlags            float64 `mapstructure:"totalFlags" yaml:"totalFlags"`
	CriticalIssues        float64 `mapstructure:"criticalIssues" yaml:"criticalIssues"`
	RiskTiers             float64 `mapstructure:"riskTiers" yaml:"riskTiers"`
	Exposure              float64 `mapstructure:"exposure" yaml:"exposure"`
	FlaggedTransactions   float64 `mapstructure:"flaggedTransactions" yaml:"flaggedTransactions"`
	Categories            float64 `mapstructure:"categories" yaml:"categories"`
	TimelineFlags         float64 `mapstructure:"timelineFlags" yaml:"timelineFlags"`
	TimelineExposure      float64 `mapstructure:"timelineExposure" yaml:"timelineExposure"`
	MaterialityAxes       float64 `mapstructure:"materialityAxes" yaml:"materialityAxes"`
	MaterialityWeight     float64 `mapstructure:"materialityWeight" yaml:"materialityWeight"`
	SupplierDistribution  float64 `mapstructure:"supplierDistribution" yaml:"supplierDistribution"`
	Sectors               float64 `mapstructure:"sectors" yaml:"sectors"`
	Mitigation            float64 `mapstructure:"mitigation" yaml:"mitigation"`
	Probability           float64 `mapstructure:"probability" yaml:"probability"`
	ProbabilityMitigation float64 `mapstructure:"probabilityMitigation" yaml:"probabilityMitigation"`
	Predicted             float64 `mapstructure:"predicted" yaml:"predicted"`
	Bounds                float64 `mapstructure:"bounds" yaml:"bounds"`
	VAT                   float64 `mapstructure:"vat" yaml:"vat"`
	ReductionCurrent      float64 `mapstructure:"reductionCurrent" yaml:"reductionCurrent"`
	ReductionPotential    float64 `mapstructure:"reductionPotential" yaml:"reductionPotential"`
	Savings               float64 `mapstructure:"savings" yaml:"savings"`
	SupplierRisk          float64 `mapstructure:"supplierRisk" yaml:"supplierRisk"`
	SupplierVolume        float64 `mapstructure:"supplierVolume" yaml:"supplierVolume"`
	Trend                 float64 `mapstructure:"trend" yaml:"trend"`
}

// RevenueVariation holds the per-field variation fractions of the revenue
// dashboard.
type RevenueVariation struct {
	Total      float64 `mapstructure:"total" yaml:"total"`
	Recognized float64 `mapstructure:"recognized" yaml:"recognized"`
	Contracts  float64 `mapstructure:"contracts" yaml:"contracts"`
	Pending    float64 `mapstructure:"pending" yaml:"pending"`
	ByType     float64 `mapstructure:"byType" yaml:"byType"`
	Timeline   float64 `mapstructure:"timeline" yaml:"timeline"`
	Compliance float64 `mapstructure:"compliance" yaml:"compliance"`
}

// LeaseVariation holds the per-field variation fractions of the lease
// dashboard.
type LeaseVariation struct {
	Total          float64 `mapstructure:"total" yaml:"total"`
	Active         float64 `mapstructure:"active" yaml:"active"`
	Expiring       float64 `mapstructure:"expiring" yaml:"expiring"`
	Balances       float64 `mapstructure:"balances" yaml:"balances"`
	ByType         float64 `mapstructure:"byType" yaml:"byType"`
	Classification float64 `mapstructure:"classification" yaml:"classification"`
	Timeline       float64 `mapstructure:"timeline" yaml:"timeline"`
	Compliance     float64 `mapstructure:"compliance" yaml:"compliance"`
	Locations      float64 `mapstructure:"locations" yaml:"locations"`
}

// Profile configures one simulation cycle: which dashboards move and by how
// much.
type Profile struct {
	Live    []snapshot.Dashboard `mapstructure:"dashboards" yaml:"dashboards"`
	Tax     TaxVariation         `mapstructure:"tax" yaml:"tax"`
	Revenue RevenueVariation     `mapstructure:"revenue" yaml:"revenue"`
	Leases  LeaseVariation       `mapstructure:"leases" yaml:"leases"`
}

// DefaultProfile returns the variation used by the live dashboards. Tax
// fractions follow the figures the dashboards were designed around.
func DefaultProfile() Profile {
	return Profile{
		Live: append([]snapshot.Dashboard(nil), snapshot.Dashboards...),
		Tax: TaxVariation{
			TotalFlags:            0.05,
			CriticalIssues:        0.10,
			RiskTiers:             0.08,
			Exposure:              0.03,
			FlaggedTransactions:   0.05,
			Categories:            0.08,
			TimelineFlags:         0.10,
			TimelineExposure:      0.05,
			MaterialityAxes:       0.05,
			MaterialityWeight:     0.08,
			SupplierDistribution:  0.05,
			Sectors:               0.08,
			Mitigation:            0.05,
			Probability:           0.05,
			ProbabilityMitigation: 0.08,
			Predicted:             0.05,
			Bounds:                0.08,
			VAT:                   0.05,
			ReductionCurrent:      0.05,
			ReductionPotential:    0.08,
			Savings:               0.05,
			SupplierRisk:          0.05,
			SupplierVolume:        0.05,
			Trend:                 0.08,
		},
		Revenue: RevenueVariation{
			Total:      0.03,
			Recognized: 0.03,
			Contracts:  0.05,
			Pending:    0.10,
			ByType:     0.05,
			Timeline:   0.05,
			Compliance: 0.03,
		},
		Leases: LeaseVariation{
			Total:          0.02,
			Active:         0.03,
			Expiring:       0.10,
			Balances:       0.02,
			ByType:         0.05,
			Classification: 0.03,
			Timeline:       0.03,
			Compliance:     0.03,
			Locations:      0.05,
		},
	}
}

// IsLive reports whether the dashboard is simulated.
func (p Profile) IsLive(d snapshot.Dashboard) bool {
	for _, live := range p.Live {
		if live == d {
			return true
		}
	}
	return false
}

// Fractions lists every configured fraction keyed by its dotted name.
func (p Profile) Fractions() map[string]float64 {
	t, r, l := p.Tax, p.Revenue, p.Leases
	return map[string]float64{
		"tax.totalFlags":            t.TotalFlags,
		"tax.criticalIssues":        t.CriticalIssues,
		"tax.riskTiers":             t.RiskTiers,
		"tax.exposure":              t.Exposure,
		"tax.flaggedTransactions":   t.FlaggedTransactions,
		"tax.categories":            t.Categories,
		"tax.timelineFlags":         t.TimelineFlags,
		"tax.timelineExposure":      t.TimelineExposure,
		"tax.materialityAxes":       t.MaterialityAxes,
		"tax.materialityWeight":     t.MaterialityWeight,
		"tax.supplierDistribution":  t.SupplierDistribution,
		"tax.sectors":               t.Sectors,
		"tax.mitigation":            t.Mitigation,
		"tax.probability":           t.Probability,
		"tax.probabilityMitigation": t.ProbabilityMitigation,
		"tax.predicted":             t.Predicted,
		"tax.bounds":                t.Bounds,
		"tax.vat":                   t.VAT,
		"tax.reductionCurrent":      t.ReductionCurrent,
		"tax.reductionPotential":    t.ReductionPotential,
		"tax.savings":               t.Savings,
		"tax.supplierRisk":          t.SupplierRisk,
		"tax.supplierVolume":        t.SupplierVolume,
		"tax.trend":                 t.Trend,
		"revenue.total":             r.Total,
		"revenue.recognized":        r.Recognized,
		"revenue.contracts":         r.Contracts,
		"revenue.pending":           r.Pending,
		"revenue.byType":            r.ByType,
		"revenue.timeline":          r.Timeline,
		"revenue.compliance":        r.Compliance,
		"leases.total":              l.Total,
		"leases.active":             l.Active,
		"leases.expiring":           l.Expiring,
		"leases.balances":           l.Balances,
		"leases.byType":             l.ByType,
		"leases.classification":     l.Classification,
		"leases.timeline":           l.Timeline,
		"leases.compliance":         l.Compliance,
		"leases.locations":          l.Locations,
	}
}

// Validate rejects fractions outside [0, MaxVariationFraction] and unknown
// dashboards. Every problem is reported.
func (p Profile) Validate() error {
	var err error
	fractions := p.Fractions()
	names := make([]string, 0, len(fractions))
	for name := range fractions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f := fractions[name]
		if f < 0 || f > constants.MaxVariationFraction {
			err = multierr.Append(err, fmt.Errorf("variation %s=%v outside [0, %v]", name, f, constants.MaxVariationFraction))
		}
	}
	for _, d := range p.Live {
		if _, parseErr := snapshot.ParseDashboard(string(d)); parseErr != nil {
			err = multierr.Append(err, parseErr)
		}
	}
	return err
}
