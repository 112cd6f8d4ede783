package snapshot

// Clone returns a deep copy that shares no mutable state with s.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Tax = s.Tax.clone()
	out.Revenue = s.Revenue.clone()
	out.Leases = s.Leases.clone()
	return &out
}

func (t TaxDashboard) clone() TaxDashboard {
	out := t
	out.RiskByCategory = cloneSlice(t.RiskByCategory)
	out.Timeline = t.Timeline.clone()
	out.Materiality = cloneSlice(t.Materiality)
	out.RecentFlags = cloneSlice(t.RecentFlags)
	out.SupplierRisk = cloneSlice(t.SupplierRisk)
	out.SectorRisk = cloneSlice(t.SectorRisk)
	out.Mitigation = cloneSlice(t.Mitigation)
	out.ExposureProbability = cloneSlice(t.ExposureProbability)
	out.Forecast = cloneSlice(t.Forecast)
	out.TopSuppliers = cloneSlice(t.TopSuppliers)
	out.VatAnalysis = cloneSlice(t.VatAnalysis)
	out.RiskReduction = cloneSlice(t.RiskReduction)
	out.MonthlyTrend = t.MonthlyTrend.clone()
	return out
}

func (r RevenueDashboard) clone() RevenueDashboard {
	out := r
	out.RevenueByType = cloneSlice(r.RevenueByType)
	out.Timeline = r.Timeline.clone()
	out.PendingContracts = cloneSlice(r.PendingContracts)
	return out
}

func (l LeaseDashboard) clone() LeaseDashboard {
	out := l
	out.ByType = cloneSlice(l.ByType)
	out.LiabilityTimeline = l.LiabilityTimeline.clone()
	out.Expiring = cloneSlice(l.Expiring)
	out.Compliance = cloneSlice(l.Compliance)
	out.ByLocation = cloneSlice(l.ByLocation)
	return out
}

// cloneSlice copies a slice of plain value structs.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
