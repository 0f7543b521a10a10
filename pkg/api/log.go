package api

// LogAttrs methods feed the RPC logging interceptor. Report text, images and
// partner names stay out of the logs; only sizes and counts are recorded.

func (r *ParseReportRequest) LogAttrs() []any {
	return []any{"text_bytes", len(r.Text)}
}

func (r *ParseReportResponse) LogAttrs() []any {
	return []any{
		"partners", len(r.Partners),
		"confidence", r.Confidence,
		"suggest_manual_entry", r.SuggestManualEntry,
	}
}

func (r *ScanReportRequest) LogAttrs() []any {
	return []any{"image_bytes", len(r.Image)}
}

func (r *ScanReportResponse) LogAttrs() []any {
	attrs := r.ParseReportResponse.LogAttrs()
	if r.Engine != "" {
		attrs = append(attrs, "engine", r.Engine)
	}
	if r.Error != "" {
		attrs = append(attrs, "ocr_error", r.Error)
	}
	return attrs
}

func (r *ParseManualEntryResponse) LogAttrs() []any {
	return []any{"partners", len(r.Partners)}
}

func (r *CalculateDistributionRequest) LogAttrs() []any {
	return []any{"total_amount", r.TotalAmount, "partners", len(r.PartnerHours)}
}

func (r *SaveDistributionRequest) LogAttrs() []any {
	return []any{"total_amount", r.TotalAmount, "partners", len(r.PartnerHours)}
}

func (r *SaveDistributionResponse) LogAttrs() []any {
	if r.Distribution == nil {
		return nil
	}
	return []any{"distribution_id", r.Distribution.ID}
}

func (r *GetDistributionRequest) LogAttrs() []any {
	return []any{"distribution_id", r.ID}
}

func (r *ListDistributionsResponse) LogAttrs() []any {
	return []any{"distributions", len(r.Distributions)}
}

func (r *GetPartnerRequest) LogAttrs() []any {
	return []any{"partner_id", r.ID}
}

func (r *ListPartnersResponse) LogAttrs() []any {
	return []any{"partners", len(r.Partners)}
}
