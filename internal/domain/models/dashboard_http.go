package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type SetMarketRequest struct {
	Market string `json:"market" validate:"required,oneof=crypto stock"`
}

type SetTimeRangeRequest struct {
	TimeRange string `json:"time_range" validate:"required,oneof=1D 1W 1M 1Y"`
}

type ListAnomaliesRequest struct {
	Market string `query:"market" json:"market" validate:"required,oneof=crypto stock"`
	Type   string `query:"type" json:"type" default:"all" validate:"oneof=all surge plunge volume volatility"`
}

type AnomalyHistoryRequest struct {
	Market string `query:"market" json:"market" validate:"required,oneof=crypto stock"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"200" validate:"gte=1,lte=2000"`
}

type AddRuleRequest struct {
	Type      string  `json:"type" validate:"required,oneof=surge plunge volume volatility"`
	Threshold float64 `json:"threshold" validate:"required,gt=0"`
}

type AddNotificationRequest struct {
	Message string `json:"message" validate:"required,min=1,max=500"`
	Kind    string `json:"kind" default:"info" validate:"oneof=info warning success"`
}

type ResetFeedRequest struct {
	Sentiment string `json:"sentiment" validate:"omitempty,oneof=positive negative neutral"`
	Category  string `json:"category" validate:"omitempty,max=64"`
	From      string `json:"from"`
	To        string `json:"to"`
}
