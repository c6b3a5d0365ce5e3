package dto

type ExpandedScheduledTransaction struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	PayeeName    string  `json:"payee_name,omitempty"`
	CategoryName string  `json:"category_name,omitempty"`
	CategoryID   string  `json:"category_id,omitempty"`
	Memo         string  `json:"memo,omitempty"`
	FlagColor    string  `json:"flag_color,omitempty"`
	FlagName     string  `json:"flag_name,omitempty"`
	Frequency    string  `json:"frequency"`
	IsRecurring  bool    `json:"isRecurring"`
}

type FutureCategoryBreakdown struct {
	CategoryID   string                         `json:"categoryId"`
	CategoryName string                         `json:"categoryName"`
	Amount       float64                        `json:"amount"`
	Color        string                         `json:"color"`
	Transactions []ExpandedScheduledTransaction `json:"transactions"`
}

type FuturePaymentMonth struct {
	Month      string                    `json:"month"`
	Label      string                    `json:"label"`
	Total      float64                   `json:"total"`
	Categories []FutureCategoryBreakdown `json:"categories"`
}

type FutureStats struct {
	Total         float64 `json:"total"`
	MonthlyAvg    float64 `json:"monthlyAverage"`
	Recurring     int     `json:"recurring"`
	OneTime       int     `json:"oneTime"`
	MaxMonth      string  `json:"maxMonth"`
	MaxMonthTotal float64 `json:"maxMonthTotal"`
}

type FutureView struct {
	MonthsAhead  int                            `json:"monthsAhead"`
	Months       []FuturePaymentMonth           `json:"months"`
	Stats        FutureStats                    `json:"stats"`
	Next30Days   []ExpandedScheduledTransaction `json:"next30Days"`
	Next30Total  float64                        `json:"next30Total"`
	PendingCount int                            `json:"pendingCount"`
}
