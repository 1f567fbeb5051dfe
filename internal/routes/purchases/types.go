package purchases

type PurchaseResult struct {
	Success   bool   `json:"success"`
	Plan      string `json:"plan,omitempty"`
	IsPremium bool   `json:"isPremium"`
}
