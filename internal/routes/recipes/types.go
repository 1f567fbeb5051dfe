package recipes

type SearchQuery struct {
	Query string `json:"q"`
}
