package data

type QueryResults[T interface{}] struct {
	Items []T `json:"items"`
}

func NewQueryResults[T interface{}](items []T) QueryResults[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return QueryResults[T]{
		Items: items,
	}
}
