package models

// Director represents a film director.
type Director struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
