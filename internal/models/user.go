package models

// User represents a registered user. Friends holds ids of users this
// user follows; the relation is directed, adding A->B does not add B->A.
type User struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Birthday string  `json:"birthday"`
	Friends  []int64 `json:"friends"`
}
