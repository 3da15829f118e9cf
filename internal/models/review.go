package models

// Review is a user's review of a film. Useful is the net
// like-minus-dislike count over the review's votes and is maintained
// by the review repository on every vote change.
type Review struct {
	ReviewID   int64  `json:"reviewId"`
	Content    string `json:"content"`
	IsPositive *bool  `json:"isPositive"`
	UserID     int64  `json:"userId"`
	FilmID     int64  `json:"filmId"`
	Useful     int    `json:"useful"`
}
