package models

// Mpa is a film's age-classification rating (G, PG-13, ...).
type Mpa struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Genre is a film genre from the seeded catalog.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Film represents a film with its genre, director and like associations.
type Film struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ReleaseDate string     `json:"releaseDate"`
	Duration    int        `json:"duration"`
	Mpa         *Mpa       `json:"mpa"`
	Genres      []Genre    `json:"genres"`
	Directors   []Director `json:"directors"`
	Likes       []int64    `json:"likes"`
}

// LikesCount returns the number of users who liked the film.
func (f *Film) LikesCount() int {
	return len(f.Likes)
}

// PopularParams holds query parameters for the popular films listing.
// GenreID and Year are optional; zero means no filter.
type PopularParams struct {
	Count   int
	GenreID int64
	Year    int
}

// SearchParams holds query parameters for film search.
type SearchParams struct {
	Query      string
	ByTitle    bool
	ByDirector bool
}

const (
	// SortByLikes and SortByYear are the accepted orderings for the
	// director filmography listing.
	SortByLikes = "likes"
	SortByYear  = "year"
)
