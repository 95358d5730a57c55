package tmdb

import "github.com/amaumene/moviemate/internal/models"

// Media is a movie, show or person as it appears in TMDB result lists
type Media struct {
	ID           int              `json:"id"`
	MediaType    models.MediaType `json:"media_type,omitempty"`
	Title        string           `json:"title,omitempty"` // movies
	Name         string           `json:"name,omitempty"`  // shows and people
	Overview     string           `json:"overview,omitempty"`
	PosterPath   string           `json:"poster_path,omitempty"`
	BackdropPath string           `json:"backdrop_path,omitempty"`
	ProfilePath  string           `json:"profile_path,omitempty"`
	ReleaseDate  string           `json:"release_date,omitempty"`
	FirstAirDate string           `json:"first_air_date,omitempty"`
	VoteAverage  float64          `json:"vote_average,omitempty"`
	Popularity   float64          `json:"popularity,omitempty"`
	GenreIDs     []int            `json:"genre_ids,omitempty"`

	// combined credits only
	Character string `json:"character,omitempty"`
	Job       string `json:"job,omitempty"`
}

// DisplayTitle returns the title of a movie or the name of a show
func (m Media) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// Page is one page of a TMDB list endpoint
type Page struct {
	Page         int     `json:"page"`
	Results      []Media `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Genre is a TMDB genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SeasonSummary is a season as listed in show details
type SeasonSummary struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	AirDate      string `json:"air_date,omitempty"`
	PosterPath   string `json:"poster_path,omitempty"`
}

// Details holds movie or show details
type Details struct {
	ID               int             `json:"id"`
	Title            string          `json:"title,omitempty"`
	Name             string          `json:"name,omitempty"`
	Tagline          string          `json:"tagline,omitempty"`
	Overview         string          `json:"overview,omitempty"`
	Status           string          `json:"status,omitempty"`
	PosterPath       string          `json:"poster_path,omitempty"`
	BackdropPath     string          `json:"backdrop_path,omitempty"`
	ReleaseDate      string          `json:"release_date,omitempty"`
	FirstAirDate     string          `json:"first_air_date,omitempty"`
	Runtime          int             `json:"runtime,omitempty"`
	EpisodeRunTime   []int           `json:"episode_run_time,omitempty"`
	NumberOfSeasons  int             `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int             `json:"number_of_episodes,omitempty"`
	VoteAverage      float64         `json:"vote_average,omitempty"`
	Genres           []Genre         `json:"genres,omitempty"`
	Seasons          []SeasonSummary `json:"seasons,omitempty"`
}

// DisplayTitle returns the title of a movie or the name of a show
func (d Details) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// Credit is a cast or crew member of a title
type Credit struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character,omitempty"`
	Job         string `json:"job,omitempty"`
	Department  string `json:"department,omitempty"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// Credits is the credits answer of a title
type Credits struct {
	ID   int      `json:"id"`
	Cast []Credit `json:"cast"`
	Crew []Credit `json:"crew"`
}

// Episode is a single episode of a season
type Episode struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	AirDate       string `json:"air_date,omitempty"`
	Runtime       int    `json:"runtime,omitempty"`
}

// Season is a season with its episodes
type Season struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	SeasonNumber int       `json:"season_number"`
	AirDate      string    `json:"air_date,omitempty"`
	Episodes     []Episode `json:"episodes"`
}

// FullInfo is everything the details screen shows for a title
type FullInfo struct {
	Details
	MediaType       models.MediaType `json:"media_type"`
	Seasons         []Season         `json:"season_details,omitempty"`
	Cast            []Credit         `json:"cast"`
	Crew            []Credit         `json:"crew"`
	Recommendations []Media          `json:"recommendations"`
}

// Person holds person details
type Person struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	Biography          string `json:"biography,omitempty"`
	Birthday           string `json:"birthday,omitempty"`
	Deathday           string `json:"deathday,omitempty"`
	PlaceOfBirth       string `json:"place_of_birth,omitempty"`
	ProfilePath        string `json:"profile_path,omitempty"`
	KnownForDepartment string `json:"known_for_department,omitempty"`
}

// CreditList groups the cast and crew credits of a person for one media type
type CreditList struct {
	Cast []Media `json:"cast"`
	Crew []Media `json:"crew"`
}

// PersonCredits is a person's filmography split by media type
type PersonCredits struct {
	Movie CreditList `json:"movie_credits"`
	TV    CreditList `json:"tv_credits"`
}
