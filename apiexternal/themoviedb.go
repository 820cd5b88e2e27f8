package apiexternal

import (
	"net/http"
	"strconv"
	"time"

	"github.com/RussellLuo/slidingwindow"
	"golang.org/x/time/rate"
)

type TheMovieDBMovie struct {
	Adult  bool `json:"adult"`
	Budget int  `json:"budget"`
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	ID               int     `json:"id"`
	ImdbID           string  `json:"imdb_id"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	Popularity       float32 `json:"popularity"`
	ReleaseDate      string  `json:"release_date"`
	Revenue          int     `json:"revenue"`
	Runtime          int     `json:"runtime"`
	Status           string  `json:"status"`
	Tagline          string  `json:"tagline"`
	Title            string  `json:"title"`
	VoteAverage      float32 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Backdrop         string  `json:"backdrop_path"`
	Poster           string  `json:"poster_path"`
}

type tmdbClient struct {
	ApiKey string
	Client *RLHTTPClient
}

var TmdbApi tmdbClient

//NewTmdbClient creates the shared client. Seconds and calls bound the
//request rate against the themoviedb api.
func NewTmdbClient(apikey string, seconds int, calls int) {
	if seconds == 0 {
		seconds = 1
	}
	if calls == 0 {
		calls = 1
	}
	limiter, _ := slidingwindow.NewLimiter(time.Duration(seconds)*time.Second, int64(calls), func() (slidingwindow.Window, slidingwindow.StopFunc) { return slidingwindow.NewLocalWindow() })
	rl := rate.NewLimiter(rate.Every(time.Duration(seconds)*time.Second), calls)
	TmdbApi = tmdbClient{
		ApiKey: apikey,
		Client: NewClient(rl, limiter),
	}
}

//GetMovie fetches movie details by themoviedb id.
func (t tmdbClient) GetMovie(id int) (TheMovieDBMovie, error) {
	url := "https://api.themoviedb.org/3/movie/" + strconv.Itoa(id) + "?api_key=" + t.ApiKey
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return TheMovieDBMovie{}, err
	}
	var result TheMovieDBMovie
	err = t.Client.DoJson(req, &result)
	if err != nil {
		return TheMovieDBMovie{}, err
	}
	return result, nil
}
