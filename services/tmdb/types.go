package tmdb

import "cinebox/models"

// RawItem is one entry of a TMDB paged result list.
type RawItem struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type,omitempty"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
}

type pagedResults struct {
	Results []RawItem `json:"results"`
}

type rawDetail struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Name   string `json:"name"`
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Runtime          int     `json:"runtime"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	PosterPath       string  `json:"poster_path"`
	VoteAverage      float64 `json:"vote_average"`
	Popularity       float64 `json:"popularity"`
	Overview         string  `json:"overview"`
}

type videoList struct {
	Results []models.Video `json:"results"`
}
