package tvdb

// Episode is the subset of TVDb episode data used to build output
// filenames.
type Episode struct {
	ID            int64
	SeasonNumber  int
	EpisodeNumber int
	Title         string
}

// Series identifies a television series returned from a search.
type Series struct {
	ID   int64
	Name string
	Year string
}

type loginRequest struct {
	APIKey string `json:"apikey"`
}

type loginResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

type searchResponse struct {
	Data []struct {
		TvdbID string `json:"tvdb_id"`
		Name   string `json:"name"`
		Year   string `json:"year"`
		Type   string `json:"type"`
	} `json:"data"`
}

type episodesResponse struct {
	Data struct {
		Episodes []struct {
			ID           int64  `json:"id"`
			SeasonNumber int    `json:"seasonNumber"`
			Number       int    `json:"number"`
			Name         string `json:"name"`
		} `json:"episodes"`
	} `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}
