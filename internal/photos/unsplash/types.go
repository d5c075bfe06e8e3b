package unsplash

// PhotoResult is a single photo offered to the post editor.
type PhotoResult struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	ThumbURL       string `json:"thumbUrl"`
	RegularURL     string `json:"regularUrl"`
	FullURL        string `json:"fullUrl"`
	AuthorName     string `json:"authorName"`
	AuthorUsername string `json:"authorUsername"`
}

// Wire types for the Unsplash search API.

type searchResponse struct {
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
	Results    []rawPhoto `json:"results"`
}

type rawPhoto struct {
	ID             string    `json:"id"`
	Description    string    `json:"description"`
	AltDescription string    `json:"alt_description"`
	URLs           photoURLs `json:"urls"`
	User           photoUser `json:"user"`
}

type photoURLs struct {
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Thumb   string `json:"thumb"`
}

type photoUser struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

func (p rawPhoto) toResult() PhotoResult {
	description := p.Description
	if description == "" {
		description = p.AltDescription
	}
	return PhotoResult{
		ID:             p.ID,
		Description:    description,
		ThumbURL:       p.URLs.Thumb,
		RegularURL:     p.URLs.Regular,
		FullURL:        p.URLs.Full,
		AuthorName:     p.User.Name,
		AuthorUsername: p.User.Username,
	}
}
