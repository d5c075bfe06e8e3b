package store

// FeedPageSize is the fixed number of posts returned per feed page.
const FeedPageSize = 10

// PaginationParams contains pagination request parameters.
type PaginationParams struct {
	Limit  int    // Number of items per page
	Cursor string // ID of the last item of the previous page (empty for first page)
}

// PaginatedResult contains paginated data and metadata.
type PaginatedResult[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"` // Empty if no more pages
	HasMore    bool   `json:"hasMore"`
}

// FeedParams returns feed pagination parameters resuming after cursor.
func FeedParams(cursor string) PaginationParams {
	return PaginationParams{
		Limit:  FeedPageSize,
		Cursor: cursor,
	}
}

// Validate checks and corrects pagination parameters.
func (p *PaginationParams) Validate() {
	if p.Limit <= 0 {
		p.Limit = FeedPageSize
	}

	if p.Limit > 100 {
		p.Limit = 100
	}
}
