package domain

// Pagination is the block attached to every paginated backend response.
type Pagination struct {
	Total       int  `json:"total"`
	Limit       int  `json:"limit"`
	Page        int  `json:"page"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// Page pairs one page of records with its pagination block.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// PageByNumber describes a 1-based page of size limit over total records.
func PageByNumber(total, limit, page int) Pagination {
	if limit <= 0 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	totalPages := ceilDiv(total, limit)
	return Pagination{
		Total:       total,
		Limit:       limit,
		Page:        page,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// PageByOffset describes the window [offset, offset+limit) over total records.
func PageByOffset(total, limit, offset int) Pagination {
	if limit <= 0 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}
	return Pagination{
		Total:       total,
		Limit:       limit,
		Page:        offset/limit + 1,
		TotalPages:  ceilDiv(total, limit),
		HasNext:     offset+limit < total,
		HasPrevious: offset > 0,
	}
}

// Window returns the slice bounds for offset/limit clamped to total.
func Window(total, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := offset + limit
	if limit < 0 || end > total {
		end = total
	}
	return offset, end
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
