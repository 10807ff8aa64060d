package dtos

type JobCreationRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`

	// Optional Fields
	Email    string   `json:"email"`
	Salary   *float64 `json:"salary"`
	IsActive *bool    `json:"is_active"` // Defaults to true if omitted
}

type JobListQuery struct {
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
	Title   string `form:"title"`
	Company string `form:"company"`
}

type JobActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}
