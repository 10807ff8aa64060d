package dtos

type ApplicationRequest struct {
	ResumeURL   string `json:"resume_url"`
	CoverLetter string `json:"cover_letter"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}
