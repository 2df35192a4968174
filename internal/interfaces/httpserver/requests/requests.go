package requests

// PresignRequest asks for a direct-to-storage upload URL.
type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType"`
	Type        string `json:"type" binding:"required"`
}

// FinalizeRequest records a completed upload.
type FinalizeRequest struct {
	Key   string `json:"key" binding:"required"`
	Owner string `json:"owner"`
	Type  string `json:"type" binding:"required"`
}

// LoginRequest authenticates an admin or a guest.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// GuestPasswordRequest adds a guest password.
type GuestPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ContentRequest sets one site content entry.
type ContentRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// VideoRequest adds a volunteer story.
type VideoRequest struct {
	Title string `json:"title" binding:"required"`
	URL   string `json:"url" binding:"required"`
}

// PageQuery selects a slice of a gallery listing. Zero values return everything.
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1,max=1000000"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=500"`
}
