package user

// UpdateUserRequest carries a partial profile update. Empty fields keep
// their stored values. An avatar file, when present, arrives as
// multipart alongside this payload.
type UpdateUserRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	ImageURL string `json:"image_url" form:"image_url" validate:"omitempty,url"`
}
