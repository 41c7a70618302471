package dto

// UpdateProfileRequest carries the mutable profile fields. Empty
// fields keep their current values; email is not updatable here.
type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty"`
	Photo string `json:"photo,omitempty" binding:"omitempty,url"`
	Phone string `json:"phone,omitempty"`
	Bio   string `json:"bio,omitempty" binding:"omitempty,max=250"`
}
