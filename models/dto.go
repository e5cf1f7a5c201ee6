package models

// RegisterRequest is open to anyone, so it carries no role: new accounts are
// writers and elevated roles are granted outside the API.
type RegisterRequest struct {
	Username string `json:"username" binding:"required" validate:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateDocumentRequest struct {
	Title   string `json:"title" validate:"max=255"`
	Content string `json:"content"`
}

// EditDocumentRequest carries a new revision. BaseVersion, when non-zero, is
// the version the editor was looking at; a mismatch is reported as a conflict.
type EditDocumentRequest struct {
	Title             string `json:"title" validate:"max=255"`
	Content           string `json:"content"`
	ChangeDescription string `json:"change_description" validate:"max=1000"`
	BaseVersion       int    `json:"base_version" validate:"min=0"`
}

type RestoreDocumentRequest struct {
	ChangeDescription string `json:"change_description" validate:"max=1000"`
}

type UpdateStatusRequest struct {
	Status DocumentStatus `json:"status" binding:"required" validate:"required,oneof=draft review approved archived"`
}

type DocumentListParams struct {
	Status    string `form:"status"`
	Search    string `form:"search"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=10"`
	SortBy    string `form:"sort_by,default=updated_at"`
	SortOrder string `form:"sort_order,default=desc"`
}

// CompareParams takes any integers; versions that do not exist come back as
// not found from the service.
type CompareParams struct {
	From int `form:"from"`
	To   int `form:"to"`
}
