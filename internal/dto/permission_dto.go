package dto

type UpdatePermissionRequest struct {
	Role      string `json:"role"       validate:"required,oneof=admin manager cashier viewer"`
	PagePath  string `json:"page_path"  validate:"required,startswith=/"`
	CanAccess *bool  `json:"can_access" validate:"required"`
}

type PermissionResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	PagePath  string `json:"page_path"`
	CanAccess bool   `json:"can_access"`
}
