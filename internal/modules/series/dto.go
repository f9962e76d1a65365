package series

type CreateUpdateRequest struct {
	Name     string   `json:"name" binding:"required,max=100"`
	Unit     string   `json:"unit" binding:"required,max=20"`
	MinValue *float64 `json:"min_value"`
	MaxValue *float64 `json:"max_value"`
	ColorHex *string  `json:"color_hex" binding:"omitempty,len=7"`
}

type UpdateColorRequest struct {
	ColorHex string `json:"color_hex" binding:"required,len=7"`
}
