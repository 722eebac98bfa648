package request_models

type CreateDreamRequest struct {
	Title   string   `json:"title" binding:"max=200"`
	Content string   `json:"content" binding:"required,max=10000"`
	Mood    string   `json:"mood" binding:"max=50"`
	Tags    []string `json:"tags" binding:"max=20,dive,min=1,max=50"`
}

type UpdateDreamRequest struct {
	Title   *string   `json:"title" binding:"omitempty,max=200"`
	Content *string   `json:"content" binding:"omitempty,min=1,max=10000"`
	Mood    *string   `json:"mood" binding:"omitempty,max=50"`
	Tags    *[]string `json:"tags" binding:"omitempty,max=20"`
}

type GalleryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
