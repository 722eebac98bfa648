package request_models

type GenerateImageRequest struct {
	Style string `json:"style" binding:"max=100"`
}

type GenerateVideoRequest struct {
	Style    string `json:"style" binding:"max=100"`
	Duration int    `json:"duration" binding:"omitempty,min=1,max=30"`
}

type InterpretationRequest struct {
	Question string `json:"question" binding:"max=500"`
}
