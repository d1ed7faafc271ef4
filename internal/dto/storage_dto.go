package dto

type UploadImageResponse struct {
	Path string `json:"path"`
}
