package model

// FileRecord is one collected source file.
type FileRecord struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Content string `json:"content"`
}
