package model

// FileMessage là FileRecord gửi tới Kafka, kèm repository nguồn
type FileMessage struct {
	Repo    string `json:"repo"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

func NewFileMessages(repo string, files []FileRecord) []FileMessage {
	messages := make([]FileMessage, 0, len(files))
	for _, f := range files {
		messages = append(messages, FileMessage{
			Repo:    repo,
			Name:    f.Name,
			Path:    f.Path,
			Content: f.Content,
		})
	}
	return messages
}
