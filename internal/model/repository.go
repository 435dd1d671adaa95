package model

import (
	"strings"

	"github.com/google/go-github/v75/github"
)

// RepositoryRef is one search hit. Source keeps the upstream object as received.
type RepositoryRef struct {
	FullName string             `json:"full_name"`
	Owner    string             `json:"owner"`
	Name     string             `json:"name"`
	Stars    int                `json:"stars"`
	Language string             `json:"language"`
	HTMLURL  string             `json:"html_url"`
	Source   *github.Repository `json:"-"`
}

func NewRepositoryRef(repo *github.Repository) RepositoryRef {
	owner := repo.GetOwner().GetLogin()
	name := repo.GetName()

	// Search API luôn trả full_name, owner/name có thể thiếu ở server giả lập
	if owner == "" || name == "" {
		owner, name = SplitFullName(repo.GetFullName())
	}

	return RepositoryRef{
		FullName: repo.GetFullName(),
		Owner:    owner,
		Name:     name,
		Stars:    repo.GetStargazersCount(),
		Language: repo.GetLanguage(),
		HTMLURL:  repo.GetHTMLURL(),
		Source:   repo,
	}
}

// SplitFullName tách "owner/name". Trả về chuỗi rỗng nếu không đúng định dạng.
func SplitFullName(fullName string) (string, string) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", ""
	}
	return owner, name
}

const (
	EntryTypeFile = "file"
	EntryTypeDir  = "dir"
)

// DirEntry is one item of a contents listing. URL is where the file's
// content object can be fetched.
type DirEntry struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

func (e DirEntry) IsFile() bool { return e.Type == EntryTypeFile }

func (e DirEntry) IsDir() bool { return e.Type == EntryTypeDir }
