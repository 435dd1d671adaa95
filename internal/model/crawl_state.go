package model

import (
	"encoding/json"
	"fmt"
)

// CrawlState is the single persisted checkpoint: which repositories are done
// and every file collected from them. It is only mutated through MarkProcessed,
// so a repository name never appears without its files.
type CrawlState struct {
	processedRepos []string
	allFiles       []FileRecord
	index          map[string]struct{}
}

type crawlStateJSON struct {
	ProcessedRepos []string     `json:"processed_repos"`
	AllJavaFiles   []FileRecord `json:"all_java_files"`
}

func NewCrawlState() *CrawlState {
	return &CrawlState{
		processedRepos: []string{},
		allFiles:       []FileRecord{},
		index:          make(map[string]struct{}),
	}
}

// RestoreCrawlState rebuilds a state from persisted parts. Duplicate names are
// rejected because they mean the stored record is corrupt.
func RestoreCrawlState(processed []string, files []FileRecord) (*CrawlState, error) {
	s := NewCrawlState()
	for _, name := range processed {
		if _, ok := s.index[name]; ok {
			return nil, fmt.Errorf("duplicate processed repository %q", name)
		}
		s.index[name] = struct{}{}
		s.processedRepos = append(s.processedRepos, name)
	}
	s.allFiles = append(s.allFiles, files...)
	return s, nil
}

func (s *CrawlState) IsProcessed(fullName string) bool {
	_, ok := s.index[fullName]
	return ok
}

// MarkProcessed appends the repository's files and records it as processed in
// one step. Returns false, leaving the state untouched, if it was already done.
func (s *CrawlState) MarkProcessed(fullName string, files []FileRecord) bool {
	if s.IsProcessed(fullName) {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	s.allFiles = append(s.allFiles, files...)
	s.processedRepos = append(s.processedRepos, fullName)
	s.index[fullName] = struct{}{}
	return true
}

// ProcessedRepos returns a copy in processing order.
func (s *CrawlState) ProcessedRepos() []string {
	return append([]string{}, s.processedRepos...)
}

// Files returns a copy of all collected files in collection order.
func (s *CrawlState) Files() []FileRecord {
	return append([]FileRecord{}, s.allFiles...)
}

func (s *CrawlState) FileCount() int { return len(s.allFiles) }

func (s *CrawlState) RepoCount() int { return len(s.processedRepos) }

// ContentBytes is the total size of collected content.
func (s *CrawlState) ContentBytes() uint64 {
	var total uint64
	for _, f := range s.allFiles {
		total += uint64(len(f.Content))
	}
	return total
}

// MarshalJSON writes the persisted layout. HTML escaping is decided by the
// caller's encoder.
func (s *CrawlState) MarshalJSON() ([]byte, error) {
	return json.Marshal(crawlStateJSON{
		ProcessedRepos: s.ProcessedRepos(),
		AllJavaFiles:   s.Files(),
	})
}

func (s *CrawlState) UnmarshalJSON(data []byte) error {
	var raw crawlStateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	restored, err := RestoreCrawlState(raw.ProcessedRepos, raw.AllJavaFiles)
	if err != nil {
		return err
	}
	*s = *restored
	return nil
}
