// Package githubtest serves the small part of the GitHub REST API the crawler
// uses, backed by in-memory repositories.
package githubtest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

type entry struct {
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	URL      string  `json:"url"`
	Encoding *string `json:"encoding,omitempty"`
	Content  *string `json:"content,omitempty"`
}

type repo struct {
	FullName        string `json:"full_name"`
	Name            string `json:"name"`
	Owner           owner  `json:"owner"`
	StargazersCount int    `json:"stargazers_count"`
	Language        string `json:"language"`
}

type owner struct {
	Login string `json:"login"`
}

// Server is an httptest server impersonating api.github.com.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	order     []string
	files     map[string]map[string]string
	encodings map[string]string
	failing   map[string]int
	failPage  int

	SearchCalls   atomic.Int32
	ContentsCalls atomic.Int32
	LastAuth      atomic.Value
}

func NewServer() *Server {
	s := &Server{
		files:     make(map[string]map[string]string),
		encodings: make(map[string]string),
		failing:   make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/repositories", s.handleSearch)
	mux.HandleFunc("GET /repos/{owner}/{repo}/contents/{path...}", s.handleContents)
	s.Server = httptest.NewServer(s.recordAuth(mux))
	return s
}

// BaseURL returns the server URL with a trailing slash, as go-github expects.
func (s *Server) BaseURL() string {
	return s.Server.URL + "/"
}

// AddRepo registers a repository; search returns repositories in the order added.
func (s *Server) AddRepo(fullName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[fullName]; !ok {
		s.files[fullName] = make(map[string]string)
		s.order = append(s.order, fullName)
	}
}

// AddRepos registers n repositories named owner/repo-0001... in order.
func (s *Server) AddRepos(owner string, n int) {
	for i := 1; i <= n; i++ {
		s.AddRepo(fmt.Sprintf("%s/repo-%04d", owner, i))
	}
}

// AddFile adds a file (creating the repository if needed).
func (s *Server) AddFile(fullName, path, content string) {
	s.AddRepo(fullName)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[fullName][path] = content
}

// SetEncoding overrides the encoding reported for one file; its content is sent raw.
func (s *Server) SetEncoding(fullName, path, encoding string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.encodings[fullName+":"+path] = encoding
}

// FailContents makes the contents endpoint for fullName at path answer with status.
func (s *Server) FailContents(fullName, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[fullName+":"+path] = status
}

// FailSearchPage makes the given search page answer 500.
func (s *Server) FailSearchPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPage = page
}

func (s *Server) recordAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.LastAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.SearchCalls.Add(1)

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage < 1 {
		perPage = 30
	}

	s.mu.Lock()
	order := append([]string(nil), s.order...)
	failPage := s.failPage
	s.mu.Unlock()

	if page == failPage {
		writeError(w, http.StatusInternalServerError, "search backend unavailable")
		return
	}

	start := (page - 1) * perPage
	end := min(start+perPage, len(order))
	items := make([]repo, 0, perPage)
	for i := start; i < end; i++ {
		ownerName, name, _ := strings.Cut(order[i], "/")
		items = append(items, repo{
			FullName:        order[i],
			Name:            name,
			Owner:           owner{Login: ownerName},
			StargazersCount: len(order) - i,
			Language:        "Java",
		})
	}

	if end < len(order) {
		next := *r.URL
		nq := next.Query()
		nq.Set("page", strconv.Itoa(page+1))
		next.RawQuery = nq.Encode()
		w.Header().Set("Link", fmt.Sprintf(`<%s%s>; rel="next"`, s.Server.URL, next.RequestURI()))
	}

	writeJSON(w, map[string]any{
		"total_count":        len(order),
		"incomplete_results": false,
		"items":              items,
	})
}

func (s *Server) handleContents(w http.ResponseWriter, r *http.Request) {
	s.ContentsCalls.Add(1)

	fullName := r.PathValue("owner") + "/" + r.PathValue("repo")
	path := strings.Trim(r.PathValue("path"), "/")

	s.mu.Lock()
	defer s.mu.Unlock()

	if status, ok := s.failing[fullName+":"+path]; ok {
		writeError(w, status, "injected failure")
		return
	}

	files, ok := s.files[fullName]
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	if content, ok := files[path]; ok {
		writeJSON(w, s.fileEntry(fullName, path, content))
		return
	}

	prefix := ""
	if path != "" {
		prefix = path + "/"
	}
	children := make(map[string]entry)
	for p := range files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		name, _, nested := strings.Cut(rest, "/")
		childPath := prefix + name
		typ := "file"
		if nested {
			typ = "dir"
		}
		children[name] = entry{Type: typ, Name: name, Path: childPath, URL: s.contentsURL(fullName, childPath)}
	}
	if len(children) == 0 && path != "" {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)
	list := make([]entry, 0, len(names))
	for _, name := range names {
		list = append(list, children[name])
	}
	writeJSON(w, list)
}

func (s *Server) fileEntry(fullName, path, content string) entry {
	_, name := pathBase(path)
	e := entry{Type: "file", Name: name, Path: path, URL: s.contentsURL(fullName, path)}

	encoding, custom := s.encodings[fullName+":"+path]
	switch {
	case custom:
		e.Encoding = &encoding
		e.Content = &content
	case content == "":
		empty := ""
		e.Encoding = &empty
	default:
		// GitHub ngắt dòng base64 mỗi 60 ký tự
		encoded := wrap(base64.StdEncoding.EncodeToString([]byte(content)), 60)
		b64 := "base64"
		e.Encoding = &b64
		e.Content = &encoded
	}
	return e
}

func (s *Server) contentsURL(fullName, path string) string {
	return fmt.Sprintf("%s/repos/%s/contents/%s?ref=main", s.Server.URL, fullName, (&url.URL{Path: path}).EscapedPath())
}

func pathBase(path string) (string, string) {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i], path[i+1:]
	}
	return "", path
}

func wrap(s string, width int) string {
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteByte('\n')
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
