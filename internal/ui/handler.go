package ui

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/internal/model"
	"github.com/thep200/github-code-crawler/internal/state"
	"github.com/thep200/github-code-crawler/pkg/log"
)

// Handler serves a read-only JSON view of the saved crawl state.
type Handler struct {
	Logger log.Logger
	Config *cfg.Config
	Store  state.Store
}

func NewHandler(logger log.Logger, config *cfg.Config, store state.Store) *Handler {
	return &Handler{
		Logger: logger,
		Config: config,
		Store:  store,
	}
}

// RegisterRoutes sets up the HTTP routes for the UI
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/summary", h.getSummary)
	mux.HandleFunc("GET /api/repos", h.getRepos)
	mux.HandleFunc("GET /api/files", h.getFiles)
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

type Summary struct {
	Backend      string `json:"backend"`
	Repositories int    `json:"repositories"`
	Files        int    `json:"files"`
	ContentBytes uint64 `json:"contentBytes"`
	ContentSize  string `json:"contentSize"`
}

func (h *Handler) loadState(w http.ResponseWriter, r *http.Request) (*model.CrawlState, bool) {
	st, err := h.Store.Load(r.Context())
	if err != nil {
		h.Logger.Error(r.Context(), "Failed to load crawl state: %v", err)
		http.Error(w, "Failed to load crawl state", http.StatusInternalServerError)
		return nil, false
	}
	return st, true
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	st, ok := h.loadState(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, r, Summary{
		Backend:      h.Config.Storage.Backend,
		Repositories: st.RepoCount(),
		Files:        st.FileCount(),
		ContentBytes: st.ContentBytes(),
		ContentSize:  humanize.Bytes(st.ContentBytes()),
	})
}

// GetRepos returns processed repositories in processing order
func (h *Handler) getRepos(w http.ResponseWriter, r *http.Request) {
	st, ok := h.loadState(w, r)
	if !ok {
		return
	}

	search := r.URL.Query().Get("search")
	repos := make([]string, 0)
	for _, name := range st.ProcessedRepos() {
		if search == "" || strings.Contains(name, search) {
			repos = append(repos, name)
		}
	}

	page, pageSize := pageParams(r)
	start, end, pagination := paginate(len(repos), page, pageSize)
	h.writeJSON(w, r, map[string]interface{}{
		"repositories": repos[start:end],
		"pagination":   pagination,
	})
}

// GetFiles lists collected files; content is omitted unless withContent=true.
func (h *Handler) getFiles(w http.ResponseWriter, r *http.Request) {
	st, ok := h.loadState(w, r)
	if !ok {
		return
	}

	search := r.URL.Query().Get("search")
	withContent := r.URL.Query().Get("withContent") == "true"

	files := make([]model.FileRecord, 0)
	for _, f := range st.Files() {
		if search != "" && !strings.Contains(f.Path, search) {
			continue
		}
		if !withContent {
			f.Content = ""
		}
		files = append(files, f)
	}

	page, pageSize := pageParams(r)
	start, end, pagination := paginate(len(files), page, pageSize)
	h.writeJSON(w, r, map[string]interface{}{
		"files":      files[start:end],
		"pagination": pagination,
	})
}

func pageParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}
	return page, pageSize
}

func paginate(total, page, pageSize int) (int, int, Pagination) {
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	return start, end, Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		h.Logger.Error(r.Context(), "Failed to encode JSON response: %v", err)
	}
}
