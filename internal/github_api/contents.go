package githubapi

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/google/go-github/v75/github"

	"github.com/thep200/github-code-crawler/internal/model"
)

var (
	ErrUnsupportedEncoding = errors.New("unsupported content encoding")
	ErrNotUTF8             = errors.New("content is not valid utf-8")
)

// ListDirectory trả về các entry tại path (rỗng = thư mục gốc).
// Lỗi được log và trả về danh sách rỗng.
func (c *Caller) ListDirectory(ctx context.Context, fullName, path string) []model.DirEntry {
	owner, name := model.SplitFullName(fullName)
	if owner == "" {
		c.Logger.Error(ctx, "Failed to fetch files for %s at %q: invalid repository name", fullName, path)
		return []model.DirEntry{}
	}

	file, dir, _, err := c.Client.Repositories.GetContents(ctx, owner, name, path, nil)
	if err != nil {
		c.HandleRateLimit(ctx, err)
		c.Logger.Error(ctx, "Failed to fetch files for %s at %q: %s", fullName, path, describeError(err))
		return []model.DirEntry{}
	}

	if file != nil {
		return []model.DirEntry{toDirEntry(file)}
	}

	entries := make([]model.DirEntry, 0, len(dir))
	for _, item := range dir {
		if item == nil {
			continue
		}
		entries = append(entries, toDirEntry(item))
	}
	return entries
}

func toDirEntry(rc *github.RepositoryContent) model.DirEntry {
	return model.DirEntry{
		Type: rc.GetType(),
		Name: rc.GetName(),
		Path: rc.GetPath(),
		URL:  rc.GetURL(),
	}
}

// FetchContent loads the content object at locator and decodes it. Any failure
// yields an empty string.
func (c *Caller) FetchContent(ctx context.Context, locator string) string {
	if locator == "" {
		return ""
	}

	req, err := c.Client.NewRequest(http.MethodGet, locator, nil)
	if err != nil {
		c.Logger.Error(ctx, "Failed to fetch file content: bad locator %q: %v", locator, err)
		return ""
	}

	var file github.RepositoryContent
	if _, err := c.Client.Do(ctx, req, &file); err != nil {
		c.HandleRateLimit(ctx, err)
		c.Logger.Error(ctx, "Failed to fetch file content: %s", describeError(err))
		return ""
	}

	if file.Content == nil {
		return ""
	}

	text, err := DecodeContent(file.GetEncoding(), *file.Content)
	if err != nil {
		c.Logger.Warn(ctx, "Skipping content of %s: %v", file.GetPath(), err)
		return ""
	}
	return text
}

// DecodeContent reverses GitHub's base64 transport encoding. An empty encoding
// is treated as base64; anything else is unsupported.
func DecodeContent(encoding, content string) (string, error) {
	if content == "" {
		return "", nil
	}

	switch encoding {
	case "base64", "":
		decoded, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return "", fmt.Errorf("decode base64: %w", err)
		}
		if !utf8.Valid(decoded) {
			return "", ErrNotUTF8
		}
		return string(decoded), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedEncoding, encoding)
	}
}
