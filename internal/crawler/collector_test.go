package crawler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thep200/github-code-crawler/internal/crawler"
	"github.com/thep200/github-code-crawler/internal/github_api/githubtest"
	"github.com/thep200/github-code-crawler/internal/model"
)

func pathsOf(files []model.FileRecord) []string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return paths
}

func TestCollector_DepthLimit(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.AddFile("a/x", "Main.java", "class Main {}")
	srv.AddFile("a/x", "README.md", "# x")
	srv.AddFile("a/x", "lib/Legacy.JAVA", "class Legacy {}")
	srv.AddFile("a/x", "src/A.java", "class A {}")
	srv.AddFile("a/x", "src/deep/B.java", "class B {}")
	srv.AddFile("a/x", "src/deep/deeper/C.java", "class C {}")

	c := crawler.NewCollector(discard(), newCaller(t, srv), ".java")
	files := c.Collect(context.Background(), model.RepositoryRef{FullName: "a/x"})

	assert.Equal(t, []string{"Main.java", "src/A.java"}, pathsOf(files))
	assert.Equal(t, "class A {}", files[1].Content)
	assert.Equal(t, "A.java", files[1].Name)
}

func TestCollector_SiblingSurvivesFailure(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.AddFile("a/x", "broken/X.java", "class X {}")
	srv.AddFile("a/x", "src/A.java", "class A {}")
	srv.FailContents("a/x", "broken", http.StatusInternalServerError)

	c := crawler.NewCollector(discard(), newCaller(t, srv), ".java")
	files := c.Collect(context.Background(), model.RepositoryRef{FullName: "a/x"})

	assert.Equal(t, []string{"src/A.java"}, pathsOf(files))
}

func TestCollector_ContentFailureKeepsRecord(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.AddFile("a/x", "A.java", "class A {}")
	srv.AddFile("a/x", "Weird.java", "raw")
	srv.SetEncoding("a/x", "Weird.java", "none")

	c := crawler.NewCollector(discard(), newCaller(t, srv), ".java")
	files := c.Collect(context.Background(), model.RepositoryRef{FullName: "a/x"})

	assert.Equal(t, []model.FileRecord{
		{Name: "A.java", Path: "A.java", Content: "class A {}"},
		{Name: "Weird.java", Path: "Weird.java", Content: ""},
	}, files)
}

func TestCollector_RootFailureIsEmpty(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.AddFile("a/x", "A.java", "class A {}")
	srv.FailContents("a/x", "", http.StatusForbidden)

	c := crawler.NewCollector(discard(), newCaller(t, srv), ".java")
	files := c.Collect(context.Background(), model.RepositoryRef{FullName: "a/x"})

	assert.NotNil(t, files)
	assert.Empty(t, files)
}
