package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sarakael78/DoctorCodebase/internal/rules"
)

// source is the local directory a run walks, plus whatever is needed to
// remove it again when it was fetched for the run.
type source struct {
	root    string
	name    string
	remote  bool
	rules   rules.RuleSet
	cleanup func()
}

// acquire turns the command-line input into a local directory. Web URLs are
// fetched and converted to markdown, Git URLs are cloned; both land in a
// temporary directory that cleanup removes.
func acquire(ctx context.Context, input string, s settings, rs rules.RuleSet) (source, error) {
	src := source{root: input, rules: rs, cleanup: func() {}}

	switch {
	case isWebURL(input):
		dir, err := os.MkdirTemp("", "doctorcodebase-web-")
		if err != nil {
			return src, fmt.Errorf("failed to create temporary directory: %w", err)
		}
		src.cleanup = removeDir(dir)

		depth := 0
		if s.TraverseLinks {
			depth = s.LinkDepth
		}
		pages, err := fetchSite(ctx, input, depth, dir)
		if err != nil {
			src.cleanup()
			return src, err
		}
		fmt.Printf("Fetched %d page(s) from %s\n", pages, input)

		src.root, src.remote = dir, true
		src.rules = rs.WithStructured(markdownExt)
		if u, err := url.Parse(input); err == nil {
			src.name = u.Hostname()
		}

	case isGitURL(input):
		dir, err := cloneGitRepo(ctx, input)
		if err != nil {
			return src, err
		}
		src.root, src.remote = dir, true
		src.cleanup = removeDir(dir)
		src.name = repoName(input)
	}
	return src, nil
}

func removeDir(dir string) func() {
	return func() {
		fmt.Printf("Cleaning up temporary directory: %s\n", dir)
		_ = os.RemoveAll(dir)
	}
}

// isWebURL checks if the input string is an HTTP/HTTPS URL that is not a Git
// remote.
func isWebURL(input string) bool {
	return (strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")) && !isGitURL(input)
}

// repoName derives a project name from a Git URL.
func repoName(gitURL string) string {
	name := strings.TrimSuffix(strings.TrimRight(gitURL, "/"), ".git")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return filepath.Base(gitURL)
	}
	return name
}
