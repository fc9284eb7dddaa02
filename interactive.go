package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"github.com/Sarakael78/DoctorCodebase/internal/rules"
	"github.com/Sarakael78/DoctorCodebase/internal/walker"
)

// directoryCandidates lists root and every directory below it that the rule
// set does not prune, in walk order.
func directoryCandidates(root string, rs rules.RuleSet, skipHidden bool) ([]string, error) {
	w, err := walker.New(root, rs, walker.Options{SkipHidden: skipHidden})
	if err != nil {
		return nil, err
	}
	candidates := []string{"."}
	for e := range w.Entries() {
		if e.IsDir {
			candidates = append(candidates, e.RelPath)
		}
	}
	return candidates, nil
}

// pickRoot lets the user choose the directory to snapshot. It returns "" when
// the selection is aborted.
func pickRoot(root string, rs rules.RuleSet, skipHidden bool) (string, error) {
	candidates, err := directoryCandidates(root, rs, skipHidden)
	if err != nil {
		return "", fmt.Errorf("error scanning for directories: %w", err)
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string { return candidates[i] },
		fuzzyfinder.WithPromptString("root> "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select the directory to snapshot. Enter confirms, Esc aborts."
			}
			dir := filepath.Join(root, filepath.FromSlash(candidates[i]))
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Sprintf("Path: %s\nError reading directory: %v", dir, err)
			}
			preview := fmt.Sprintf("Path: %s\nEntries: %d\n\n", dir, len(entries))
			for n, e := range entries {
				if n == h-4 {
					preview += "...\n"
					break
				}
				name := e.Name()
				if e.IsDir() {
					name += "/"
				}
				preview += name + "\n"
			}
			return preview
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			fmt.Println("Interactive selection aborted.")
			return "", nil
		}
		return "", fmt.Errorf("fuzzy finder error: %w", err)
	}
	return filepath.Join(root, filepath.FromSlash(candidates[idx])), nil
}
