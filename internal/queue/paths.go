package queue

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// TranscriptPath returns the conventional transcript location for a job.
func TranscriptPath(transcriptDir, id string) string {
	return filepath.Join(transcriptDir, id+".txt")
}

// ArtifactGlob returns the glob pattern matching a job's downloaded artifact.
// The download tool picks the container extension, so the artifact is located
// by id prefix rather than a fixed name.
func ArtifactGlob(downloadDir, id string) string {
	return filepath.Join(downloadDir, id+".*")
}

// FindArtifact locates the downloaded artifact for a job. When multiple
// matches exist (a stray partial next to the finished file), the largest
// regular file wins.
func FindArtifact(downloadDir, id string) (string, error) {
	matches, err := filepath.Glob(ArtifactGlob(downloadDir, id))
	if err != nil {
		return "", fmt.Errorf("glob artifact for %s: %w", id, err)
	}

	type candidate struct {
		path string
		size int64
	}
	candidates := make([]candidate, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		candidates = append(candidates, candidate{path: match, size: info.Size()})
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no artifact found for %s in %s", id, downloadDir)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].size != candidates[j].size {
			return candidates[i].size > candidates[j].size
		}
		return candidates[i].path < candidates[j].path
	})
	return candidates[0].path, nil
}
