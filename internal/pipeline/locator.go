package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// LocateAsset finds the source video for an episode on disk. Channel
// directories are probed as "<index>-<slug>" then "<slug>" under the
// videos root; filenames as the conventional "<NN>-<episode-slug>" clip
// name in .mp4 then .mov form, with the verbatim legacy filename column
// as last resort. A miss is a recoverable per-episode condition.
func LocateAsset(videosRoot, channelSlug string, channelIndex int, episodeSlug string, episodeNumber int, legacyName string) (string, bool) {
	dirs := []string{
		filepath.Join(videosRoot, fmt.Sprintf("%d-%s", channelIndex, channelSlug)),
		filepath.Join(videosRoot, channelSlug),
	}

	names := []string{
		fmt.Sprintf("%02d-%s.mp4", episodeNumber, episodeSlug),
		fmt.Sprintf("%02d-%s.mov", episodeNumber, episodeSlug),
	}
	if legacyName != "" {
		names = append(names, legacyName)
	}

	for _, dir := range dirs {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, true
			}
		}
	}

	return "", false
}
