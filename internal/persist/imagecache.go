package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const imageCacheStampFile = "image_cache.stamp"

// ImageCacheStamp reads the last-converted-image timestamp sidecar,
// standing in for the original's shukusai/src/collection/image_cache.rs
// tracking so a future art-conversion step can skip files that haven't
// changed since the last catalog build. Returns the zero time if no stamp
// has been written yet.
func ImageCacheStamp(dataDir string) (time.Time, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, imageCacheStampFile))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}

	unix, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("persist: parse image cache stamp: %w", err)
	}
	return time.Unix(unix, 0), nil
}

// WriteImageCacheStamp records t as the last-converted-image timestamp.
func WriteImageCacheStamp(dataDir string, t time.Time) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dataDir, imageCacheStampFile)
	return os.WriteFile(path, []byte(strconv.FormatInt(t.Unix(), 10)), 0o644)
}
