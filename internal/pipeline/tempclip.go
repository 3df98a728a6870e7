package pipeline

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// withTempClip allocates a unique clip path under dir, invokes fn with it,
// and removes the file on every exit path, including panics. The clip never
// outlives the call that created it.
func withTempClip(dir, ext string, fn func(path string) error) error {
	path := filepath.Join(dir, "clip-"+uuid.NewString()+ext)
	defer os.Remove(path)
	return fn(path)
}
