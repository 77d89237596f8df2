package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

//go:embed *.txt
var LevelsFS embed.FS

// Dir is the on-disk directory checked before the embedded copies.
var Dir = "levels"

// Load returns the raw bytes of a level file, preferring the copy on disk.
func Load(name string) ([]byte, error) {
	clean := cleanLevelPath(name)
	if clean == "" {
		return nil, fmt.Errorf("levels: empty name")
	}
	if Dir != "" {
		if data, err := os.ReadFile(filepath.Join(Dir, clean)); err == nil {
			return data, nil
		}
	}
	data, err := fs.ReadFile(LevelsFS, clean)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	return data, nil
}

// FileName returns the file name of the level at index.
func FileName(index int) string {
	return strconv.Itoa(index) + ".txt"
}

// IndexOf parses the level index from a level file path.
func IndexOf(path string) (int, bool) {
	base := filepath.Base(path)
	stem, ok := strings.CutSuffix(base, ".txt")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(stem)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// SplitLines splits level text into rows. Carriage returns and a trailing
// empty line are dropped.
func SplitLines(data []byte) []string {
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func cleanLevelPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "levels/"); ok {
		return after
	}
	return s
}
