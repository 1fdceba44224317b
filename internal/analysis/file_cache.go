package analysis

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileCache keeps the raw JSON of validated analyses, one file per prefix.
type FileCache struct {
	rootDir string
}

func NewFileCache(cacheDirectory string) *FileCache {
	return &FileCache{
		rootDir: cacheDirectory,
	}
}

func (cache *FileCache) filePath(prefix string) string {
	return filepath.Join(cache.rootDir, url.PathEscape(strings.ToLower(prefix))+".json")
}

// Read returns the cached content of prefix and whether it exists.
func (cache *FileCache) Read(prefix string) ([]byte, bool, error) {
	contents, err := os.ReadFile(cache.filePath(prefix))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("os.ReadFile > %w", err)
	}
	return contents, true, nil
}

func (cache *FileCache) Write(prefix string, contents []byte) error {
	if err := os.MkdirAll(cache.rootDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", cache.rootDir, err)
	}

	file, err := os.Create(cache.filePath(prefix))
	if err != nil {
		return fmt.Errorf("os.Create > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	if _, err := file.Write(contents); err != nil {
		return fmt.Errorf("file.Write > %w", err)
	}
	return nil
}

func (cache *FileCache) Delete(prefix string) error {
	if err := os.Remove(cache.filePath(prefix)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("os.Remove > %w", err)
	}
	return nil
}
