// Package wordlist loads optional word lists used by the random text source.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
)

// ErrEmpty is returned when a word list has no usable words.
var ErrEmpty = errors.New("word list is empty")

// LoadWords reads a word list. Only the first field of each line is used, so
// frequency lists ("word count") load as-is; blank lines and lines starting
// with '#' are skipped and duplicates are dropped.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		words = append(words, fields[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	words = lo.Uniq(words)
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return words, nil
}
