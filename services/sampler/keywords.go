package sampler

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Reads a newline-delimited keyword list. Blank lines and lines
// starting with '#' are ignored.
func ReadKeywordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyword list: %w", err)
	}
	defer f.Close()

	var keywords []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keywords = append(keywords, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read keyword list: %w", err)
	}
	return keywords, nil
}
