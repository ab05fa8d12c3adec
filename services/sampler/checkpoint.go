package sampler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Keyword -> ordered sampled UIDs. A keyword mapped to a non-empty
// list is done and is never reprocessed; an empty list means it was
// attempted and yielded nothing.
type CampaignResult map[string][]string

// Reads a checkpoint file. A missing, unreadable or malformed file
// degrades to an empty result, resuming must never be fatal.
func LoadCheckpoint(path string) CampaignResult {
	contents, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("could not read checkpoint, starting empty", "path", path, "err", err)
		}
		return CampaignResult{}
	}

	var result CampaignResult
	err = json.Unmarshal(contents, &result)
	if err != nil {
		slog.Warn("malformed checkpoint, starting empty", "path", path, "err", err)
		return CampaignResult{}
	}
	if result == nil {
		return CampaignResult{}
	}
	return result
}

// Writes the full result pretty-printed, to a temp file first and then
// renamed over the target, so a crash leaves either the previous or
// the new complete file.
func SaveCheckpoint(path string, result CampaignResult) error {
	contents, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	contents = append(contents, '\n')

	tmp := path + ".tmp"
	err = os.WriteFile(tmp, contents, 0o644)
	if err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	err = os.Rename(tmp, path)
	if err != nil {
		return fmt.Errorf("replace checkpoint: %w", err)
	}
	return nil
}
