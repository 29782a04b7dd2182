package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/stipple/pkg/pipeline"
)

// basePath derives the base output path from the output and input file paths.
// If output is empty, the input name with its extension replaced by
// outputSuffix is used. A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input)) + outputSuffix
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file for one format. A single requested format
// written to an explicit output with an extension keeps that exact name.
func outputPath(output, input, format string, single bool) string {
	if single && filepath.Ext(output) != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

// snapshotPath returns the file for an animation frame. Frames of a
// restarted run carry the restart number so they never overwrite the
// frames of an earlier run.
func snapshotPath(output, input, format string, restart, step int) string {
	if restart > 0 {
		return fmt.Sprintf("%s_r%d_%04d.%s", basePath(output, input), restart, step, format)
	}
	return fmt.Sprintf("%s_%04d.%s", basePath(output, input), step, format)
}

// writeArtifacts writes rendered artifacts in format order and returns
// the paths written.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(output, input, format, len(formats) == 1)
		if err := writeFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
