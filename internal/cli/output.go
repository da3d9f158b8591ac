package cli

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/waffleviz/waffle/pkg/dataset"
	"github.com/waffleviz/waffle/pkg/render"
)

// writeArtifacts writes rendered artifacts to disk and returns the
// paths written, in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	single := len(formats) == 1
	paths := make([]string, 0, len(formats))

	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(output, input, format, single)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactPath decides where one artifact lands. A single format with
// an explicit output path is written exactly there; everything else
// derives from the base path with the format as extension.
func artifactPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input file
// paths. If output is empty, it strips the extension from input. If
// output has a format extension (.svg, .png, etc.), it strips that
// extension so format suffixes can be appended cleanly.
func basePath(output, input string) string {
	if output == "" {
		if dataset.IsRemote(input) {
			return remoteBase(input)
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if render.ValidFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// remoteBase names output files for URL sources after the last path
// segment, so fetched charts land in the working directory.
func remoteBase(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "chart"
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return "chart"
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
