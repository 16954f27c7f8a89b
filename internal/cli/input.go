package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/graphvis/pkg/errors"
)

// stdinName selects standard input as the adjacency-list source.
const stdinName = "-"

// readInput reads adjacency-list text from path, or from stdin when path is
// "-". The text is size-checked before it reaches the parser.
func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinName {
		data, err = io.ReadAll(io.LimitReader(stdin, errs.MaxTextBytes+1))
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return "", errs.Wrap(errs.ErrCodeInvalidPath, err, "input file not found: %s", path)
		}
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", path)
	}
	text := string(data)
	if err := errs.ValidateText(text); err != nil {
		return "", err
	}
	return text, nil
}

// basePath derives the output base path (without extension) from the -o
// flag or the input file name.
func basePath(output, input string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	if input == stdinName {
		return "graph"
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
