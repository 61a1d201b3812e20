package main

import (
	"fmt"
	"io"
	"os"
)

// readInput loads an agent document or event payload from a file, or from
// stdin when path is "-". Only one of the two inputs of a command can come
// from stdin; the flag parser does not enforce this, the second read simply
// sees an empty stream.
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgReadStdinFailed, err)
		}
		return data, nil
	}
	return os.ReadFile(path)
}

// writeOutput writes a command's result to the requested file, or to stdout
// when no file was requested.
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" || path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, FilePermissions)
}
