package dictionary

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Adder interface {
	Add(item string)
}

// Load adds every line of r to filter, without its line terminator. Empty
// lines are added as the empty item. Line length is unbounded.
func Load(ctx context.Context, r io.Reader, filter Adder) (int, error) {
	reader := bufio.NewReader(r)
	lines := 0
	for {
		if lines%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return lines, err
			}
		}
		text, err := reader.ReadString('\n')
		if text != "" {
			filter.Add(strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r"))
			lines++
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return lines, errors.Join(errors.New("failed to read dictionary"), err)
		}
	}
}

func LoadFile(ctx context.Context, path string, filter Adder) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Join(fmt.Errorf("failed to open dictionary %s", path), err)
	}
	defer f.Close()

	lines, err := Load(ctx, f, filter)
	if err != nil {
		return lines, err
	}
	slog.Debug("Loaded dictionary", "path", path, "lines", lines)
	return lines, nil
}
