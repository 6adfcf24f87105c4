package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	QuitCommand = ":q"
	Prompt      = `Please enter a word to test (entering ":q" will quit the program): `
)

type Filter interface {
	Find(item string) bool
	FalsePositiveProbability(itemsInserted int) (float64, error)
	TrackedFalsePositiveProbability() float64
}

type Config struct {
	// ItemLength is the insertion estimate handed to the probability report.
	ItemLength int
	// Tracked uses the filter's own insertion count instead of ItemLength.
	Tracked bool
	Logger  *slog.Logger
}

type Session struct {
	filter Filter
	in     *bufio.Reader
	out    io.Writer
	config Config
	logger *slog.Logger
}

type inputLine struct {
	text string
	err  error
}

func New(filter Filter, in io.Reader, out io.Writer, config Config) *Session {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default().With("component", "session")
	}
	return &Session{
		filter: filter,
		in:     bufio.NewReader(in),
		out:    out,
		config: config,
		logger: logger,
	}
}

func (s *Session) Debug(msg string, args ...any) {
	s.logger.Debug(msg, args...)
}

// Run prompts for words until QuitCommand, end of input or ctx is done. A
// blocked read does not delay cancellation.
func (s *Session) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	lines := s.readLines(done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprint(s.out, Prompt); err != nil {
			return err
		}

		var line inputLine
		var ok bool
		select {
		case <-ctx.Done():
			s.Debug("Cancelled at prompt")
			return ctx.Err()
		case line, ok = <-lines:
		}

		if !ok {
			s.Debug("End of input")
			fmt.Fprintln(s.out)
			return nil
		}
		if line.err != nil {
			return errors.Join(errors.New("failed to read input"), line.err)
		}
		if line.text == QuitCommand {
			s.Debug("Quit requested")
			return nil
		}
		if err := s.Check(line.text); err != nil {
			return err
		}
	}
}

// readLines delivers input lines without their terminators until end of
// input, a read error, or done is closed.
func (s *Session) readLines(done <-chan struct{}) <-chan inputLine {
	lines := make(chan inputLine)
	send := func(l inputLine) bool {
		select {
		case lines <- l:
			return true
		case <-done:
			return false
		}
	}
	go func() {
		defer close(lines)
		for {
			text, err := s.in.ReadString('\n')
			if text != "" {
				if !send(inputLine{text: trimLineEnding(text)}) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					send(inputLine{err: err})
				}
				return
			}
		}
	}()
	return lines
}

func trimLineEnding(text string) string {
	return strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
}

// Check looks word up and prints the verdict.
func (s *Session) Check(word string) error {
	fmt.Fprintf(s.out, "Checking bloom filter for %s\n", word)
	found := s.filter.Find(word)
	s.Debug("Lookup", "word", word, "found", found)
	if !found {
		_, err := fmt.Fprintf(s.out, "%s definitely not in filter\n", word)
		return err
	}
	fpp, err := s.falsePositiveProbability()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "%s has probability %.3f of being in filter\n", word, 1-fpp)
	return err
}

func (s *Session) falsePositiveProbability() (float64, error) {
	if s.config.Tracked {
		return s.filter.TrackedFalsePositiveProbability(), nil
	}
	return s.filter.FalsePositiveProbability(s.config.ItemLength)
}
