// Package session drives one operator's searches: prompt for a term, run the
// search pipeline, then ask whether to restart or stop.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"

	"ucas-search/internal/export"
	"ucas-search/internal/providers"
	"ucas-search/internal/ranking"
	"ucas-search/internal/report"
)

type State int

const (
	StateRunning State = iota
	StateAwaitingChoice
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateAwaitingChoice:
		return "awaiting-choice"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Session struct {
	Searcher providers.CourseSearcher
	OutDir   string

	In  io.Reader
	Out io.Writer
	Log *slog.Logger

	// SearchContext scopes a single search; the cmd wires it to SIGINT so an
	// interrupt aborts the running search only. Defaults to context.WithCancel.
	SearchContext func(parent context.Context) (context.Context, context.CancelFunc)

	// AfterWrite, when set, receives the files written by a search.
	AfterWrite func(ctx context.Context, paths []string) error

	reader *bufio.Reader
}

// Outcome summarizes a finished search.
type Outcome struct {
	Term    string
	Fetched int
	Groups  ranking.Groups
	Files   []string
}

// Run loops RUNNING -> AWAITING-CHOICE -> RUNNING|STOPPED until the operator
// stops or the input ends.
func (s *Session) Run(ctx context.Context) error {
	state := StateRunning
	for {
		switch state {
		case StateRunning:
			if err := s.runGuarded(ctx); errors.Is(err, io.EOF) {
				state = StateStopped
				continue
			}
			state = StateAwaitingChoice

		case StateAwaitingChoice:
			next, err := s.askChoice()
			if err != nil {
				return err
			}
			state = next

		case StateStopped:
			fmt.Fprintln(s.Out, "Bye.")
			return nil
		}
	}
}

// runGuarded runs one prompt+search and reports any failure, including a
// panic, instead of letting it end the session. Only io.EOF on input is
// returned.
func (s *Session) runGuarded(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(s.Out, "unexpected error: %v\n\nfull details:\n%s\n", r, debug.Stack())
			err = nil
		}
	}()

	term, err := s.readLine("Search term: ")
	if err != nil {
		return err
	}

	if _, err := s.RunSearch(ctx, term); err != nil {
		fmt.Fprintf(s.Out, "search failed: %v\n", err)
	}
	return nil
}

// RunSearch executes the whole pipeline for one term: fetch, extract, rank,
// write and report. Empty terms and empty results are reported, not errors.
// If ctx is canceled during the fetch nothing is written.
func (s *Session) RunSearch(parent context.Context, term string) (Outcome, error) {
	term = strings.TrimSpace(term)
	out := Outcome{Term: term}
	if term == "" {
		fmt.Fprintln(s.Out, "Search term cannot be empty.")
		return out, nil
	}

	ctx, cancel := s.searchContext(parent)
	defer cancel()

	fmt.Fprintf(s.Out, "Searching for: %s\n", term)

	res, err := s.Searcher.Search(ctx, term)
	out.Fetched = res.Fetched
	if err != nil {
		if ctx.Err() != nil {
			return out, fmt.Errorf("search interrupted: %w", err)
		}
		s.logger().Warn("search aborted, keeping fetched records", "provider", s.Searcher.Name(), "records", res.Fetched, "err", err)
	}

	fmt.Fprintf(s.Out, "Fetched %d courses\n", res.Fetched)
	if res.Fetched == 0 {
		fmt.Fprintln(s.Out, "No matching courses found.")
		return out, nil
	}

	report.Failures(s.Out, res.Failures)
	fmt.Fprintf(s.Out, "Parsed %d course options\n", len(res.Courses))

	out.Groups = ranking.Rank(res.Courses)

	files, err := export.WriteGroups(s.OutDir, term, out.Groups)
	out.Files = files
	if err != nil {
		return out, err
	}
	for _, f := range files {
		s.logger().Info("wrote results", "file", f)
	}

	report.Leaderboard(s.Out, out.Groups)
	for _, f := range files {
		fmt.Fprintf(s.Out, "Saved %s\n", f)
	}

	if s.AfterWrite != nil && len(files) > 0 {
		if err := s.AfterWrite(ctx, files); err != nil {
			return out, err
		}
	}

	fmt.Fprintln(s.Out, "\nSearch complete!")
	return out, nil
}

func (s *Session) askChoice() (State, error) {
	for {
		answer, err := s.readLine("\nStop (s) / Restart (r): ")
		if errors.Is(err, io.EOF) {
			return StateStopped, nil
		}
		if err != nil {
			return StateStopped, err
		}

		switch strings.ToLower(answer) {
		case "s", "stop":
			return StateStopped, nil
		case "r", "restart":
			fmt.Fprintln(s.Out, "\nRestarting...")
			return StateRunning, nil
		default:
			fmt.Fprintln(s.Out, "Please enter s or r.")
		}
	}
}

// readLine prompts and returns the trimmed line. A final line without a
// newline is still returned; io.EOF only comes back once input is exhausted.
func (s *Session) readLine(prompt string) (string, error) {
	if s.reader == nil {
		s.reader = bufio.NewReader(s.In)
	}
	fmt.Fprint(s.Out, prompt)

	line, err := s.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.Out)
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) searchContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.SearchContext != nil {
		return s.SearchContext(parent)
	}
	return context.WithCancel(parent)
}

func (s *Session) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}
