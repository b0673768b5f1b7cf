package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// NonBlockingReader provides context-aware input reading that can be interrupted.
type NonBlockingReader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewNonBlockingReader creates a new non-blocking reader.
func NewNonBlockingReader(reader io.Reader) *NonBlockingReader {
	if reader == nil {
		panic("reader cannot be nil")
	}

	return &NonBlockingReader{
		reader: bufio.NewReader(reader),
	}
}

// ReadLine reads a trimmed line, respecting context cancellation. A final
// line without a newline is returned as-is.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		// The reading goroutine finishes on its own once input arrives.
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil && !(errors.Is(res.err, io.EOF) && res.value != "") {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}

// LinePrompter asks questions on a writer and reads answers line by line.
type LinePrompter struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewLinePrompter creates a prompter over the given input and output.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		reader: NewNonBlockingReader(in),
		writer: out,
	}
}

// Ask prints the question and returns the answer, or def when the answer is blank.
func (p *LinePrompter) Ask(ctx context.Context, question, def string) (string, error) {
	prompt := question
	if def != "" {
		prompt += SubtleStyle.Render(" [" + def + "]")
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskFloat repeats the question until the answer parses as a finite number.
// Dollar signs and thousands separators are accepted.
func (p *LinePrompter) AskFloat(ctx context.Context, question string, def float64) (float64, error) {
	for {
		answer, err := p.Ask(ctx, question, strconv.FormatFloat(def, 'f', -1, 64))
		if err != nil {
			return 0, err
		}
		cleaned := strings.NewReplacer("$", "", ",", "").Replace(answer)
		value, err := strconv.ParseFloat(cleaned, 64)
		if err == nil && !math.IsNaN(value) && !math.IsInf(value, 0) {
			return value, nil
		}
		if _, err := fmt.Fprintln(p.writer, FormatWarning("Please enter a number")); err != nil {
			return 0, fmt.Errorf("failed to write warning: %w", err)
		}
	}
}

// AskChoice repeats the question until the answer is one of choices or its
// 1-based index. Matching ignores case.
func (p *LinePrompter) AskChoice(ctx context.Context, question string, choices []string, def string) (string, error) {
	var menu strings.Builder
	for i, choice := range choices {
		fmt.Fprintf(&menu, "  %d) %s\n", i+1, choice)
	}

	for {
		if _, err := fmt.Fprint(p.writer, menu.String()); err != nil {
			return "", fmt.Errorf("failed to write choices: %w", err)
		}
		answer, err := p.Ask(ctx, question, def)
		if err != nil {
			return "", err
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(choices) {
			return choices[n-1], nil
		}
		for _, choice := range choices {
			if strings.EqualFold(choice, answer) {
				return choice, nil
			}
		}
		if _, err := fmt.Fprintln(p.writer, FormatWarning("Please pick one of the listed options")); err != nil {
			return "", fmt.Errorf("failed to write warning: %w", err)
		}
	}
}

// Confirm asks a yes/no question.
func (p *LinePrompter) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	defAnswer := "n"
	if def {
		defAnswer = "y"
	}
	answer, err := p.Ask(ctx, question+" (y/n)", defAnswer)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
