package rag

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"pdf-rag/internal/models"
)

// Interactive runs the question loop until the user types the exit command,
// input ends or ctx is cancelled. Blank lines are skipped.
func (r *RAG) Interactive(ctx context.Context, in io.Reader, out io.Writer) error {
	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(done, in)

	fmt.Fprintln(out, models.WelcomeText)
	for {
		fmt.Fprint(out, models.QuestionInput)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return <-readErr
			}
			line = l
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}
		if strings.EqualFold(question, models.ExitCommand) {
			return nil
		}

		answer, err := r.Query(ctx, question)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}
		fmt.Fprintf(out, "%s%s\n", models.AnswerPrefix, answer)
	}
}

// maxQuestionSize bounds one input line; pasted questions can be long.
const maxQuestionSize = 1 << 20

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. It stops once done is closed. The error channel receives the
// scanner error when input ends.
func readLines(done <-chan struct{}, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxQuestionSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}
