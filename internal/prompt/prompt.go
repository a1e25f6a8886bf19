package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"rotator/internal/report"
)

// ErrInputClosed is returned when input ends while an answer is still required.
var ErrInputClosed = errors.New("input closed before an answer was given")

const yesNoHint = "Type 'Yes' or 'No' and press Enter: "

// Session reads operator answers from in and writes prompts to out.
type Session struct {
	in  *bufio.Reader
	out io.Writer
}

// NewSession returns a session over the provided streams.
func NewSession(in io.Reader, out io.Writer) *Session {
	return &Session{in: bufio.NewReader(in), out: out}
}

// readLine returns the next line without its terminator. A final line that
// lacks a newline is returned as-is; io.EOF is returned only when no text
// remains.
func (s *Session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// YesNo asks question until the operator answers yes or no.
func (s *Session) YesNo(question string) (bool, error) {
	if question != "" {
		fmt.Fprintf(s.out, "%s\n\n", question)
	}
	for {
		fmt.Fprint(s.out, yesNoHint)
		line, err := s.readLine()
		if errors.Is(err, io.EOF) {
			return false, ErrInputClosed
		}
		if err != nil {
			return false, fmt.Errorf("read answer: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			fmt.Fprintln(s.out)
			return true, nil
		case "n", "no":
			fmt.Fprintln(s.out)
			return false, nil
		}
		fmt.Fprintln(s.out, "Please answer 'Yes' or 'No'.")
	}
}

// CollectIDs runs the add-items conversation and returns the confirmed
// identifiers. It returns nil when the operator has nothing to add.
func (s *Session) CollectIDs() ([]string, error) {
	add, err := s.YesNo("Do any items need to be added to the waiting queue?")
	if err != nil {
		return nil, err
	}
	if !add {
		fmt.Fprint(s.out, report.Divider)
		return nil, nil
	}

	for {
		ids, err := s.enterIDs()
		if err != nil {
			return nil, err
		}

		fmt.Fprint(s.out, "You have entered the below items to add to the waiting queue. Is this correct?\n\n")
		for i, id := range ids {
			fmt.Fprintf(s.out, "%d: %s\n", i+1, id)
		}
		fmt.Fprintln(s.out)

		confirmed, err := s.YesNo("")
		if err != nil {
			return nil, err
		}
		if confirmed {
			return ids, nil
		}
		fmt.Fprint(s.out, report.Divider)
	}
}

// enterIDs reads identifiers until a blank line or the end of input.
func (s *Session) enterIDs() ([]string, error) {
	fmt.Fprint(s.out, "Enter the itemIDs to add to the waiting queue. Press Enter after each item entry. When done press Enter with no text entered.\n\n")
	var ids []string
	for n := 1; ; n++ {
		fmt.Fprintf(s.out, "%d: ", n)
		line, err := s.readLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read item id: %w", err)
		}
		id := strings.TrimSpace(line)
		if id == "" {
			break
		}
		ids = append(ids, id)
	}
	fmt.Fprint(s.out, "\n\n")
	return ids, nil
}
