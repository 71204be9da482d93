package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"loanbook/internal/usecase/loan"
)

type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{r: bufio.NewReader(in), w: out}
}

// ask prints question and returns the trimmed answer. End of input counts as
// an empty answer.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.w, question)
	line, err := p.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.w)
	}
	return strings.TrimSpace(line), nil
}

// confirm defaults to no.
func (p *prompter) confirm(question string) (bool, error) {
	ans, err := p.ask(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(ans) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// resolution asks what to do with a name that is already taken. Anything
// unrecognized is an abort.
func (p *prompter) resolution(question string) (loan.Resolution, error) {
	ans, err := p.ask(question + " [m]erge / [n]ew loan / [a]bort: ")
	if err != nil {
		return loan.ResolutionAbort, err
	}
	switch strings.ToLower(ans) {
	case "m", "merge":
		return loan.ResolutionMerge, nil
	case "n", "new":
		return loan.ResolutionCreate, nil
	}
	return loan.ResolutionAbort, nil
}
