package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/chaincode/internal/common"
	"golang.org/x/term"
)

// Test seams for terminal access.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// GetSimpleText prints a prompt to w and reads a single trimmed line from
// reader. If EOF occurs after some input was read, the partial line is
// returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prompts for a password. On a terminal the input is not echoed;
// otherwise a plain line is read from reader.
func GetPassword(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return GetSimpleText(reader, prompt, w)
	}

	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return strings.TrimSpace(string(pw)), nil
}

// SplitSelection splits comma or space separated input into tokens.
func SplitSelection(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// GetSelection returns args when present, otherwise prompts for a selection.
func GetSelection(reader *bufio.Reader, args []string, prompt string, w io.Writer) ([]string, error) {
	if len(args) > 0 {
		return SplitSelection(strings.Join(args, " ")), nil
	}
	line, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return nil, err
	}
	return SplitSelection(line), nil
}

// ParsePositions converts 1-based positions into 0-based indices.
func ParsePositions(tokens []string) ([]int, error) {
	if len(tokens) == 0 {
		return nil, common.ErrNothingSelected
	}
	out := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid position %q", tok)
		}
		out = append(out, n-1)
	}
	return out, nil
}
