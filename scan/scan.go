package scan

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// contextWindow is the number of characters of surrounding context captured
// on each side of a match, clipped at line boundaries.
const contextWindow = 20

// Match is one occurrence of the content pattern within one line.
type Match struct {
	LineNumber    int    // 1-based
	StartColumn   int    // byte offset of the match within the line
	EndColumn     int    // byte offset just past the match
	MatchedText   string
	ContextBefore string
	ContextAfter  string
}

// Scanner finds occurrences of a textual pattern in lines of text.
// A Scanner is immutable after construction and safe for concurrent use.
type Scanner struct {
	re        *regexp.Regexp // nil when in substring mode
	fold      *regexp.Regexp // case-insensitive substring matcher
	needle    string
	wholeWord bool
}

// NewScanner builds a scanner for the given pattern. With useRegex set the
// pattern is compiled as a regular expression; if compilation fails the
// scanner silently switches to literal substring mode.
func NewScanner(pat string, useRegex bool, caseSensitive bool, wholeWord bool) *Scanner {
	s := &Scanner{
		needle:    pat,
		wholeWord: wholeWord,
	}

	if useRegex {
		source := pat
		if !caseSensitive {
			source = "(?i)" + source
		}
		if re, err := regexp.Compile(source); err == nil {
			s.re = re
		}
	}

	// Case-insensitive substring matching runs against the original text.
	// Folding a copy shifts byte offsets when a rune's lowercase form has a
	// different encoded length.
	if s.re == nil && !caseSensitive && pat != "" {
		s.fold = regexp.MustCompile("(?i)" + regexp.QuoteMeta(pat))
	}
	return s
}

// ScanLine returns every occurrence of the pattern in one line.
// Substring mode reports non-overlapping occurrences left to right; regex
// mode reports whatever the regex engine finds.
func (s *Scanner) ScanLine(line string, lineNumber int) []Match {
	if s.re != nil {
		return s.scanLineRegex(line, lineNumber)
	}
	return s.scanLineLiteral(line, lineNumber)
}

// ScanLines scans a slice of lines, numbering them from 1.
func (s *Scanner) ScanLines(lines []string) []Match {
	var matches []Match
	for i, line := range lines {
		matches = append(matches, s.ScanLine(line, i+1)...)
	}
	return matches
}

// ScanReader scans text from a reader line by line. Oversized lines are
// accommodated up to 1MB; a read error returns the matches found so far.
func (s *Scanner) ScanReader(r io.Reader) ([]Match, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var matches []Match
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		matches = append(matches, s.ScanLine(scanner.Text(), lineNumber)...)
	}
	if err := scanner.Err(); err != nil {
		return matches, err
	}
	return matches, nil
}

func (s *Scanner) scanLineRegex(line string, lineNumber int) []Match {
	var matches []Match
	for _, loc := range s.re.FindAllStringIndex(line, -1) {
		start, end := loc[0], loc[1]
		if s.wholeWord && !isWholeWord(line, start, end) {
			continue
		}
		matches = append(matches, buildMatch(line, lineNumber, start, end))
	}
	return matches
}

func (s *Scanner) scanLineLiteral(line string, lineNumber int) []Match {
	if s.needle == "" {
		return nil
	}

	if s.fold != nil {
		var matches []Match
		for _, loc := range s.fold.FindAllStringIndex(line, -1) {
			if s.wholeWord && !isWholeWord(line, loc[0], loc[1]) {
				continue
			}
			matches = append(matches, buildMatch(line, lineNumber, loc[0], loc[1]))
		}
		return matches
	}

	var matches []Match
	offset := 0
	for {
		pos := strings.Index(line[offset:], s.needle)
		if pos < 0 {
			break
		}
		start := offset + pos
		end := start + len(s.needle)
		if !s.wholeWord || isWholeWord(line, start, end) {
			matches = append(matches, buildMatch(line, lineNumber, start, end))
		}
		offset = end
	}
	return matches
}

func buildMatch(line string, lineNumber int, start int, end int) Match {
	return Match{
		LineNumber:    lineNumber,
		StartColumn:   start,
		EndColumn:     end,
		MatchedText:   line[start:end],
		ContextBefore: clipBefore(line, start),
		ContextAfter:  clipAfter(line, end),
	}
}

// clipBefore returns up to contextWindow characters preceding the match.
func clipBefore(line string, start int) string {
	runes := []rune(line[:start])
	if len(runes) > contextWindow {
		runes = runes[len(runes)-contextWindow:]
	}
	return string(runes)
}

// clipAfter returns up to contextWindow characters following the match.
func clipAfter(line string, end int) string {
	runes := []rune(line[end:])
	if len(runes) > contextWindow {
		runes = runes[:contextWindow]
	}
	return string(runes)
}

// isWholeWord reports whether the [start,end) slice of line is bounded by
// non-word characters (or the line edges).
func isWholeWord(line string, start int, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(line[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(line) {
		r, _ := utf8.DecodeRuneInString(line[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsBinary checks the first 512 bytes for null bytes, which indicates binary
// content that should yield zero matches.
func IsBinary(data []byte) bool {
	checkSize := 512
	if len(data) < checkSize {
		checkSize = len(data)
	}
	for i := 0; i < checkSize; i++ {
		if data[i] == 0 {
			return true
		}
	}
	return false
}
