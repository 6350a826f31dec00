package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Standalone-line elision: a line whose only non-whitespace content is one
// or more qualifying tags contributes nothing to the output. The pass
// rewrites the literal tokens flanking each qualifying run before the
// token stream is frozen into the generator tree.
//
// Trimming decisions are made against the original literal texts and
// applied afterwards, so consecutive standalone lines that share a literal
// do not confuse each other's line-boundary detection.

// literalCut records how much to shave off a literal token
type literalCut struct {
	head    int  // bytes removed from the front
	tail    int  // bytes removed from the end
	deleted bool // whole literal removed (inter-tag whitespace)
}

// ElideStandaloneLines returns a token stream with standalone tag lines
// trimmed. qualifies decides which tag tokens are eligible.
func ElideStandaloneLines(tokens []Token, qualifies func(Token) bool, logger *zap.Logger) []Token {
	if logger == nil {
		logger = zap.NewNop()
	}
	cuts := make([]literalCut, len(tokens))

	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		if !tok.IsTag() || !qualifies(tok) {
			i++
			continue
		}

		// Extend the run over further qualifying tags, allowing
		// newline-free whitespace literals between them.
		runEnd := i
		var inner []int
		j := i + 1
		for j < len(tokens) {
			if tokens[j].IsTag() && qualifies(tokens[j]) {
				runEnd = j
				j++
				continue
			}
			if tokens[j].IsLiteral() && isInlineWhitespace(tokens[j].Text) &&
				j+1 < len(tokens) && tokens[j+1].IsTag() && qualifies(tokens[j+1]) {
				inner = append(inner, j)
				runEnd = j + 1
				j += 2
				continue
			}
			break
		}

		prevOK, prevIdx, prevTail, prevNewline := checkLinePrefix(tokens, i)
		nextOK, nextIdx, nextHead, nextNewline := checkLineSuffix(tokens, runEnd)

		if prevOK && nextOK {
			logger.Debug(LogMsgStandaloneElided, zap.Int(LogFieldLine, tok.Position.Line))
			if prevIdx >= 0 {
				cut := prevTail
				// No trailing terminator to remove: consume the
				// preceding one instead so the line vanishes entirely.
				if !nextNewline && prevNewline {
					text := tokens[prevIdx].Text
					cut++ // the newline itself
					if len(text) > prevTail+1 && text[len(text)-prevTail-2] == CharCarriageRet {
						cut++
					}
				}
				cuts[prevIdx].tail = cut
			}
			if nextIdx >= 0 {
				cuts[nextIdx].head = nextHead
			}
			for _, idx := range inner {
				cuts[idx].deleted = true
			}
		}

		i = runEnd + 1
	}

	return applyCuts(tokens, cuts)
}

// checkLinePrefix verifies that nothing but whitespace precedes the run on
// its line. Returns the index of the flanking literal (-1 if the run sits
// at the start of the stream), how many trailing bytes of it belong to the
// run's line, and whether the literal ends that previous line with a
// newline.
func checkLinePrefix(tokens []Token, runStart int) (ok bool, litIdx, tailLen int, hasNewline bool) {
	p := runStart - 1
	if p < 0 {
		return true, -1, 0, false
	}
	if !tokens[p].IsLiteral() {
		return false, -1, 0, false
	}

	text := tokens[p].Text
	if idx := strings.LastIndexByte(text, CharNewline); idx >= 0 {
		tail := text[idx+1:]
		if !isInlineWhitespace(tail) {
			return false, -1, 0, false
		}
		return true, p, len(tail), true
	}

	// No newline in the literal: only acceptable when the literal opens
	// the template and is itself blank.
	if p == 0 && isInlineWhitespace(text) {
		return true, p, len(text), false
	}
	return false, -1, 0, false
}

// checkLineSuffix verifies that nothing but whitespace follows the run up
// to its line terminator (or the end of the template). Returns the index
// of the flanking literal (-1 if none), how many leading bytes of it to
// remove, and whether that removal includes a terminator.
func checkLineSuffix(tokens []Token, runEnd int) (ok bool, litIdx, headLen int, hasNewline bool) {
	n := runEnd + 1
	if n >= len(tokens) || tokens[n].IsEOF() {
		return true, -1, 0, false
	}
	if !tokens[n].IsLiteral() {
		return false, -1, 0, false
	}

	text := tokens[n].Text
	if idx := strings.IndexByte(text, CharNewline); idx >= 0 {
		if !isInlineWhitespace(text[:idx]) {
			return false, -1, 0, false
		}
		return true, n, idx + 1, true
	}

	// No newline: only acceptable when the literal closes the template
	// and is itself blank.
	if isInlineWhitespace(text) && (n+1 >= len(tokens) || tokens[n+1].IsEOF()) {
		return true, n, len(text), false
	}
	return false, -1, 0, false
}

// applyCuts rewrites literal tokens per the recorded cuts, dropping
// literals that end up empty
func applyCuts(tokens []Token, cuts []literalCut) []Token {
	result := make([]Token, 0, len(tokens))
	for i, tok := range tokens {
		cut := cuts[i]
		if !tok.IsLiteral() || (cut.head == 0 && cut.tail == 0 && !cut.deleted) {
			result = append(result, tok)
			continue
		}
		if cut.deleted || cut.head+cut.tail >= len(tok.Text) {
			continue
		}
		tok.Text = tok.Text[cut.head : len(tok.Text)-cut.tail]
		result = append(result, tok)
	}
	return result
}

// isInlineWhitespace reports whether s holds only spaces, tabs, and
// carriage returns (no newlines)
func isInlineWhitespace(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case CharSpace, CharTab, CharCarriageRet:
		default:
			return false
		}
	}
	return true
}
