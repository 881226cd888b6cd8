/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"strings"
	"unicode"
)

// statementSplitter walks a migration script and cuts it at top-level semicolons.
// Quoted strings, comments and dollar-quoted bodies never end a statement.
type statementSplitter struct {
	src     string
	pos     int
	current strings.Builder
	out     []string
}

// splitSQLStatements returns the non-empty statements of content without their
// terminating semicolons. Comments are dropped.
func splitSQLStatements(content string) []string {
	s := &statementSplitter{src: content}

	for s.pos < len(s.src) {
		switch {
		case s.hasPrefix("--"):
			s.skipLineComment()
		case s.hasPrefix("/*"):
			s.skipBlockComment()
		case s.src[s.pos] == '\'' || s.src[s.pos] == '"':
			s.copyQuoted(s.src[s.pos])
		case s.src[s.pos] == '$':
			if tag := dollarTag(s.src[s.pos:]); tag != "" {
				s.copyDollarQuoted(tag)
				continue
			}

			s.copyByte()
		case s.src[s.pos] == ';':
			s.flush()
			s.pos++
		default:
			s.copyByte()
		}
	}

	s.flush()

	return s.out
}

func (s *statementSplitter) hasPrefix(p string) bool {
	return strings.HasPrefix(s.src[s.pos:], p)
}

func (s *statementSplitter) copyByte() {
	s.current.WriteByte(s.src[s.pos])
	s.pos++
}

func (s *statementSplitter) skipLineComment() {
	end := strings.IndexByte(s.src[s.pos:], '\n')
	if end < 0 {
		s.pos = len(s.src)
		return
	}

	// keep the newline so tokens on either side stay separated
	s.pos += end
	s.copyByte()
}

func (s *statementSplitter) skipBlockComment() {
	end := strings.Index(s.src[s.pos+2:], "*/")
	if end < 0 {
		s.pos = len(s.src)
		return
	}

	s.pos += end + 4
	s.current.WriteByte(' ')
}

// copyQuoted copies a quoted literal. A doubled quote is an escaped quote.
func (s *statementSplitter) copyQuoted(quote byte) {
	s.copyByte()

	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		s.copyByte()

		if ch != quote {
			continue
		}

		if s.pos < len(s.src) && s.src[s.pos] == quote {
			s.copyByte()
			continue
		}

		return
	}
}

func (s *statementSplitter) copyDollarQuoted(tag string) {
	s.current.WriteString(tag)
	s.pos += len(tag)

	end := strings.Index(s.src[s.pos:], tag)
	if end < 0 {
		s.current.WriteString(s.src[s.pos:])
		s.pos = len(s.src)

		return
	}

	s.current.WriteString(s.src[s.pos : s.pos+end+len(tag)])
	s.pos += end + len(tag)
}

func (s *statementSplitter) flush() {
	if stmt := strings.TrimSpace(s.current.String()); stmt != "" {
		s.out = append(s.out, stmt)
	}

	s.current.Reset()
}

// dollarTag returns the opening tag ($$ or $name$) at the start of content, or "".
func dollarTag(content string) string {
	for i := 1; i < len(content); i++ {
		ch := rune(content[i])

		if ch == '$' {
			return content[:i+1]
		}

		if ch != '_' && !unicode.IsLetter(ch) && (i == 1 || !unicode.IsDigit(ch)) {
			return ""
		}
	}

	return ""
}

// migrationVersion is the leading numeric component of a migration file name.
func migrationVersion(filename string) string {
	version, _, _ := strings.Cut(filename, "_")
	return version
}
