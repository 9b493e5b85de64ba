// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: highlight/highlight.go
// Summary: Syntax-highlighted TextBuffer construction.
//
// Tokenizes source with Chroma and appends one styled chunk per token to a
// TextBuffer. The lexer is picked from the filename when possible; otherwise
// language classification falls back to go-enry's content classifier and
// finally to Chroma's own analysis.

// Package highlight fills text buffers with syntax-colored source code.
package highlight

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"

	"github.com/framegrace/texelcore/buffer"
	"github.com/framegrace/texelcore/cell"
)

// DefaultStyle is used when no style name is given.
const DefaultStyle = "catppuccin-mocha"

// Write tokenizes source and appends it, styled, to tb. filename guides
// lexer selection and may be empty; styleName picks the Chroma style and
// falls back to DefaultStyle. Returns the number of codepoints appended.
func Write(tb *buffer.TextBuffer, source, filename, styleName string) (int, error) {
	if source == "" {
		return 0, nil
	}

	style := chromaStyle(styleName)
	lexer := chroma.Coalesce(pickLexer(filename, source))

	tokens, err := chroma.Tokenise(lexer, nil, source)
	if err != nil {
		return 0, fmt.Errorf("highlight: tokenize: %w", err)
	}

	base := style.Get(chroma.Text)
	total := 0
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		entry := style.Get(tok.Type)
		fg := entryColor(entry, base)
		attr := entryAttr(entry)
		total += tb.WriteChunk(tok.Value, &fg, nil, &attr)
	}
	return total, nil
}

// chromaStyle resolves a style name, falling back to the default.
func chromaStyle(name string) *chroma.Style {
	if name == "" {
		name = DefaultStyle
	}
	return styles.Get(name)
}

// pickLexer selects a lexer by filename, then by enry's content classifier,
// then by Chroma's own content analysis.
func pickLexer(filename, source string) chroma.Lexer {
	if filename != "" {
		if l := lexers.Match(filename); l != nil {
			return l
		}
	}
	if lang := enry.GetLanguage(filename, []byte(source)); lang != "" && lang != enry.OtherLanguage {
		if l := lexers.Get(lang); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(source); l != nil {
		return l
	}
	return lexers.Fallback
}

func entryColor(entry chroma.StyleEntry, base chroma.StyleEntry) cell.RGBA {
	colour := entry.Colour
	if !colour.IsSet() {
		colour = base.Colour
	}
	if !colour.IsSet() {
		return cell.White
	}
	return cell.RGBA{
		R: float32(colour.Red()) / 255,
		G: float32(colour.Green()) / 255,
		B: float32(colour.Blue()) / 255,
		A: 1,
	}
}

func entryAttr(entry chroma.StyleEntry) cell.Attr {
	var attr cell.Attr
	if entry.Bold == chroma.Yes {
		attr |= cell.AttrBold
	}
	if entry.Italic == chroma.Yes {
		attr |= cell.AttrItalic
	}
	if entry.Underline == chroma.Yes {
		attr |= cell.AttrUnderline
	}
	return attr
}
