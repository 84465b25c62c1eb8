// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpull

import (
	"errors"
	"strings"

	"github.com/creachadair/jpull/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.AppendQuote(nil, mem.S(src))) }

// Unquote decodes a JSON string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// Unpaired surrogate escapes and invalid UTF-8 are replaced by the Unicode
// replacement rune. Unquote reports an error for an unknown or incomplete
// escape sequence and for an unescaped control character.
func Unquote(src string) (string, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return "", errors.New("missing quotations")
	}
	dec, err := escape.Unquote(mem.S(src[1 : len(src)-1]))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}
