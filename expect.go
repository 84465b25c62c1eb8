// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpull

import "strings"

// expect is the set of token classes grammatically valid at the current
// position of a Tokenizer. More than one class may be valid at once.
type expect uint8

const (
	expectValue  expect = 1 << iota // any value, including "{" and "["
	expectKey                       // an object key (string)
	expectComma                     // ","
	expectColon                     // ":"
	expectCloser                    // "}" or "]", matching the open container

	expectNothing expect = 0 // the top-level value is complete
)

func (e expect) has(f expect) bool { return e&f != 0 }

var expectNames = []struct {
	flag expect
	name string
}{
	{expectValue, "value"},
	{expectKey, "key"},
	{expectComma, `","`},
	{expectColon, `":"`},
	{expectCloser, "closer"},
}

func (e expect) String() string {
	if e == expectNothing {
		return "end of input"
	}
	var ss []string
	for _, n := range expectNames {
		if e.has(n.flag) {
			ss = append(ss, n.name)
		}
	}
	if len(ss) == 1 {
		return ss[0]
	}
	last := len(ss) - 1
	return strings.Join(ss[:last], ", ") + " or " + ss[last]
}
