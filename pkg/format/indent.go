package format

import "strings"

// indentWidth is the number of spaces per nesting level.
const indentWidth = 4

// indentText returns the indentation prefix for the given nesting level.
func indentText(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat(" ", indentWidth*level)
}

// columnSeparator returns the string placed between adjacent items of a
// multi-line list: a line break, the indentation for level, the separator
// token, and a single space. Joining items with it puts every item after
// the first on its own line with a leading separator.
func columnSeparator(level int, sep string) string {
	return "\n" + indentText(level) + sep + " "
}
