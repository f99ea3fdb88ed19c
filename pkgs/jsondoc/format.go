package jsondoc

import "github.com/tidwall/pretty"

// layout puts every object member and array element on its own line. Width 0
// turns off pretty's single line arrays.
var layout = &pretty.Options{
	Width:  0,
	Indent: "  ",
}

// Format re-indents data by two spaces with `"key": value` separators. Keys
// keep their order and strings and numbers are copied as written. The output
// ends with a newline.
func Format(data []byte) []byte {
	return pretty.PrettyOptions(data, layout)
}
