package value

import (
	"fmt"
	"strings"
)

// Field is one named entry of a dumped object.
type Field struct {
	Name  string
	Value Value
}

// Dumpable is implemented by host objects that expose fields to the dump command.
type Dumpable interface {
	DumpName() string
	Fields() []Field
}

// Dump renders v as indented lines. Nested dumpables are expanded up to depth.
func Dump(v Value, depth int) []string {
	var lines []string
	dumpInto(&lines, "", v, depth)
	return lines
}

func dumpInto(lines *[]string, indent string, v Value, depth int) {
	h, ok := v.Handle()
	d, dumpable := h.(Dumpable)
	if !ok || !dumpable {
		*lines = append(*lines, indent+fmt.Sprintf("%s (%s)", v.String(), v.Type()))
		return
	}
	*lines = append(*lines, indent+d.DumpName()+" {")
	inner := indent + strings.Repeat(" ", 2)
	for _, f := range d.Fields() {
		if fh, ok := f.Value.Handle(); ok && depth > 0 {
			if _, nested := fh.(Dumpable); nested {
				*lines = append(*lines, inner+f.Name+":")
				dumpInto(lines, inner+"  ", f.Value, depth-1)
				continue
			}
		}
		*lines = append(*lines, fmt.Sprintf("%s%s: %s (%s)", inner, f.Name, f.Value.String(), f.Value.Type()))
	}
	*lines = append(*lines, indent+"}")
}
