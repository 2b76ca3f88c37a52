package util

import "fmt"

// Assert panics when cond is false. It guards invariants whose violation is a
// programming error, never a runtime condition.
func Assert(cond bool) {
	if !cond {
		panic("assert fail")
	}
}

func AssertWithMsg(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintln("Assert Fail:", fmt.Sprintf(format, args...)))
	}
}
