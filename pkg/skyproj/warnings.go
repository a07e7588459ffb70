package skyproj

import "fmt"

// A warningCollector soaks up non-fatal complaints made while building
// a projector. It lives on the stack of Open, so nothing leaks into
// (or depends on) process-wide state.
type warningCollector struct {
	msgs []string
}

func (wc *warningCollector)Warnf(format string, args ...interface{}) {
	wc.msgs = append(wc.msgs, fmt.Sprintf(format, args...))
}

func (wc *warningCollector)Messages() []string { return wc.msgs }
