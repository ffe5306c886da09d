package session

import (
	"errors"
	xos "os"
)

var errExpired = errors.New("session expired")

func main() {
	xos.Exit(1) // want "os.Exit\\(\\) outside of main: return an error instead"
}

func Logout(expired bool) error {
	if expired {
		xos.Exit(1) // want "os.Exit\\(\\) outside of main: return an error instead"
	}
	return errExpired
}

type os struct{}

func (os) Exit(int) {}

func Local() {
	var o os
	o.Exit(1)
}
