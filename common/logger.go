package common

import (
	"fmt"
)

type Logger interface {
	Log(format string, args ...interface{})
}

type logger struct {
	component string
}

func NewLogger(component string) *logger {
	return &logger{
		component: component,
	}
}

func (l *logger) Log(format string, args ...interface{}) {
	fmt.Printf("[%s] %s\n", l.component, fmt.Sprintf(format, args...))
}
