package byte90

import (
	"fmt"
)

type Logger interface {
	Debug(msg string)
	Debugf(format string, v ...any)
	Info(msg string)
	Infof(format string, v ...any)
}

// printlnLogger is a bare-bones logger that outputs to whatever println is
// hooked up to. It has no concept of levels and will output everything at
// every level.
type printlnLogger struct{}

func (printlnLogger) Debug(msg string) {
	println(msg)
}

func (printlnLogger) Debugf(format string, v ...any) {
	println(fmt.Sprintf(format, v...))
}

func (printlnLogger) Info(msg string) {
	println(msg)
}

func (printlnLogger) Infof(format string, v ...any) {
	println(fmt.Sprintf(format, v...))
}
