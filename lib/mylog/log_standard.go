package mylog

import (
	"context"
	"fmt"
	"os"

	"github.com/MarcGrol/bogrelay/lib/mycontext"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newStandardLogger
	}
}

type standardLogger struct {
	componentName string
}

func newStandardLogger(componentName string) Logger {
	return standardLogger{
		componentName: componentName,
	}
}

func (l standardLogger) Log(c context.Context, traceLabel string, severity Severity, format string, a ...any) {
	fmt.Fprintf(os.Stderr, "%s - %s - %s - %s - %s\n", l.componentName, mycontext.TraceFromContext(c), traceLabel, string(severity), fmt.Sprintf(format, a...))
}
