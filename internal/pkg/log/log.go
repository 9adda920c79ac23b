// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

const contextKeyRequestID = "request_id"

var (
	mu     sync.Mutex
	output io.Writer = os.Stdout

	infoLabel  = color.New(color.FgWhite, color.BgGreen).SprintFunc()
	warnLabel  = color.New(color.FgBlack, color.BgYellow).SprintFunc()
	errorLabel = color.New(color.FgRed).SprintFunc()
)

// SetOutput redirects log lines, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// WithRequestID adds request ID to context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// RequestID returns the request ID stored on ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

func write(label, requestID, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	if requestID != "" {
		msg = fmt.Sprintf("[req_id=%s] %s", requestID, msg)
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(output, "%s %s\n", label, msg)
}

// Info log information
func Info(format string, a ...interface{}) {
	write(infoLabel("[INFO] "), "", format, a...)
}

// InfoWithContext logs information with the request ID from ctx
func InfoWithContext(ctx context.Context, format string, a ...interface{}) {
	write(infoLabel("[INFO] "), RequestID(ctx), format, a...)
}

// Warn log warning
func Warn(format string, a ...interface{}) {
	write(warnLabel("[WARN] "), "", format, a...)
}

// WarnWithContext logs a warning with the request ID from ctx
func WarnWithContext(ctx context.Context, format string, a ...interface{}) {
	write(warnLabel("[WARN] "), RequestID(ctx), format, a...)
}

// Error log error
func Error(format string, a ...interface{}) {
	write(errorLabel("[Error]"), "", format, a...)
}

// ErrorWithContext logs an error with the request ID from ctx
func ErrorWithContext(ctx context.Context, format string, a ...interface{}) {
	write(errorLabel("[Error]"), RequestID(ctx), format, a...)
}

// InfoStruct dumps values in detail. Used when DEBUG is on.
func InfoStruct(a ...interface{}) {
	write(infoLabel("[DUMP] "), "", "%s", spew.Sdump(a...))
}
