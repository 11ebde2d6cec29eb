// Package xlog provides the small structured logger used across this
// module. go-ethereum's own "log" package (github.com/ethereum/go-ethereum/
// log) is called the same way -- log.Info(msg, "key", value, ...) -- but its
// implementation sources were not part of the retrieval pack (only its
// tests were), and no other importable structured logger appears anywhere
// in the examples. Rather than fabricate a dependency on an unretrieved
// package, this is a thin wrapper around the standard library's log/slog
// with the same call shape, so call sites read exactly like go-ethereum's.
package xlog

import (
	"log/slog"
	"os"
)

var root = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

// SetDefault replaces the package-level logger, mirroring go-ethereum's
// log.SetDefault / log.Root pattern (see log/root_test.go in the retrieved
// example).
func SetDefault(l *slog.Logger) { root = l }

func Debug(msg string, kv ...interface{}) { root.Debug(msg, kv...) }
func Info(msg string, kv ...interface{})  { root.Info(msg, kv...) }
func Warn(msg string, kv ...interface{})  { root.Warn(msg, kv...) }
func Error(msg string, kv ...interface{}) { root.Error(msg, kv...) }
