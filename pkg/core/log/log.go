// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package log wraps the log/slog package-level logger with functions
// which take a context and statically typed slog.Attr arguments, so
// simple values are logged without allocating "any" boxes.
//
// Attributes which describe a whole request (e.g., the caller user id)
// may be attached to a context once with WithAttrs. The Debug, Info,
// Warn, and Error functions log them before the per-call attributes.
package log

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

type attrsKey struct{}

// WithAttrs returns a copy of `ctx` which carries `attrs` in addition
// to the attributes of its ancestors.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	prev := Attrs(ctx)
	all := make([]slog.Attr, 0, len(prev)+len(attrs))
	all = append(all, prev...)
	all = append(all, attrs...)
	return context.WithValue(ctx, attrsKey{}, all)
}

// Attrs returns the attributes which are attached to `ctx`.
func Attrs(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	return attrs
}

func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelDebug, msg, attrs)
}

func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelInfo, msg, attrs)
}

func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelWarn, msg, attrs)
}

func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, slog.LevelError, msg, attrs)
}

// logAttrs must be called directly by the exported functions above,
// so the reported source line belongs to their caller.
func logAttrs(
	ctx context.Context, level slog.Level, msg string, attrs []slog.Attr,
) {
	l := slog.Default()
	if !l.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // Callers, logAttrs, Debug/Info/...
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.AddAttrs(Attrs(ctx)...)
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
