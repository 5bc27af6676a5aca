package logger

import "go.uber.org/zap"

// Canonical field helpers so every package logs the same keys.

func Path(p string) zap.Field            { return zap.String("path", p) }
func Component(name string) zap.Field    { return zap.String("component", name) }
func Key(k string) zap.Field             { return zap.String("key", k) }
func Pattern(p string) zap.Field         { return zap.String("pattern", p) }
func BuildID(id string) zap.Field        { return zap.String("build_id", id) }
func File(p string) zap.Field            { return zap.String("file", p) }
func Count(name string, n int) zap.Field { return zap.Int(name, n) }
