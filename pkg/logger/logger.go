// Package logger fans log calls out to the configured backends. Packages
// log through a Scope named after their subsystem ("editor", "queue",
// "store"), which backends render as a prefix.
package logger

import "sync"

// LoggerInstance defines the interface for logging backends.
type LoggerInstance interface {
	Log(message string, keyvals ...any)
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

// Prefixer is implemented by backends that render a subsystem prefix
// natively. Other backends get the prefix folded into the message.
type Prefixer interface {
	WithPrefix(prefix string) LoggerInstance
}

// Logger holds the backends and their per-subsystem variants.
type Logger struct {
	instances []LoggerInstance

	mu     sync.Mutex
	scoped map[string][]LoggerInstance
}

var singleton *Logger

// Init installs the backends. Until it is called every logging function is
// a no-op, which keeps packages quiet under test.
func Init(instances ...LoggerInstance) {
	singleton = &Logger{
		instances: instances,
		scoped:    make(map[string][]LoggerInstance),
	}
}

func (l *Logger) backends(prefix string) []LoggerInstance {
	if prefix == "" {
		return l.instances
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.scoped[prefix]; ok {
		return s
	}
	s := make([]LoggerInstance, len(l.instances))
	for i, inst := range l.instances {
		if p, ok := inst.(Prefixer); ok {
			s[i] = p.WithPrefix(prefix)
		} else {
			s[i] = prefixed{inner: inst, prefix: prefix + ": "}
		}
	}
	l.scoped[prefix] = s
	return s
}

type level func(LoggerInstance, string, ...any)

func dispatch(prefix string, write level, message string, keyvals []any) {
	l := singleton
	if l == nil {
		return
	}
	for _, inst := range l.backends(prefix) {
		write(inst, message, keyvals...)
	}
}

// Scope logs on behalf of one subsystem. The zero Scope logs unprefixed.
type Scope struct {
	prefix string
}

// WithPrefix returns the Scope for a subsystem. Backends are resolved at
// call time, so package-level scopes created before Init work.
func WithPrefix(prefix string) Scope {
	return Scope{prefix: prefix}
}

func (s Scope) Log(message string, keyvals ...any) {
	dispatch(s.prefix, LoggerInstance.Log, message, keyvals)
}

func (s Scope) Debug(message string, keyvals ...any) {
	dispatch(s.prefix, LoggerInstance.Debug, message, keyvals)
}

func (s Scope) Info(message string, keyvals ...any) {
	dispatch(s.prefix, LoggerInstance.Info, message, keyvals)
}

func (s Scope) Warn(message string, keyvals ...any) {
	dispatch(s.prefix, LoggerInstance.Warn, message, keyvals)
}

func (s Scope) Error(message string, keyvals ...any) {
	dispatch(s.prefix, LoggerInstance.Error, message, keyvals)
}

// Fatal logs and terminates the program when a backend does so.
func (s Scope) Fatal(message string, keyvals ...any) {
	dispatch(s.prefix, LoggerInstance.Fatal, message, keyvals)
}

var root Scope

func Log(message string, keyvals ...any)   { root.Log(message, keyvals...) }
func Debug(message string, keyvals ...any) { root.Debug(message, keyvals...) }
func Info(message string, keyvals ...any)  { root.Info(message, keyvals...) }
func Warn(message string, keyvals ...any)  { root.Warn(message, keyvals...) }
func Error(message string, keyvals ...any) { root.Error(message, keyvals...) }
func Fatal(message string, keyvals ...any) { root.Fatal(message, keyvals...) }

// prefixed folds the prefix into the message for backends without native
// prefix support.
type prefixed struct {
	inner  LoggerInstance
	prefix string
}

func (p prefixed) Log(m string, kv ...any)   { p.inner.Log(p.prefix+m, kv...) }
func (p prefixed) Debug(m string, kv ...any) { p.inner.Debug(p.prefix+m, kv...) }
func (p prefixed) Info(m string, kv ...any)  { p.inner.Info(p.prefix+m, kv...) }
func (p prefixed) Warn(m string, kv ...any)  { p.inner.Warn(p.prefix+m, kv...) }
func (p prefixed) Error(m string, kv ...any) { p.inner.Error(p.prefix+m, kv...) }
func (p prefixed) Fatal(m string, kv ...any) { p.inner.Fatal(p.prefix+m, kv...) }
