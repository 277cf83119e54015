package sl

import (
	"log/slog"
)

// Err returns an attribute for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Module returns an attribute naming the component a logger belongs to.
func Module(mod string) slog.Attr {
	return slog.String("mod", mod)
}

// Secret returns an attribute with the value masked except its edges.
func Secret(key, value string) slog.Attr {
	if len(value) <= 6 {
		return slog.String(key, "***")
	}
	return slog.String(key, value[:3]+"***"+value[len(value)-3:])
}
