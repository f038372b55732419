package server

import (
	"fmt"
	"strings"

	"github.com/containerd/errdefs"
)

// Kind of server software installed in a directory.
//
// The zero value is [NotAServer]. Types serialize as their symbolic names
// (e.g. "FORGE") in JSON documents.
type Type int

const (
	NotAServer Type = iota // Directory does not look like a server.
	Vanilla                // Mojang server jar.
	Forge                  // Forge mod loader.
	Fabric                 // Fabric mod loader.
	Spigot                 // Spigot plugin server.
	Paper                  // Paper plugin server.
)

var typeNames = [...]string{
	NotAServer: "NOT_A_SERVER",
	Vanilla:    "VANILLA",
	Forge:      "FORGE",
	Fabric:     "FABRIC",
	Spigot:     "SPIGOT",
	Paper:      "PAPER",
}

// Returns every type, [NotAServer] first.
func Types() []Type {
	return []Type{NotAServer, Vanilla, Forge, Fabric, Spigot, Paper}
}

// Returns the symbolic name of the type.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Whether the type is one of the declared constants.
func (t Type) Valid() bool {
	return t >= 0 && int(t) < len(typeNames)
}

// Parses a type name.
//
// Matching ignores case, and dashes are accepted in place of underscores, so
// "forge", "FORGE" and "not-a-server" all parse. Unknown names fail with
// [errdefs.ErrInvalidArgument].
func ParseType(s string) (Type, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "-", "_")
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return NotAServer, fmt.Errorf("%w: unknown server type %q", errdefs.ErrInvalidArgument, s)
}

// Implements [encoding.TextMarshaler].
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: invalid server type %d", errdefs.ErrInvalidArgument, int(t))
	}
	return []byte(t.String()), nil
}

// Implements [encoding.TextUnmarshaler].
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
