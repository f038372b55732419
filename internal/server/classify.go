package server

import (
	"fmt"
	"os"
	"strings"
)

// Vendor tokens in precedence order. The first token found in a file name
// decides the verdict for that file.
var (
	jarTokens = []vendorToken{
		{"spigot", Spigot},
		{"forge", Forge},
		{"paper", Paper},
		{"fabric", Fabric},
	}
	descriptorTokens = []vendorToken{
		{"spigot", Spigot},
		{"forge", Forge},
		{"paper", Paper},
	}
)

type vendorToken struct {
	token string
	typ   Type
}

// Verdicts of the two classification strategies for one directory.
type Strategies struct {
	Jar        Type // Verdict derived from .jar file names.
	Descriptor Type // Verdict derived from .yml and .yaml file names.
}

// Combines the two verdicts into one.
//
// Agreement wins. On disagreement the jar verdict is preferred unless it is
// [NotAServer], in which case the descriptor verdict is returned.
func (s Strategies) Resolve() Type {
	if s.Jar == s.Descriptor {
		return s.Jar
	}
	if s.Jar != NotAServer {
		return s.Jar
	}
	return s.Descriptor
}

// Infers the type of the server installed in dir.
//
// Only entries directly inside dir are inspected; subdirectories are
// ignored. Failure to read dir is returned wrapped in [ErrClassify].
func Classify(dir string) (Type, error) {
	s, err := Classifications(dir)
	if err != nil {
		return NotAServer, err
	}
	return s.Resolve(), nil
}

// Runs both classification strategies over the top level of dir.
//
// Files are visited in lexical order. When several files qualify for the
// same strategy, the last one decides that strategy's verdict.
func Classifications(dir string) (Strategies, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Strategies{}, fmt.Errorf("%w: %w", ErrClassify, err)
	}

	var s Strategies
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if t, ok := jarVerdict(name); ok {
			s.Jar = t
		}
		if t, ok := descriptorVerdict(name); ok {
			s.Descriptor = t
		}
	}
	return s, nil
}

// Every jar qualifies. Jars without a vendor token are vanilla.
func jarVerdict(name string) (Type, bool) {
	name = strings.ToLower(name)
	if !strings.HasSuffix(name, ".jar") {
		return NotAServer, false
	}
	if t, ok := matchToken(name, jarTokens); ok {
		return t, true
	}
	return Vanilla, true
}

// Only descriptors carrying a vendor token qualify.
func descriptorVerdict(name string) (Type, bool) {
	name = strings.ToLower(name)
	if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
		return NotAServer, false
	}
	return matchToken(name, descriptorTokens)
}

func matchToken(name string, tokens []vendorToken) (Type, bool) {
	for _, vt := range tokens {
		if strings.Contains(name, vt.token) {
			return vt.typ, true
		}
	}
	return NotAServer, false
}
