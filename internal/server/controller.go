package server

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/containerd/errdefs"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Default arguments passed to the server jar.
var jarArgs = []string{"nogui"}

// Per-type capability for a registered server.
//
// A controller knows how the server in its directory is launched. It does not
// start or stop processes; [Controller.Launch] only describes the process so
// that a supervisor can run it.
type Controller interface {

	// Returns the server the controller was created for.
	Server() Server

	// Returns the startup scripts found in the server directory.
	Scripts() ([]string, error)

	// Describes the process that starts the server.
	//
	// The returned process has its working directory set to the server
	// directory. Fails with [errdefs.ErrNotFound] when neither a server jar
	// nor a startup script can be found.
	Launch() (*specs.Process, error)
}

// Builds a controller for a server.
type NewControllerFunc func(Server) (Controller, error)

// Static controller table. [NotAServer] has no entry.
var controllers = map[Type]NewControllerFunc{
	Vanilla: newController(Vanilla, false),
	Forge:   newController(Forge, true),
	Fabric:  newController(Fabric, false),
	Spigot:  newController(Spigot, false),
	Paper:   newController(Paper, false),
}

// Returns a copy of the controller table keyed by server type.
func Controllers() map[Type]NewControllerFunc {
	return maps.Clone(controllers)
}

// Launches a server either through its vendor jar or a startup script.
type controller struct {
	srv          Server // Server being controlled.
	preferScript bool   // Whether startup scripts take precedence over jars.
}

// Returns a constructor that only accepts servers of type t.
//
// Forge installs ship a run script that sets up the module path, so Forge
// controllers prefer scripts. The other types prefer running the jar.
func newController(t Type, preferScript bool) NewControllerFunc {
	return func(srv Server) (Controller, error) {
		if srv.Type != t {
			return nil, fmt.Errorf("%w: expected %s server but got %s", errdefs.ErrInvalidArgument, t, srv.Type)
		}
		return &controller{srv: srv, preferScript: preferScript}, nil
	}
}

func (c *controller) Server() Server {
	return c.srv
}

func (c *controller) Scripts() ([]string, error) {
	return FindStartupScripts(c.srv.Path)
}

func (c *controller) Launch() (*specs.Process, error) {
	scripts, err := c.Scripts()
	if err != nil {
		return nil, err
	}
	script := pickScript(scripts)

	jar, err := c.jar()
	if err != nil {
		return nil, err
	}

	switch {
	case c.preferScript && script != "":
		return c.scriptProcess(script), nil
	case jar != "":
		return c.jarProcess(jar), nil
	case script != "":
		return c.scriptProcess(script), nil
	}

	return nil, fmt.Errorf("%w: no server jar or startup script in %s", errdefs.ErrNotFound, c.srv.Path)
}

// Returns the last jar in the server directory whose name classifies as the
// controller's type, or "" if there is none.
func (c *controller) jar() (string, error) {
	entries, err := os.ReadDir(c.srv.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrController, err)
	}

	var jar string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if t, ok := jarVerdict(e.Name()); ok && t == c.srv.Type {
			jar = e.Name()
		}
	}
	return jar, nil
}

func (c *controller) jarProcess(jar string) *specs.Process {
	args := append([]string{"java", "-jar", jar}, jarArgs...)
	return &specs.Process{
		Args:     args,
		Cwd:      c.srv.Path,
		Terminal: true,
	}
}

func (c *controller) scriptProcess(script string) *specs.Process {
	path := filepath.Join(c.srv.Path, script)

	var args []string
	if strings.HasSuffix(script, ".bat") {
		args = []string{"cmd", "/c", path}
	} else {
		args = []string{"/bin/sh", path}
	}

	return &specs.Process{
		Args:     args,
		Cwd:      c.srv.Path,
		Terminal: true,
	}
}

// Picks the script matching the host platform, falling back to the first.
func pickScript(scripts []string) string {
	if len(scripts) == 0 {
		return ""
	}
	ext := ".sh"
	if runtime.GOOS == "windows" {
		ext = ".bat"
	}
	for _, s := range scripts {
		if strings.HasSuffix(s, ext) {
			return s
		}
	}
	return scripts[0]
}
