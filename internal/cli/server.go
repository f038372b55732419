package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/containerd/errdefs"
	"github.com/cruciblehq/medusa/internal"
	"github.com/cruciblehq/medusa/internal/manager"
	"github.com/cruciblehq/medusa/internal/server"
)

// Represents the 'medusa server' command group.
type ServerCmd struct {
	Create   ServerCreateCmd   `cmd:"" help:"Register an existing server directory."`
	Remove   ServerRemoveCmd   `cmd:"" help:"Stop tracking a server. Its files are kept."`
	List     ServerListCmd     `cmd:"" help:"List registered servers."`
	Scan     ServerScanCmd     `cmd:"" help:"Register servers found in the server directory."`
	Set      ServerSetCmd      `cmd:"" help:"Change the alias, path, or type of a server."`
	Classify ServerClassifyCmd `cmd:"" help:"Show how a directory would be classified."`
}

// Represents the 'medusa server create' command.
type ServerCreateCmd struct {
	Path  string `arg:"" help:"Path to the server directory." type:"path"`
	Alias string `short:"a" help:"Nickname used to refer to the server."`
	Type  string `short:"t" help:"Type of server (vanilla, forge, fabric, spigot, paper). Detected when omitted."`
}

// Executes the create command.
func (c *ServerCreateCmd) Run(ctx context.Context) error {
	t := server.NotAServer
	if c.Type != "" {
		parsed, err := server.ParseType(c.Type)
		if err != nil {
			return err
		}
		t = parsed
	}

	m, err := openManager("")
	if err != nil {
		return err
	}

	srv, err := m.Create(c.Path, t, c.Alias)
	if err != nil {
		return err
	}

	fmt.Printf("Registered %s server %s\n", srv.Type, srv.DisplayName())
	return nil
}

// Represents the 'medusa server remove' command.
type ServerRemoveCmd struct {
	Identifier string `arg:"" help:"Alias, path, or directory name of the server."`
}

// Executes the remove command.
func (c *ServerRemoveCmd) Run(ctx context.Context) error {
	m, err := openManager("")
	if err != nil {
		return err
	}
	if err := m.Deregister(c.Identifier); err != nil {
		return err
	}

	fmt.Printf("Removed %s\n", c.Identifier)
	return nil
}

// Represents the 'medusa server list' command.
type ServerListCmd struct{}

// Executes the list command.
func (c *ServerListCmd) Run(ctx context.Context) error {
	m, err := openManager("")
	if err != nil {
		return err
	}
	return writeServerTable(os.Stdout, m.List(), m.ScanRoot())
}

// Writes servers as an aligned table.
//
// Paths inside root are shown relative to it.
func writeServerTable(w io.Writer, servers []server.Server, root string) error {
	if len(servers) == 0 {
		_, err := fmt.Fprintln(w, "No registered servers")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALIAS\tPATH\tTYPE")
	for _, srv := range servers {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", srv.Alias, displayPath(srv.Path, root), srv.Type)
	}
	return tw.Flush()
}

func displayPath(path, root string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// Represents the 'medusa server scan' command.
type ServerScanCmd struct {
	Dir string `help:"Directory to scan instead of the configured server directory." placeholder:"DIR" type:"path"`
}

// Executes the scan command.
func (c *ServerScanCmd) Run(ctx context.Context) error {
	m, err := openManager(c.Dir)
	if err != nil {
		return err
	}

	verbosity := 1
	if internal.IsQuiet() {
		verbosity = 0
	}

	n, err := m.Scan(manager.ScanOptions{Verbosity: verbosity})
	if err != nil {
		return err
	}

	if n > 0 {
		fmt.Printf("Found %d new servers\n", n)
	} else {
		fmt.Println("Didn't find any new servers")
	}
	return nil
}

// Represents the 'medusa server set' command.
type ServerSetCmd struct {
	Identifier string `arg:"" help:"Alias, path, or directory name of the server."`
	Property   string `arg:"" enum:"alias,path,type" help:"Property to change (alias, path, type)."`
	Value      string `arg:"" help:"New value. An empty alias clears it."`
}

// Executes the set command.
func (c *ServerSetCmd) Run(ctx context.Context) error {
	m, err := openManager("")
	if err != nil {
		return err
	}

	srv, ok := m.Get(c.Identifier)
	if !ok {
		return fmt.Errorf("%w: no server %q", errdefs.ErrNotFound, c.Identifier)
	}

	updated, err := applyProperty(srv, c.Property, c.Value)
	if err != nil {
		return err
	}
	if err := m.Update(c.Identifier, updated); err != nil {
		return err
	}

	fmt.Printf("Updated %s\n", updated.DisplayName())
	return nil
}

// Returns a copy of srv with property set to value.
func applyProperty(srv server.Server, property, value string) (server.Server, error) {
	switch property {
	case "alias":
		srv.Alias = value
	case "path":
		abs, err := filepath.Abs(value)
		if err != nil {
			return srv, err
		}
		srv.Path = abs
	case "type":
		t, err := server.ParseType(value)
		if err != nil {
			return srv, err
		}
		srv.Type = t
	default:
		return srv, fmt.Errorf("unknown property %q", property)
	}
	return srv, nil
}

// Represents the 'medusa server classify' command.
type ServerClassifyCmd struct {
	Dir string `arg:"" help:"Directory to classify." type:"existingdir"`
}

// Executes the classify command.
//
// Does not require an initialized registry.
func (c *ServerClassifyCmd) Run(ctx context.Context) error {
	s, err := server.Classifications(c.Dir)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "jar\t%s\n", s.Jar)
	fmt.Fprintf(tw, "descriptor\t%s\n", s.Descriptor)
	fmt.Fprintf(tw, "result\t%s\n", s.Resolve())
	return tw.Flush()
}
