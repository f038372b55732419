package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/cruciblehq/medusa/internal"
	"github.com/cruciblehq/medusa/internal/manager"
	"github.com/cruciblehq/medusa/internal/paths"
	"github.com/cruciblehq/medusa/internal/registry"
)

// Represents the root command for medusa.
var RootCmd struct {
	Quiet    bool       `short:"q" help:"Suppress informational output."`
	Verbose  bool       `short:"v" help:"Enable verbose output."`
	Debug    bool       `short:"d" help:"Enable debug output."`
	Registry string     `help:"Override the registry file location." placeholder:"PATH" type:"path"`
	Server   ServerCmd  `cmd:"" help:"Manage registered servers."`
	Run      RunCmd     `cmd:"" help:"Show how a server is launched."`
	Config   ConfigCmd  `cmd:"" help:"Inspect and edit the registry file."`
	Version  VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Manage local Minecraft server installations.\n\nKeeps a registry of server directories and reconciles it with the filesystem."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	internal.SetDebug(RootCmd.Debug || internal.IsDebug())
	internal.SetQuiet(RootCmd.Quiet || internal.IsQuiet())
	internal.SetVerbose(RootCmd.Verbose || internal.IsVerbose())

	slog.SetDefault(NewLogger(os.Stderr))
}

// Returns the registry store selected by flags, environment, or default.
func openStore() *registry.Store {
	path := RootCmd.Registry
	if path == "" {
		path = paths.Registry()
	}
	return registry.New(path)
}

// Opens a manager over the selected registry.
//
// scanRoot overrides the registry's server_directory when non-empty.
func openManager(scanRoot string) (*manager.Manager, error) {
	return manager.Open(openStore(), manager.Options{
		ScanRoot:        scanRoot,
		DefaultScanRoot: paths.Servers(),
	})
}
