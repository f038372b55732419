// Parses flags, configures logging, and dispatches medusa commands.
//
// medusa accepts the following global flags:
//
//	-q, --quiet      Suppress informational output.
//	-v, --verbose    Enable verbose output.
//	-d, --debug      Enable debug output.
//	    --registry   Registry file path.
//
// Flags override build-time defaults set via linker flags. After parsing, the
// global logger is reconfigured to reflect the final level and verbosity
// before the selected command runs. Command results are written to standard
// output; log records go to standard error.
package cli
