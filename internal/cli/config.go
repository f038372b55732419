package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/containerd/errdefs"
)

// Represents the 'medusa config' command group.
type ConfigCmd struct {
	Get   ConfigGetCmd   `cmd:"" help:"Print a value from the registry file."`
	Set   ConfigSetCmd   `cmd:"" help:"Store a value in the registry file."`
	Init  ConfigInitCmd  `cmd:"" help:"Create an empty registry file."`
	Where ConfigWhereCmd `cmd:"" help:"Print the registry file location."`
}

// Represents the 'medusa config get' command.
type ConfigGetCmd struct {
	Key string `arg:"" help:"Top-level key, e.g. server_directory."`
}

// Executes the get command.
//
// String values are printed without quotes; other values as JSON.
func (c *ConfigGetCmd) Run(ctx context.Context) error {
	doc, err := openStore().LoadDocument()
	if err != nil {
		return err
	}

	raw, ok := doc.Value(c.Key)
	if !ok {
		return fmt.Errorf("%w: no key named %q", errdefs.ErrNotFound, c.Key)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		fmt.Println(s)
		return nil
	}
	fmt.Println(string(raw))
	return nil
}

// Represents the 'medusa config set' command.
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Top-level key, e.g. server_directory."`
	Value string `arg:"" help:"New value. Valid JSON is stored as is, anything else as a string."`
}

// Executes the set command.
func (c *ConfigSetCmd) Run(ctx context.Context) error {
	store := openStore()
	doc, err := store.LoadDocument()
	if err != nil {
		return err
	}

	if err := doc.SetValue(c.Key, configValue(c.Value)); err != nil {
		return err
	}
	return store.Save(doc)
}

// Interprets a command-line value as JSON, quoting it when it is not.
func configValue(value string) json.RawMessage {
	if json.Valid([]byte(value)) {
		return json.RawMessage(value)
	}
	quoted, _ := json.Marshal(value)
	return quoted
}

// Represents the 'medusa config init' command.
type ConfigInitCmd struct {
	Force bool `short:"f" help:"Overwrite an existing registry file."`
}

// Executes the init command.
func (c *ConfigInitCmd) Run(ctx context.Context) error {
	store := openStore()
	if err := store.Init(c.Force); err != nil {
		if errdefs.IsAlreadyExists(err) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}

	fmt.Printf("Created new registry at %s\n", store.Path())
	return nil
}

// Represents the 'medusa config where' command.
type ConfigWhereCmd struct{}

// Executes the where command.
func (c *ConfigWhereCmd) Run(ctx context.Context) error {
	fmt.Println(openStore().Path())
	return nil
}
