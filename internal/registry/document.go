package registry

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/containerd/errdefs"
	"github.com/cruciblehq/medusa/internal/server"
)

const (

	// Key holding the ordered server list.
	ServersKey = "server_registry"

	// Key holding the default directory scanned for servers.
	ScanRootKey = "server_directory"
)

// In-memory form of the registry file.
//
// Only the server list is interpreted. Other top-level values are carried as
// raw JSON so they survive a load and save unchanged.
type Document struct {
	fields  map[string]json.RawMessage // Top-level values other than the server list.
	servers []server.Server            // Registered servers, in file order.
}

// Creates an empty document with no servers.
func NewDocument() *Document {
	return &Document{
		fields:  make(map[string]json.RawMessage),
		servers: []server.Server{},
	}
}

// Returns a copy of the server list.
func (d *Document) Servers() []server.Server {
	return slices.Clone(d.servers)
}

// Replaces the server list with a copy of servers.
func (d *Document) SetServers(servers []server.Server) {
	if servers == nil {
		servers = []server.Server{}
	}
	d.servers = slices.Clone(servers)
}

// Removes the first server identifiable by identifier.
//
// Returns the removed server and true, or false if nothing matched.
func (d *Document) RemoveServer(identifier string) (server.Server, bool) {
	i := slices.IndexFunc(d.servers, func(s server.Server) bool {
		return s.IsIdentifiableBy(identifier)
	})
	if i < 0 {
		return server.Server{}, false
	}
	removed := d.servers[i]
	d.servers = slices.Delete(d.servers, i, i+1)
	return removed, true
}

// Returns the raw value stored under key.
//
// The server list is returned in its encoded form.
func (d *Document) Value(key string) (json.RawMessage, bool) {
	if key == ServersKey {
		data, err := json.Marshal(d.servers)
		if err != nil {
			return nil, false
		}
		return data, true
	}
	v, ok := d.fields[key]
	return v, ok
}

// Stores a raw JSON value under key.
//
// The server list cannot be replaced this way, and value must be valid JSON.
// Both cases fail with [errdefs.ErrInvalidArgument].
func (d *Document) SetValue(key string, value json.RawMessage) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", errdefs.ErrInvalidArgument)
	}
	if key == ServersKey {
		return fmt.Errorf("%w: %q is managed by the server commands", errdefs.ErrInvalidArgument, key)
	}
	if !json.Valid(value) {
		return fmt.Errorf("%w: value for %q is not valid JSON", errdefs.ErrInvalidArgument, key)
	}
	d.fields[key] = slices.Clone(value)
	return nil
}

// Returns the sorted top-level keys, including the server list key.
func (d *Document) Keys() []string {
	keys := slices.Collect(maps.Keys(d.fields))
	keys = append(keys, ServersKey)
	slices.Sort(keys)
	return keys
}

// Returns the configured scan root, or "" if none is set.
//
// Values that are not JSON strings are ignored.
func (d *Document) ScanRoot() string {
	raw, ok := d.fields[ScanRootKey]
	if !ok {
		return ""
	}
	var dir string
	if err := json.Unmarshal(raw, &dir); err != nil {
		return ""
	}
	return dir
}

// Implements [json.Marshaler].
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.fields)+1)
	maps.Copy(out, d.fields)

	servers := d.servers
	if servers == nil {
		servers = []server.Server{}
	}
	data, err := json.Marshal(servers)
	if err != nil {
		return nil, err
	}
	out[ServersKey] = data

	return json.Marshal(out)
}

// Implements [json.Unmarshaler].
//
// The server list key is required; a document without it fails with
// [ErrDecode].
func (d *Document) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if fields == nil {
		return fmt.Errorf("%w: document is not an object", ErrDecode)
	}

	raw, ok := fields[ServersKey]
	if !ok {
		return fmt.Errorf("%w: missing %q", ErrDecode, ServersKey)
	}

	var servers []server.Server
	if err := json.Unmarshal(raw, &servers); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, ServersKey, err)
	}
	if servers == nil {
		servers = []server.Server{}
	}

	delete(fields, ServersKey)
	d.fields = fields
	d.servers = servers
	return nil
}
