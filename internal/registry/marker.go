package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cruciblehq/medusa/internal"
	"github.com/cruciblehq/medusa/internal/paths"
	"github.com/cruciblehq/medusa/internal/server"
	"github.com/google/uuid"
)

// Contents of the marker file written into a managed server directory.
type Marker struct {
	Metadata MarkerMetadata `json:"metadata"`
}

// Describes the server that owns a directory.
type MarkerMetadata struct {
	Alias        *string     `json:"alias"`         // Alias at registration time, null if none.
	ID           uuid.UUID   `json:"id"`            // Random identifier of the directory.
	Type         server.Type `json:"type"`          // Type at registration time.
	RegisteredAt time.Time   `json:"registered_at"` // When the marker was written.
}

// Creates the marker for srv with a fresh identifier.
func NewMarker(srv server.Server) Marker {
	m := Marker{
		Metadata: MarkerMetadata{
			ID:           uuid.New(),
			Type:         srv.Type,
			RegisteredAt: time.Now().UTC().Truncate(time.Second),
		},
	}
	if srv.Alias != "" {
		alias := srv.Alias
		m.Metadata.Alias = &alias
	}
	return m
}

// Returns the location of the marker file in dir.
func MarkerPath(dir string) string {
	return filepath.Join(dir, internal.MarkerName)
}

// Writes the marker file for srv into its directory.
//
// An existing marker is overwritten. Failures, commonly missing permissions,
// are wrapped in [ErrMarker].
func (s *Store) WriteMarker(srv server.Server) error {
	data, err := json.MarshalIndent(NewMarker(srv), "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMarker, err)
	}

	path := MarkerPath(srv.Path)
	if err := os.WriteFile(path, append(data, '\n'), paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrMarker, err)
	}

	slog.Debug("marker written", "path", path)
	return nil
}

// Reads the marker file in dir.
func ReadMarker(dir string) (Marker, error) {
	var m Marker

	data, err := os.ReadFile(MarkerPath(dir))
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return m, nil
}
