package manager

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/cruciblehq/medusa/internal/registry"
	"github.com/cruciblehq/medusa/internal/server"
	"github.com/google/go-cmp/cmp"
)

var errInjected = errors.New("injected failure")

// Wraps a registry store and fails selected operations.
type faultyStore struct {
	*registry.Store
	saveErr error
}

func (f *faultyStore) Save(doc *registry.Document) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Store.Save(doc)
}

// Creates an initialized registry in a temporary directory.
func newStore(t *testing.T) *registry.Store {
	t.Helper()
	store := registry.New(filepath.Join(t.TempDir(), "medusa.json"))
	if err := store.Init(false); err != nil {
		t.Fatal(err)
	}
	return store
}

// Opens a manager over store, failing the test on error.
func open(t *testing.T, store Store, opts Options) *Manager {
	t.Helper()
	m, err := Open(store, opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return m
}

// Creates root/name containing empty files with the given names.
func makeServerDir(t *testing.T, root, name string, files ...string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// Returns the server list currently in the registry file.
func onDisk(t *testing.T, store *registry.Store) []server.Server {
	t.Helper()
	servers, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return servers
}

func TestOpenMissingRegistry(t *testing.T) {
	store := registry.New(filepath.Join(t.TempDir(), "medusa.json"))

	_, err := Open(store, Options{})
	if !errdefs.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestRegisterRejectsDuplicatePath(t *testing.T) {
	store := newStore(t)
	m := open(t, store, Options{})
	dir := makeServerDir(t, t.TempDir(), "a")

	ok, err := m.Register(dir, server.Vanilla, "A")
	if err != nil || !ok {
		t.Fatalf("first Register = %v, %v; want true, nil", ok, err)
	}
	ok, err = m.Register(dir, server.Vanilla, "")
	if err != nil || ok {
		t.Fatalf("second Register = %v, %v; want false, nil", ok, err)
	}

	if n := len(m.List()); n != 1 {
		t.Fatalf("len(List) = %d, want 1", n)
	}
	if n := len(onDisk(t, store)); n != 1 {
		t.Fatalf("len(registry) = %d, want 1", n)
	}
	if _, err := os.Stat(registry.MarkerPath(dir)); err != nil {
		t.Fatalf("marker missing: %v", err)
	}
}

func TestRegisterRejectsDuplicateAlias(t *testing.T) {
	m := open(t, newStore(t), Options{})
	root := t.TempDir()

	if ok, err := m.Register(makeServerDir(t, root, "a"), server.Forge, "main"); !ok || err != nil {
		t.Fatalf("Register = %v, %v", ok, err)
	}
	ok, err := m.Register(makeServerDir(t, root, "b"), server.Forge, "main")
	if err != nil || ok {
		t.Fatalf("Register with taken alias = %v, %v; want false, nil", ok, err)
	}
}

func TestRegisterMarkerFailure(t *testing.T) {
	store := newStore(t)
	m := open(t, store, Options{})

	_, err := m.Register(filepath.Join(t.TempDir(), "missing"), server.Vanilla, "")
	if !errors.Is(err, registry.ErrMarker) {
		t.Fatalf("err = %v, want ErrMarker", err)
	}
	if n := len(m.List()); n != 0 {
		t.Fatalf("len(List) = %d, want 0", n)
	}
	if n := len(onDisk(t, store)); n != 0 {
		t.Fatalf("len(registry) = %d, want 0", n)
	}
}

func TestRegisterSaveFailure(t *testing.T) {
	store := &faultyStore{Store: newStore(t), saveErr: errInjected}
	m := open(t, store, Options{})
	dir := makeServerDir(t, t.TempDir(), "a")

	_, err := m.Register(dir, server.Vanilla, "")
	if !errors.Is(err, errInjected) {
		t.Fatalf("err = %v, want injected failure", err)
	}
	if n := len(m.List()); n != 0 {
		t.Fatalf("len(List) = %d, want 0 after failed save", n)
	}
	if _, err := os.Stat(registry.MarkerPath(dir)); err != nil {
		t.Fatalf("marker should remain after failed save: %v", err)
	}
}

func TestEndToEnd(t *testing.T) {
	store := newStore(t)
	m := open(t, store, Options{})
	dir := makeServerDir(t, t.TempDir(), "a")

	if ok, err := m.Register(dir, server.Vanilla, "A"); !ok || err != nil {
		t.Fatalf("Register = %v, %v; want true, nil", ok, err)
	}
	if ok, err := m.Register(dir, server.Vanilla, ""); ok || err != nil {
		t.Fatalf("Register again = %v, %v; want false, nil", ok, err)
	}
	if err := m.Deregister("A"); err != nil {
		t.Fatalf("Deregister: %v", err)
	}
	if _, ok := m.Get("A"); ok {
		t.Fatal("Get(A) found a deregistered server")
	}
	if n := len(onDisk(t, store)); n != 0 {
		t.Fatalf("len(registry) = %d, want 0", n)
	}
}

func TestDeregisterInvalidIdentifier(t *testing.T) {
	m := open(t, newStore(t), Options{})

	for _, id := range []string{"", "   "} {
		if err := m.Deregister(id); !errdefs.IsInvalidArgument(err) {
			t.Fatalf("Deregister(%q) = %v, want invalid argument", id, err)
		}
	}
}

func TestDeregisterUnknown(t *testing.T) {
	m := open(t, newStore(t), Options{})

	if err := m.Deregister("ghost"); !errdefs.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestDeregisterByDirectoryName(t *testing.T) {
	store := newStore(t)
	m := open(t, store, Options{})
	root := t.TempDir()
	a := makeServerDir(t, root, "a")
	b := makeServerDir(t, root, "b")

	for _, dir := range []string{a, b} {
		if ok, err := m.Register(dir, server.Paper, ""); !ok || err != nil {
			t.Fatalf("Register(%s) = %v, %v", dir, ok, err)
		}
	}

	if err := m.Deregister("a"); err != nil {
		t.Fatalf("Deregister: %v", err)
	}

	want := []server.Server{{Path: b, Type: server.Paper}}
	if diff := cmp.Diff(want, m.List()); diff != "" {
		t.Fatalf("cache mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, onDisk(t, store)); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}
}

func TestDeregisterSaveFailureKeepsCache(t *testing.T) {
	store := &faultyStore{Store: newStore(t)}
	m := open(t, store, Options{})
	dir := makeServerDir(t, t.TempDir(), "a")
	if ok, err := m.Register(dir, server.Vanilla, ""); !ok || err != nil {
		t.Fatalf("Register = %v, %v", ok, err)
	}

	store.saveErr = errInjected
	if err := m.Deregister("a"); !errors.Is(err, errInjected) {
		t.Fatalf("err = %v, want injected failure", err)
	}
	if _, ok := m.Get("a"); !ok {
		t.Fatal("server dropped from cache after failed save")
	}
}

func TestUpdate(t *testing.T) {
	store := newStore(t)
	m := open(t, store, Options{})
	root := t.TempDir()
	a := makeServerDir(t, root, "a")
	b := makeServerDir(t, root, "b")
	for _, dir := range []string{a, b} {
		if ok, err := m.Register(dir, server.Vanilla, ""); !ok || err != nil {
			t.Fatalf("Register(%s) = %v, %v", dir, ok, err)
		}
	}

	if err := m.Update("a", server.Server{Path: a, Alias: "lobby", Type: server.Spigot}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := []server.Server{
		{Path: a, Alias: "lobby", Type: server.Spigot},
		{Path: b, Type: server.Vanilla},
	}
	if diff := cmp.Diff(want, m.List()); diff != "" {
		t.Fatalf("cache mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, onDisk(t, store)); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}
	if srv, ok := m.Get("lobby"); !ok || srv.Path != a {
		t.Fatalf("Get(lobby) = %+v, %v", srv, ok)
	}
}

func TestUpdateChangesPath(t *testing.T) {
	m := open(t, newStore(t), Options{})
	root := t.TempDir()
	a := makeServerDir(t, root, "a")
	if ok, err := m.Register(a, server.Forge, "main"); !ok || err != nil {
		t.Fatalf("Register = %v, %v", ok, err)
	}

	moved := filepath.Join(root, "moved")
	if err := m.Update("main", server.Server{Path: moved, Alias: "main", Type: server.Forge}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, ok := m.Get(a); ok {
		t.Fatal("old path still identifies a server")
	}
	if srv, ok := m.Get("main"); !ok || srv.Path != moved {
		t.Fatalf("Get(main) = %+v, %v; want path %s", srv, ok, moved)
	}
}

func TestUpdateUnknown(t *testing.T) {
	m := open(t, newStore(t), Options{})

	err := m.Update("ghost", server.Server{Path: "/srv/ghost", Type: server.Vanilla})
	if !errdefs.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestUpdateConflict(t *testing.T) {
	m := open(t, newStore(t), Options{})
	root := t.TempDir()
	a := makeServerDir(t, root, "a")
	b := makeServerDir(t, root, "b")
	if ok, err := m.Register(a, server.Vanilla, "A"); !ok || err != nil {
		t.Fatalf("Register = %v, %v", ok, err)
	}
	if ok, err := m.Register(b, server.Vanilla, "B"); !ok || err != nil {
		t.Fatalf("Register = %v, %v", ok, err)
	}

	err := m.Update("B", server.Server{Path: b, Alias: "A", Type: server.Vanilla})
	if !errdefs.IsAlreadyExists(err) {
		t.Fatalf("err = %v, want already exists", err)
	}
	if srv, _ := m.Get("B"); srv.Alias != "B" {
		t.Fatalf("alias = %q, want B unchanged", srv.Alias)
	}
}

func TestCreate(t *testing.T) {
	m := open(t, newStore(t), Options{})
	dir := makeServerDir(t, t.TempDir(), "modded", "forge-1.20.1-server.jar")

	srv, err := m.Create(dir, server.NotAServer, "modded-main")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if srv.Type != server.Forge {
		t.Fatalf("Type = %v, want %v", srv.Type, server.Forge)
	}

	_, err = m.Create(dir, server.Forge, "")
	if !errdefs.IsAlreadyExists(err) {
		t.Fatalf("err = %v, want already exists", err)
	}
}

func TestCreateErrors(t *testing.T) {
	m := open(t, newStore(t), Options{})
	root := t.TempDir()

	if _, err := m.Create(filepath.Join(root, "missing"), server.Vanilla, ""); !errdefs.IsNotFound(err) {
		t.Fatalf("missing dir: err = %v, want not found", err)
	}

	empty := makeServerDir(t, root, "empty", "notes.txt")
	_, err := m.Create(empty, server.NotAServer, "")
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("unclassifiable dir: err = %v, want ErrUnknownType", err)
	}

	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Create(file, server.Vanilla, ""); !errdefs.IsInvalidArgument(err) {
		t.Fatalf("regular file: err = %v, want invalid argument", err)
	}
}

func TestController(t *testing.T) {
	m := open(t, newStore(t), Options{})
	dir := makeServerDir(t, t.TempDir(), "a", "paper-1.20.jar")
	if ok, err := m.Register(dir, server.Paper, ""); !ok || err != nil {
		t.Fatalf("Register = %v, %v", ok, err)
	}

	ctrl, err := m.Controller("a")
	if err != nil {
		t.Fatalf("Controller: %v", err)
	}
	if ctrl.Server().Path != dir {
		t.Fatalf("controller path = %q, want %q", ctrl.Server().Path, dir)
	}

	if _, err := m.Controller("ghost"); !errdefs.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestControllerNotImplemented(t *testing.T) {
	m := open(t, newStore(t), Options{})
	dir := makeServerDir(t, t.TempDir(), "a")
	if ok, err := m.Register(dir, server.NotAServer, ""); !ok || err != nil {
		t.Fatalf("Register = %v, %v", ok, err)
	}

	if _, err := m.Controller("a"); !errdefs.IsNotImplemented(err) {
		t.Fatalf("err = %v, want not implemented", err)
	}
}

func TestRegisterPreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medusa.json")
	content := `{"server_directory": "/srv/mc", "owner": "ops", "server_registry": []}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	store := registry.New(path)
	m := open(t, store, Options{})

	if ok, err := m.Register(makeServerDir(t, t.TempDir(), "a"), server.Vanilla, ""); !ok || err != nil {
		t.Fatalf("Register = %v, %v", ok, err)
	}

	doc, err := store.LoadDocument()
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := doc.Value("owner"); !ok || string(v) != `"ops"` {
		t.Fatalf("owner = %s, %v; want \"ops\"", v, ok)
	}
	if doc.ScanRoot() != "/srv/mc" {
		t.Fatalf("ScanRoot = %q, want /srv/mc", doc.ScanRoot())
	}
}

func TestOpenReadsMalformedRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medusa.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(registry.New(path), Options{})
	if !errors.Is(err, registry.ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
	if errors.Is(err, fs.ErrNotExist) {
		t.Fatal("malformed registry reported as missing")
	}
}
