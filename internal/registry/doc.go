// Package registry persists the server registry and per-server marker files.
//
// The registry is a single JSON document. The "server_registry" key holds the
// ordered list of registered servers; every other top-level key is kept as
// raw JSON and written back untouched, so settings such as
// "server_directory" share the file with the server list.
//
// A [Store] is bound to one file. Loading a file that does not exist fails
// with [errdefs.ErrNotFound] instead of yielding an empty registry: a missing
// file means the registry was never initialized, and [Store.Init] must be run
// first. Saving overwrites the file in place and is not atomic.
//
// Each registered server directory also receives a marker file (".medusa")
// holding the server's alias and a random identifier. The marker lets a
// directory be recognized as managed without consulting the registry.
//
// Example usage:
//
//	store := registry.New(paths.Registry())
//
//	doc, err := store.LoadDocument()
//	if err != nil {
//	    return err
//	}
//
//	doc.SetServers(append(doc.Servers(), srv))
//	if err := store.Save(doc); err != nil {
//	    return err
//	}
package registry
