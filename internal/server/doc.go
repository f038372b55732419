// Package server describes managed Minecraft server installations.
//
// A [Server] is a directory on disk plus an optional alias and a [Type]. The
// package defines how a caller-supplied identifier resolves to a server,
// infers a server's type from the files in its directory, and resolves a
// per-type [Controller] describing how the server would be launched.
//
// Identifiers match the alias, the full path, or the directory name, in that
// order:
//
//	srv := server.Server{Path: "/srv/mc/survival", Alias: "main"}
//	srv.IsIdentifiableBy("main")             // true
//	srv.IsIdentifiableBy("/srv/mc/survival") // true
//	srv.IsIdentifiableBy("survival")         // true
//	srv.IsIdentifiableBy("surv")             // false
//
// Classification inspects only the top level of a directory:
//
//	t, err := server.Classify("/srv/mc/survival")
//	if err != nil {
//	    return err
//	}
//	if t == server.NotAServer {
//	    // skip
//	}
package server
