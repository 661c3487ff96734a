// Package rebundle puts an mtime-validated, optionally persistent cache in
// front of an incremental bundler.
//
// A Bundler receives the surviving dependency and package records before every
// build and reports what it processed through a BuildStream. Records whose
// backing file changed, disappeared or never had a usable timestamp are
// evicted before the bundler sees them. Processed records are staged and only
// become the live cache once the stream completes; a failed or cancelled
// build leaves the previous cache untouched.
//
// With WithPersist the cache is restored from, and written back to, a JSON
// snapshot named after the persist key:
//
//	r, err := rebundle.New(bundler, rebundle.WithPersist("web"), rebundle.WithRoot("."))
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//
//	s, err := r.Rebuild(ctx)
//	if err != nil {
//		return err
//	}
//	return s.Wait()
package rebundle
