// Package assets loads the models under the asset root once per process
// and serves them by name.
//
// The cache walks the root directory tree at construction. Every file with
// a model extension (.gltf and .glb by default) is handed to a Loader and
// stored under the name of the directory that contains it:
//
//	resources/models/
//	    crate/crate.gltf     -> "crate"
//	    tree/tree.glb        -> "tree"
//
// Files directly under the root are ignored. When one directory holds
// several model files the last one in lexical order wins.
//
// The cache is a process-wide singleton:
//
//	cache, err := assets.GetOrInit(ctx, loader)
//	...
//	crate, ok := assets.Existing().Get("crate")
package assets
