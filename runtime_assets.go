package formsubmit

import (
	"embed"
	"io/fs"
)

//go:embed runtime/*.js
var embeddedRuntimeAssets embed.FS

// LoaderScriptName is the bootstrap script that starts formsubmit.wasm.
const LoaderScriptName = "formsubmit-loader.js"

// RuntimeAssetsFS exposes the browser bootstrap script so Go applications can
// serve it next to the compiled formsubmit.wasm and the toolchain's
// wasm_exec.js.
//
// Typical mount:
//
//	mux.Handle("/runtime/",
//	  http.StripPrefix("/runtime/",
//	    http.FileServerFS(formsubmit.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedRuntimeAssets, "runtime")
	if err != nil {
		return embeddedRuntimeAssets
	}
	return sub
}
