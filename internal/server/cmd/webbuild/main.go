package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
)

// Bundles the driving client. Run from internal/server via go generate;
// the output lands next to index.html so the embed picks it up.
func main() {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("getwd: %v", err)
	}

	entry := filepath.Join(wd, "web", "src", "main.ts")
	out := filepath.Join(wd, "web", "client.js")

	result := api.Build(api.BuildOptions{
		EntryPoints:   []string{entry},
		Outfile:       out,
		AbsWorkingDir: wd,
		Bundle:        true,
		Format:        api.FormatIIFE,
		Target:        api.ES2020,
		Platform:      api.PlatformBrowser,
		LogLevel:      api.LogLevelInfo,
		Write:         true,
		Loader:        map[string]api.Loader{".ts": api.LoaderTS},
	})
	if len(result.Errors) > 0 {
		for _, message := range result.Errors {
			log.Printf("esbuild: %s", message.Text)
		}
		log.Fatalf("client bundle failed with %d error(s)", len(result.Errors))
	}
}
