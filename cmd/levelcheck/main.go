// levelcheck validates level spec files and optionally re-validates them on
// change while tuning.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/milk9111/lavarunner/config"
)

func main() {
	watch := flag.Bool("watch", false, "keep running and re-validate on file change")
	flag.Parse()

	dirs := flag.Args()
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	failed := false
	for _, dir := range dirs {
		matches, _ := filepath.Glob(filepath.Join(dir, "*.yaml"))
		more, _ := filepath.Glob(filepath.Join(dir, "*.yml"))
		for _, path := range append(matches, more...) {
			if !check(path) {
				failed = true
			}
		}
	}

	if !*watch {
		if failed {
			os.Exit(1)
		}
		return
	}

	w, err := config.NewWatcher(dirs...)
	if err != nil {
		log.Fatal(err)
	}
	defer w.Close()

	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			check(path)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func check(path string) bool {
	spec, err := config.LoadLevelSpec(path)
	if err != nil {
		log.Printf("FAIL %s: %v", path, err)
		return false
	}
	log.Printf("ok   %s: level %q mode %q", path, spec.Name, spec.Mode)
	return true
}
