// Copyright 2025, the Portail contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command i18n_extract writes the gettext template po/portail.pot from the
// msgids found in the Go sources and in the page templates.
//
// Run it from anywhere inside the module:
//
//	go run ./cmd/i18n_extract [-o po/portail.pot] [-views 'assets/views/*.html']
package main

import (
	"bytes"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/tools/go/packages"

	"codeberg.org/ambagabon/portail/config"
)

func main() {
	outPath := flag.String("o", "po/portail.pot", "output file")
	viewsGlob := flag.String("views", "assets/views/*.html", "page templates to scan")
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax}, "./...")
	if err != nil {
		log.Fatalf("failed to load packages: %v", err)
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Fatal("failed to load packages due to errors")
	}

	cat := newCatalogue(moduleRoot(wd))
	scanPackages(cat, pkgs)

	views, err := filepath.Glob(*viewsGlob)
	if err != nil {
		log.Fatalf("bad -views pattern: %v", err)
	}

	for _, path := range views {
		if err := extractTemplateRefs(cat, path); err != nil {
			log.Fatalf("failed to scan %s: %v", path, err)
		}
	}

	var b bytes.Buffer
	cat.write(&b, config.BuildVersion, time.Now())

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := os.WriteFile(*outPath, b.Bytes(), 0o644); err != nil {
		log.Fatalf("failed to write output file %s: %v", *outPath, err)
	}

	log.Printf("wrote %d msgids to %s", len(cat.refs), *outPath)
}

// moduleRoot returns the nearest directory above start holding a go.mod,
// or start itself.
func moduleRoot(start string) string {
	for dir := filepath.Clean(start); ; {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}

		dir = parent
	}
}
