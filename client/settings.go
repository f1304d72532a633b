package client

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

/*

Common client settings

*/

const (
	applicationName         = "Sudoku"
	applicationVersion      = "1.2"
	templatePageSuffix      = "Page.tmpl.html"
	templateDirectoryEnvVar = "TEMPLATE_DIRECTORY"
	staticDirectoryEnvVar   = "STATIC_DIRECTORY"
	iconPath                = "/favicon.ico"
	reportBugPath           = "/bugreport.html"
)

// All the page resources ride along in the binary, so deployed
// servers need no resource directories.  The environment
// variables above override the embedded set for development.
//
//go:embed static
var embeddedResources embed.FS

var (
	embeddedTemplateDirectory = "static/tmpl"
	pageNames                 = []string{"solver", "error"}
	staticResourcePaths       = map[string]string{
		iconPath:      "special/favicon.ico",
		"/robots.txt": "special/robots.txt",
		reportBugPath: "special/report_bug.html",
	}
)

// VerifyResources - check that the page templates parse and the
// static resources can be found, return error if not.
func VerifyResources() error {
	for _, name := range pageNames {
		if _, err := loadPageTemplate(name); err != nil {
			return err
		}
	}
	if dir := os.Getenv(staticDirectoryEnvVar); dir != "" {
		if fi, err := os.Stat(dir); err != nil {
			return err
		} else if !fi.IsDir() {
			return fmt.Errorf("Static resource location %q not a directory.", dir)
		}
		return nil
	}
	for _, rel := range staticResourcePaths {
		if _, err := fs.Stat(embeddedResources, path.Join("static", rel)); err != nil {
			return err
		}
	}
	return nil
}

/*

handle static resources

*/

// StaticHandler serves the static resources.  It returns whether
// the request path named one, so callers can fall through to
// their own routes when it didn't.
func StaticHandler(w http.ResponseWriter, r *http.Request) bool {
	rel, ok := staticResourcePaths[r.URL.Path]
	if !ok && strings.HasPrefix(r.URL.Path, "/static/") {
		rel, ok = strings.TrimPrefix(r.URL.Path, "/static/"), true
	}
	if !ok {
		return false
	}
	log.Printf("Serving static resource for %q", r.URL.Path)
	if dir := os.Getenv(staticDirectoryEnvVar); dir != "" {
		http.ServeFile(w, r, filepath.Join(dir, filepath.FromSlash(rel)))
		return true
	}
	content, err := embeddedResources.ReadFile(path.Join("static", rel))
	if err != nil {
		http.NotFound(w, r)
		return true
	}
	http.ServeContent(w, r, rel, time.Time{}, bytes.NewReader(content))
	return true
}

/*

find and parse templates

*/

// loadedTemplates is the cache of already-parsed templates
var loadedTemplates = make(map[string]*template.Template)

// loadPageTemplate does what you would expect: give it the
// template name, and it will find and parse the template file
// and return the resulting template.
func loadPageTemplate(name string) (*template.Template, error) {
	if tmpl, ok := loadedTemplates[name]; ok {
		return tmpl, nil
	}
	var tmpl *template.Template
	var err error
	if dir := os.Getenv(templateDirectoryEnvVar); dir != "" {
		tmpl, err = template.ParseFiles(filepath.Join(dir, name+templatePageSuffix))
	} else {
		tmpl, err = template.ParseFS(embeddedResources,
			path.Join(embeddedTemplateDirectory, name+templatePageSuffix))
	}
	if err != nil {
		return nil, err
	}
	loadedTemplates[name] = tmpl
	return tmpl, nil
}
