package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"dpc/backend"
	"dpc/driver"
)

// run drives the compiler end to end: build the built-in demo IR program
// (the only program source this command has; without -demo it returns an
// error), compile it via the driver package, and write the resulting datapack to
// disk, mirroring the teacher's src/main.go run() shape (read -> parse ->
// optimise -> generate -> write).
func run(opt Options) error {
	if !opt.Demo {
		return fmt.Errorf("no frontend is wired into this build (spec Non-goal); pass -demo to compile the built-in fixture program, or call driver.Compile directly from your own Go program with a parsed ir.Program")
	}
	prog := buildDemoProgram()

	settings := driver.Settings{
		Debug:     opt.Debug,
		OptLevel:  opt.OptLevel,
		StripMode: opt.stripMode(),
		Project:   opt.Project,
	}

	var dump driver.Dump
	if opt.Debug {
		dump = func(stage, text string) {
			color.New(color.FgCyan, color.Bold).Fprintf(os.Stderr, "== %s ==\n", stage)
			fmt.Fprintln(os.Stderr, text)
		}
	}

	dp, err := driver.Compile(prog, settings, dump)
	if err != nil {
		return fmt.Errorf("compile error: %w", err)
	}

	return writeDatapack(dp, opt.Out)
}

// writeDatapack serializes a backend.Datapack to the on-disk layout a
// datapack zip/folder uses: one `.mcfunction` file per function under
// data/<namespace>/function/<path>.mcfunction, and one JSON file per
// function tag under data/<namespace>/tags/function/<path>.json.
func writeDatapack(dp *backend.Datapack, outDir string) error {
	for _, loc := range dp.FuncOrder {
		f := dp.Functions[loc]
		path := filepath.Join(outDir, "data", loc.Namespace, "function", loc.Path+".mcfunction")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		content := ""
		for _, line := range f.Contents {
			content += line + "\n"
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}

	for _, loc := range dp.TagOrder {
		t := dp.FunctionTags[loc]
		path := filepath.Join(outDir, "data", loc.Namespace, "tags", "function", loc.Path+".json")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(tagJSON(t.Values)), 0o644); err != nil {
			return err
		}
	}

	return nil
}

func tagJSON(values []string) string {
	s := `{"values":[`
	for i, v := range values {
		if i > 0 {
			s += ","
		}
		s += `"` + v + `"`
	}
	s += `]}`
	return s
}

func main() {
	opt, err := ParseArgs()
	if err != nil {
		color.Red("argument error: %s", err)
		os.Exit(1)
	}
	if err := run(opt); err != nil {
		color.Red("%s", err)
		os.Exit(1)
	}
}
