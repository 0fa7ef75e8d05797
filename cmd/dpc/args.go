package main

import (
	"fmt"
	"os"

	"dpc/backend"
	"dpc/driver"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds the flags accepted by the dpc CLI, modeled on the teacher's
// util.Options/ParseArgs shape (src/util/args.go): a flat struct filled by a
// single linear scan over os.Args, no external flag-parsing library.
type Options struct {
	Out       string // output directory the datapack is written to.
	Project   string // datapack namespace (spec §6 "project.name").
	Debug     bool   // dump each stage's IR to stderr.
	OptLevel  driver.OptLevel
	Strip     bool
	Demo      bool // build the built-in fixture program instead of reading one.
}

const appVersion = "dpc compiler 1.0"

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses command line arguments into an Options value.
func ParseArgs() (Options, error) {
	opt := Options{Project: "dpc", OptLevel: driver.OptFull}
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-debug":
			opt.Debug = true
		case "-strip":
			opt.Strip = true
		case "-demo":
			opt.Demo = true
		case "-project":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			i++
			opt.Project = args[i]
		case "-out":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			i++
			opt.Out = args[i]
		case "-O0":
			opt.OptLevel = driver.OptNone
		case "-O1":
			opt.OptLevel = driver.OptBasic
		case "-O2":
			opt.OptLevel = driver.OptMore
		case "-O3":
			opt.OptLevel = driver.OptFull
		default:
			return opt, fmt.Errorf("unrecognized flag %q", args[i])
		}
	}
	if opt.Out == "" {
		opt.Out = "out"
	}
	return opt, nil
}

func (o Options) stripMode() backend.StripMode {
	if o.Strip {
		return backend.StripUnstable
	}
	return backend.StripNone
}

func printHelp() {
	fmt.Println(appVersion)
	fmt.Println(`usage: dpc [flags]

  -project <name>   datapack namespace (default "dpc")
  -out <dir>        output directory (default "out")
  -O0 -O1 -O2 -O3   optimization level (default -O3)
  -strip            strip unannotated function names to short forms
  -debug            dump each IR stage to stderr
  -demo             compile the built-in fixture program
  -v, --version     print version and exit
  -h, --help        print this message and exit`)
}
