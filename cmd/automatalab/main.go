// Command automatalab is a small demo harness for this module: it
// builds a sample DFA, NFA and DMA, writes the DFA/NFA as DOT dumps,
// prints their derived regexes, and exercises the DMA against a few
// words, optionally shelling out to render and view the DOT files.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/HeroicKatora/automata/alphabet"
	"github.com/HeroicKatora/automata/automaton"
	"github.com/HeroicKatora/automata/dot"
	"github.com/HeroicKatora/automata/labconfig"
)

var (
	outputDir  = flag.String("output", "", "directory to write DOT dumps to (default: config's output_dir)")
	invoke     = flag.Bool("invoke-tools", false, "render DOT dumps with dot(1) and open them with a viewer")
	logpath    = flag.String("log", "", "log to file instead of discarding diagnostics")
	noconfig   = flag.Bool("noconfig", false, "ignore the on-disk config, use built-in defaults")
	configPath = flag.Bool("configpath", false, "print the config file path and exit")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)
	if *logpath != "" {
		logFile, err := os.Create(*logpath)
		if err != nil {
			exitWithError(err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(io.Discard)
	}

	if *configPath {
		path, err := labconfig.Path()
		if err != nil {
			exitWithError(err)
		}
		fmt.Println(path)
		return
	}

	cfg, err := resolveConfig()
	if err != nil {
		exitWithError(err)
	}

	dir := cfg.OutputDir
	if *outputDir != "" {
		dir = *outputDir
	}

	if err := run(dir, cfg); err != nil {
		exitWithError(err)
	}
}

func resolveConfig() (labconfig.Config, error) {
	if *noconfig {
		return labconfig.Config{OutputDir: "output", RenderCmd: "dot -Tpng -O", ViewerCmd: "feh"}, nil
	}
	return labconfig.LoadOrCreate()
}

func run(dir string, cfg labconfig.Config) error {
	dfa, err := sampleDfa()
	if err != nil {
		return fmt.Errorf("building sample DFA: %w", err)
	}
	nfa := sampleNfa()

	dfaPath, err := saveDot(dir, "dfa.dot", dfa.WriteDot(dot.Directed).String())
	if err != nil {
		return fmt.Errorf("writing DFA dump: %w", err)
	}
	log.Printf("wrote %s", dfaPath)

	nfaPath, err := saveDot(dir, "nfa.dot", nfa.WriteDot(dot.Directed).String())
	if err != nil {
		return fmt.Errorf("writing NFA dump: %w", err)
	}
	log.Printf("wrote %s", nfaPath)

	if err := printRegex("DFA", dfa); err != nil {
		return err
	}
	nfaResult, err := nfa.ToRegex()
	if err != nil {
		return fmt.Errorf("NFA.ToRegex: %w", err)
	}
	fmt.Printf("NFA regex: %s\n", nfaResult.String())

	m, err := sampleDma()
	if err != nil {
		return fmt.Errorf("building sample DMA: %w", err)
	}
	for _, w := range []string{"", "aaabbb", "aab", "ab", "aabbb", "ba"} {
		ok, err := m.Matches(word(w))
		if err != nil {
			return fmt.Errorf("DMA.Matches(%q): %w", w, err)
		}
		fmt.Printf("DMA accepts %-8q: %v\n", w, ok)
	}

	if cfg.InvokeTools || *invoke {
		if err := invokeTools(dir, cfg); err != nil {
			return err
		}
	}
	return nil
}

func printRegex[S alphabet.Symbol](label string, d *automaton.Dfa[S]) error {
	result, err := d.ToRegex()
	if err != nil {
		return fmt.Errorf("%s.ToRegex: %w", label, err)
	}
	fmt.Printf("%s regex: %s\n", label, result.String())
	return nil
}

func invokeTools(dir string, cfg labconfig.Config) error {
	renderParts, err := splitCmd(cfg.RenderCmd, "dot -Tpng -O")
	if err != nil {
		return err
	}
	for _, name := range []string{"dfa.dot", "nfa.dot"} {
		if err := runCmd(renderParts, dir+"/"+name); err != nil {
			log.Printf("rendering %s: %v", name, err)
		}
	}

	viewerParts, err := splitCmd(cfg.ViewerCmd, "feh")
	if err != nil {
		return err
	}
	if err := runCmd(viewerParts, dir); err != nil {
		log.Printf("opening viewer: %v", err)
	}
	return nil
}

func printUsage() {
	f := flag.CommandLine.Output()
	fmt.Fprintf(f, "Usage: %s [options...]\n", os.Args[0])
	flag.PrintDefaults()
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
	os.Exit(1)
}
