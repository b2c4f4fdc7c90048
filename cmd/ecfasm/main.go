// Command ecfasm compiles ECF assembly source into a decimal byte stream
// against a project's write/read/instruction definition tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/chipforge/ecfasm/apiserver"
	"github.com/chipforge/ecfasm/manifest"
	"github.com/chipforge/ecfasm/progress"
	"github.com/chipforge/ecfasm/session"
	"github.com/chipforge/ecfasm/tables"
	"github.com/chipforge/ecfasm/toolconfig"
	"github.com/chipforge/ecfasm/xref"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		projectDir  = flag.String("project", ".", "Project directory")
		sourceFile  = flag.String("source", "", "Assembly source file to compile")
		writeTable  = flag.String("write", "", "Write-address table file (defaults to config/tool default)")
		readTable   = flag.String("read", "", "Read-address table file (defaults to config/tool default)")
		insTable    = flag.String("ins", "", "Instruction table file (defaults to config/tool default)")
		outFile     = flag.String("out", "", "Output file for the byte stream (default: stdout)")
		configPath  = flag.String("config", "", "Tool config file (default: platform config dir)")
		emitDebug   = flag.Bool("debug", false, "Write stage dumps to <project>/Debug")
		watch       = flag.Bool("watch", false, "Start the HTTP/WebSocket API server instead of compiling once")
		watchAddr   = flag.String("watch-addr", "127.0.0.1:8080", "Listen address in -watch mode")
		sessionID   = flag.String("session", "cli", "Session identifier reported in progress events")
		showXref    = flag.Bool("xref", false, "Print a label cross-reference report to stderr after a successful compile")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("ecfasm %s (commit %s, built %s)\n", Version, Commit, Date)
		os.Exit(0)
	}

	if *watch {
		runWatchMode(*watchAddr)
		return
	}

	if *sourceFile == "" {
		fmt.Fprintln(os.Stderr, "ecfasm: -source is required (or pass -watch to run the API server)")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadToolConfig(*configPath)
	if err != nil {
		fatalf("loading tool config: %v", err)
	}

	writePath := firstNonEmpty(*writeTable, filepath.Join(*projectDir, cfg.Tables.WriteFile))
	readPath := firstNonEmpty(*readTable, filepath.Join(*projectDir, cfg.Tables.ReadFile))
	insPath := firstNonEmpty(*insTable, filepath.Join(*projectDir, cfg.Tables.InstructionsFile))

	defs, errs := tables.LoadDefinitionTables(writePath, readPath, insPath)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		os.Exit(1)
	}

	man, err := loadManifest(*projectDir)
	if err != nil {
		fatalf("loading project manifest: %v", err)
	}

	src, err := os.ReadFile(*sourceFile) // #nosec G304 -- user-supplied source path
	if err != nil {
		fatalf("reading source file: %v", err)
	}

	sess := session.New(*projectDir, *sessionID, man, defs, cfg, nil)
	result := sess.Compile(string(src))

	if *emitDebug {
		if err := dumpDebug(*projectDir, *sourceFile, cfg, result); err != nil {
			fmt.Fprintf(os.Stderr, "warning: writing debug dumps: %v\n", err)
		}
	}

	if !result.OK() {
		for _, d := range result.Diagnostics {
			fmt.Fprintln(os.Stderr, d.Error())
		}
		os.Exit(1)
	}

	if *showXref {
		fmt.Fprint(os.Stderr, xref.Report(xref.Build(result.Spaced, result.Labels)))
	}

	output := result.ByteStream() + "\n"
	if *outFile == "" {
		fmt.Print(output)
		return
	}
	if err := os.WriteFile(*outFile, []byte(output), 0600); err != nil {
		fatalf("writing output file: %v", err)
	}
}

func runWatchMode(addr string) {
	bc := progress.New()
	defer bc.Close()

	srv := apiserver.NewServer(addr, bc)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Printf("ecfasm API server listening on %s\n", addr)
	if err := srv.ListenAndServe(ctx); err != nil {
		fatalf("API server error: %v", err)
	}
}

func loadToolConfig(path string) (*toolconfig.Config, error) {
	if path != "" {
		return toolconfig.LoadFrom(path)
	}
	return toolconfig.Load()
}

func loadManifest(projectDir string) (*manifest.Manifest, error) {
	path := filepath.Join(projectDir, "project.manifest")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return manifest.Default(), nil
	}
	return manifest.Load(path)
}

func dumpDebug(projectDir, sourceFile string, cfg *toolconfig.Config, result *session.CompileResult) error {
	base := filepath.Base(sourceFile)
	ext := filepath.Ext(base)
	base = base[:len(base)-len(ext)]

	dm, err := session.NewDebugManager(projectDir, base)
	if err != nil {
		return err
	}
	return dm.SaveAll(result, cfg.Debug.EmitParsed, cfg.Debug.EmitSpaced, cfg.Debug.EmitAddressed, cfg.Debug.EmitImplemented, cfg.Debug.EmitSummary)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ecfasm: "+format+"\n", args...)
	os.Exit(1)
}
