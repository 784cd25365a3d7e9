package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/fontsubset/hbsubset"
	"github.com/npillmayer/fontsubset/internal/fontload"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":        "go",
		"trace.fontsubset":       "Info",
		"trace.fontsubset.hb":    "Error",
		"trace.fontsubset.query": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font file to load")
	wasm := flag.String("wasm", "", "Path or URL of hb-subset.wasm (default $"+hbsubset.AssetLocationEnv+")")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)          // will set the correct level later
	pterm.Info.Println("Welcome to the font subsetter") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("subset > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	engine := newEngine(*wasm)
	defer engine.Close(context.Background())
	intp := &Intp{repl: repl, engine: engine}
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D or 'quit', list commands with 'help'")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func newEngine(wasm string) *hbsubset.Engine {
	config := hbsubset.Config{}
	if wasm != "" {
		config.Loader = hbsubset.LocationLoader(wasm)
	}
	return hbsubset.NewEngine(config)
}

// Intp is our interpreter object
type Intp struct {
	session *fontsubset.Session
	engine  *hbsubset.Engine
	repl    *readline.Instance
}

func (intp *Intp) String() string {
	if intp == nil || intp.session == nil {
		return "()"
	}
	return fmt.Sprintf("( font=%s ranges=%s )", intp.session.FileName(),
		strings.Join(intp.session.Selection(), ","))
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd := parseCommand(line)
		err, quit := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(userMessage(err))
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op is one parsed command line.
type Op struct {
	code int
	name string
	args []string
}

const (
	QUIT int = iota
	HELP
	INFO
	RANGES
	SELECT
	DESELECT
	AXES
	AXIS
	RESET
	CSS
	STATS
	GENERATE
)

var opMap = map[string]int{
	"quit":     QUIT,
	"exit":     QUIT,
	"help":     HELP,
	"info":     INFO,
	"ranges":   RANGES,
	"select":   SELECT,
	"deselect": DESELECT,
	"axes":     AXES,
	"axis":     AXIS,
	"reset":    RESET,
	"css":      CSS,
	"stats":    STATS,
	"generate": GENERATE,
}

// parseCommand splits a line into an op-code and its arguments. Unknown
// commands are turned into a request for help.
func parseCommand(line string) *Op {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return &Op{code: HELP}
	}
	name := strings.ToLower(fields[0])
	code, ok := opMap[name]
	if !ok {
		tracer().Infof("unknown command %q", name)
		return &Op{code: HELP, name: "help", args: []string{name}}
	}
	tracer().Debugf("parsed command: %s %v", name, fields[1:])
	return &Op{code: code, name: name, args: fields[1:]}
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:     quitOp,
	HELP:     helpOp,
	INFO:     infoOp,
	RANGES:   rangesOp,
	SELECT:   selectOp,
	DESELECT: deselectOp,
	AXES:     axesOp,
	AXIS:     axisOp,
	RESET:    resetOp,
	CSS:      cssOp,
	STATS:    statsOp,
	GENERATE: generateOp,
}

var errNoFont = errors.New("no font loaded")

func (intp *Intp) execute(op *Op) (err error, stop bool) {
	tracer().Debugf("op = %v", op)
	f, ok := commandFn[op.code]
	if !ok {
		return fmt.Errorf("unknown command code: %d", op.code), false
	}
	if op.code > HELP && intp.session == nil {
		return errNoFont, false
	}
	return f(intp, op)
}

// userMessage turns errors of the subsetting engine into messages for the
// user. Other errors are shown as they are.
func userMessage(err error) string {
	var serr *hbsubset.SubsetError
	if errors.As(err, &serr) {
		tracer().Debugf("subsetting error: %v", err)
		return hbsubset.Message(err)
	}
	return err.Error()
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	return nil, true
}

// --- Font Loading -----------------------------------------------------

func (intp *Intp) loadFont(fontname string) (err error) {
	if fontname == "" {
		return errors.New("no font given, use -font <file>")
	}
	if intp.session, err = fontload.OpenSession(fontname, intp.engine); err != nil {
		return err
	}
	info := intp.session.Info()
	tracer().Infof("loaded font %s", info.FullName)
	pterm.Printf("font %s: %d glyphs, %d characters\n", info.FullName, info.Glyphs, info.Characters)
	return nil
}
