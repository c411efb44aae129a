package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/layetri/straycrab/internal/cli"
	"github.com/layetri/straycrab/internal/instruction"
	"github.com/layetri/straycrab/internal/resampler"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "0.1.0")
var version = "dev"

// CLI defines the UTAU resampler command line: a fixed run of
// positional arguments in the order the protocol hands them to us,
// plus the usual version/debug flags.
type CLI struct {
	Version bool `short:"v" help:"Show version information"`
	Debug   bool `short:"d" help:"Enable debug logging to stderr"`

	InputPath   string `arg:"" name:"input" help:"Source WAV path"`
	OutputPath  string `arg:"" name:"output" help:"Output WAV path (or \"nul\" to discard)"`
	PitchNote   string `arg:"" name:"pitch" help:"Target note, e.g. C#5"`
	Velocity    string `arg:"" name:"velocity" help:"Consonant velocity percentage"`
	Flags       string `arg:"" name:"flags" optional:"" help:"Pipe-delimited expressive flags"`
	OffsetMs    string `arg:"" name:"offset_ms" optional:"" help:"Offset into source, ms"`
	LengthMs    string `arg:"" name:"length_ms" optional:"" help:"Requested output length, ms"`
	ConsonantMs string `arg:"" name:"consonant_ms" optional:"" help:"Consonant region length, ms"`
	CutoffMs    string `arg:"" name:"cutoff_ms" optional:"" help:"Cutoff, signed ms"`
	Volume      string `arg:"" name:"volume" optional:"" help:"Volume percentage"`
	Modulation  string `arg:"" name:"modulation" optional:"" help:"Pitch modulation percentage"`
	Tempo       string `arg:"" name:"tempo" optional:"" help:"Tempo, BPM"`
	Pitchbend   string `arg:"" name:"pitchbend" optional:"" help:"Encoded pitchbend string"`
}

func main() {
	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("straycrab"),
		kong.Description("UTAU-protocol singing-voice resampler"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	logLevel := log.InfoLevel
	if cliArgs.Debug {
		logLevel = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           logLevel,
		ReportTimestamp: true,
	})

	args := []string{
		cliArgs.InputPath, cliArgs.OutputPath, cliArgs.PitchNote, cliArgs.Velocity, cliArgs.Flags,
		cliArgs.OffsetMs, cliArgs.LengthMs, cliArgs.ConsonantMs, cliArgs.CutoffMs,
		cliArgs.Volume, cliArgs.Modulation, cliArgs.Tempo, cliArgs.Pitchbend,
	}

	instr, err := instruction.FromArgs(args)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	if err := resampler.Render(instr, logger); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}
