package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"maskeval/internal/models"
	"maskeval/pkg/config"
	"maskeval/pkg/evaluation"
	"maskeval/pkg/mask"
)

// options holds the parsed command line
type options struct {
	flags *flag.FlagSet

	fileMask    string
	fileData    string
	frontal     bool
	maxMaskNo   int
	maskAbove   float64
	printOn     bool
	configPath  string
	writeConfig bool
	verbose     bool
}

func parseArgs(args []string) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("maskeval", flag.ContinueOnError)
	fs.StringVarP(&o.fileMask, "filemask", "m", "", "Input .npz mask file name")
	fs.StringVarP(&o.fileData, "filedata", "d", "", "(Optional) Topography .npz file name")
	fs.BoolVarP(&o.frontal, "Fafb", "F", false, "Compute frontal area fraction (of buildings) from the topography data")
	fs.IntVarP(&o.maxMaskNo, "maxMaskNo", "x", 20, "Maximum mask id value")
	fs.Float64VarP(&o.maskAbove, "maskAbove", "a", 0, "Mask all above given value")
	fs.BoolVarP(&o.printOn, "printOn", "p", false, "Save an image of the derived mask")
	fs.StringVarP(&o.configPath, "config", "c", config.DefaultPath, "YAML configuration file")
	fs.BoolVar(&o.writeConfig, "write-config", false, "Write the default configuration to --config and exit")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.flags = fs
	return o, nil
}

// params merges the configuration with explicitly set flags
func (o *options) params(cfg *config.Config) *evaluation.Params {
	p := &evaluation.Params{
		MaskFile:         o.fileMask,
		DataFile:         o.fileData,
		Frontal:          o.frontal,
		FrontalThreshold: cfg.Geometry.FrontalThreshold,
		MaxMaskNo:        cfg.Masks.MaxMaskNo,
		Clip:             cfg.Masks.Clip,
		HistogramFile:    cfg.Output.HistogramFile,
		Plot:             o.printOn,
		PlotFile:         cfg.Output.PlotFile,
		PlotWidth:        cfg.Output.PlotWidth,
		SaveMask:         cfg.Output.SaveMask,
	}
	if o.flags.Changed("maxMaskNo") {
		p.MaxMaskNo = o.maxMaskNo
	}
	if o.flags.Changed("maskAbove") {
		clip := o.maskAbove
		p.Clip = &clip
	}
	return p
}

func run(args []string, stdout io.Writer, log *logrus.Logger) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	if opts.writeConfig {
		if err := config.CreateDefaultConfigFile(opts.configPath); err != nil {
			return err
		}
		log.WithField("file", opts.configPath).Info("Wrote default configuration")
		return nil
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.verbose || cfg.Output.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	params := opts.params(cfg)
	if params.MaxMaskNo < 1 {
		return errors.Errorf("maxMaskNo must be at least 1, got %d", params.MaxMaskNo)
	}

	evaluator := evaluation.NewEvaluator(params, stdout, log)
	return evaluator.Process()
}

// describe turns fatal errors into the messages users see
func describe(err error) string {
	switch errors.Cause(err) {
	case evaluation.ErrNoInput:
		return "No data files provided, Exiting ..."
	case models.ErrShapeMismatch:
		return fmt.Sprintf("Error! Dimensions of topography and mask files do not agree (%v). Exiting ...", err)
	case mask.ErrNothingToDo:
		return "Nothing to do. Exiting ..."
	case flag.ErrHelp:
		return ""
	default:
		return err.Error()
	}
}

func main() {
	log := logrus.New()
	log.Out = os.Stderr

	if err := run(os.Args[1:], os.Stdout, log); err != nil {
		msg := describe(err)
		if msg == "" {
			os.Exit(0)
		}
		log.Fatal(msg)
	}
}
