package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/rosu-bridge/calc"
	"github.com/wippyai/rosu-bridge/wire"
)

// scoreFlags are the flags shared by commands that describe a play.
type scoreFlags struct {
	mode      string
	mods      string
	clockRate float64
	accuracy  float64

	combo  uint32
	geki   uint32
	katu   uint32
	n300   uint32
	n100   uint32
	n50    uint32
	misses uint32
}

func (f *scoreFlags) register(cmd *cobra.Command, withState bool) {
	flags := cmd.Flags()
	flags.StringVarP(&f.mode, "mode", "m", "default", "game mode: osu, taiko, catch, mania or default")
	flags.StringVar(&f.mods, "mods", "", "mod acronyms, e.g. HDDT")
	flags.Float64Var(&f.clockRate, "clock-rate", 0, "clock rate override (0 uses the mods)")
	flags.Float64VarP(&f.accuracy, "acc", "a", 100, "accuracy used when no hit counts are given")
	if !withState {
		return
	}
	flags.Uint32Var(&f.combo, "combo", 0, "max combo reached (0 is a full combo)")
	flags.Uint32Var(&f.geki, "geki", 0, "geki count")
	flags.Uint32Var(&f.katu, "katu", 0, "katu count")
	flags.Uint32Var(&f.n300, "n300", 0, "300 count")
	flags.Uint32Var(&f.n100, "n100", 0, "100 count")
	flags.Uint32Var(&f.n50, "n50", 0, "50 count")
	flags.Uint32Var(&f.misses, "misses", 0, "miss count")
}

func (f *scoreFlags) attributes() (wire.MapAttributes, error) {
	mode, err := parseMode(f.mode)
	if err != nil {
		return wire.MapAttributes{}, err
	}
	return wire.MapAttributes{
		Mode:      mode,
		Mods:      calc.ParseMods(f.mods),
		ClockRate: f.clockRate,
		Accuracy:  f.accuracy,
	}, nil
}

func (f *scoreFlags) state() *wire.ScoreState {
	return &wire.ScoreState{
		MaxCombo: f.combo,
		NGeki:    f.geki,
		NKatu:    f.katu,
		N300:     f.n300,
		N100:     f.n100,
		N50:      f.n50,
		Misses:   f.misses,
	}
}

func parseMode(s string) (wire.Mode, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return wire.ModeUnspecified, nil
	case "osu", "std", "standard", "0":
		return wire.ModeStandard, nil
	case "taiko", "1":
		return wire.ModeTaiko, nil
	case "catch", "ctb", "fruits", "2":
		return wire.ModeCatch, nil
	case "mania", "3":
		return wire.ModeMania, nil
	default:
		return wire.ModeUnspecified, fmt.Errorf("unknown mode %q", s)
	}
}

func newCalcCmd(a *app) *cobra.Command {
	var (
		f     scoreFlags
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "calc <beatmap.osu>",
		Short: "Calculate difficulty and performance for a beatmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := f.attributes()
			if err != nil {
				return err
			}
			score := wire.Score{Attributes: attrs, State: f.state()}

			run := func() error {
				p, err := a.calculate(args[0], score)
				if err != nil {
					return err
				}
				printPerformance(a.out, attrs.Mods, p)
				return nil
			}
			if err := run(); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return a.watch(cmd, args[0], run)
		},
	}
	f.register(cmd, true)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "recalculate whenever the beatmap changes")
	return cmd
}

// calculate runs one calculation through the bridge.
func (a *app) calculate(path string, score wire.Score) (wire.PerformanceResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return wire.PerformanceResult{}, err
	}
	return wire.DecodePerformance(a.bridge.Calculate(data, wire.EncodeScore(score)))
}

// watch reruns fn on every write to path until the command context ends.
func (a *app) watch(cmd *cobra.Command, path string, fn func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	a.log.Info("watching beatmap", zap.String("path", path))

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := fn(); err != nil {
				a.log.Warn("recalculate", zap.String("path", path), zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watcher", zap.Error(err))
		}
	}
}

func printPerformance(out io.Writer, mods uint32, p wire.PerformanceResult) {
	t := tablewriter.NewWriter(out)
	t.SetHeader([]string{"Field", "Value"})
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.Append([]string{"mode", p.Mode.String()})
	t.Append([]string{"mods", calc.ModString(mods)})
	t.Append([]string{"stars", formatFloat(p.Stars)})
	t.Append([]string{"pp", formatFloat(p.PP)})
	t.Append([]string{"max combo", strconv.FormatUint(uint64(p.MaxCombo), 10)})
	for _, row := range performanceParts(p) {
		t.Append(row)
	}
	t.Render()
}

// performanceParts lists the per-mode pp components.
func performanceParts(p wire.PerformanceResult) [][]string {
	switch p.Mode {
	case wire.ModeStandard:
		return [][]string{
			{"aim pp", formatFloat(p.PPAim)},
			{"speed pp", formatFloat(p.PPSpeed)},
			{"flashlight pp", formatFloat(p.PPFlashlight)},
			{"acc pp", formatFloat(p.PPAcc)},
		}
	case wire.ModeTaiko:
		return [][]string{
			{"strain pp", formatFloat(p.PPDifficulty)},
			{"acc pp", formatFloat(p.PPAcc)},
		}
	case wire.ModeMania:
		return [][]string{{"strain pp", formatFloat(p.PPDifficulty)}}
	default:
		return nil
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
