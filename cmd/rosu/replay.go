package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wieku/rplpa"
	"go.uber.org/zap"

	"github.com/wippyai/rosu-bridge/wire"
)

func newReplayCmd(a *app) *cobra.Command {
	var clockRate float64
	cmd := &cobra.Command{
		Use:   "replay <replay.osr> <beatmap.osu>",
		Short: "Calculate performance for a replay's hit counts",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			r, err := rplpa.ParseReplay(data)
			if err != nil {
				return fmt.Errorf("parse replay %s: %w", args[0], err)
			}
			a.log.Debug("replay parsed",
				zap.String("player", r.Username),
				zap.String("beatmap_md5", r.BeatmapMD5),
				zap.Int("mode", int(r.PlayMode)))

			score := replayScore(r, clockRate)
			p, err := a.calculate(args[1], score)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s on %s\n", r.Username, r.BeatmapMD5)
			printPerformance(a.out, score.Attributes.Mods, p)
			return nil
		},
	}
	cmd.Flags().Float64Var(&clockRate, "clock-rate", 0, "clock rate override (0 uses the replay's mods)")
	return cmd
}

// replayScore converts a parsed replay into a score request.
func replayScore(r *rplpa.Replay, clockRate float64) wire.Score {
	return wire.Score{
		Attributes: wire.MapAttributes{
			Mode:      wire.ModeFromByte(uint8(r.PlayMode)),
			Mods:      uint32(r.Mods),
			ClockRate: clockRate,
		},
		State: &wire.ScoreState{
			MaxCombo: uint32(r.MaxCombo),
			NGeki:    uint32(r.CountGeki),
			NKatu:    uint32(r.CountKatu),
			N300:     uint32(r.Count300),
			N100:     uint32(r.Count100),
			N50:      uint32(r.Count50),
			Misses:   uint32(r.CountMiss),
		},
	}
}
