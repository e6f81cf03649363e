package main

import (
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/rosu-bridge/errors"
	"github.com/wippyai/rosu-bridge/wire"
)

// judgement is one hit result fed to a gradual session.
type judgement byte

const (
	judgeGreat judgement = '3'
	judgeGood  judgement = '1'
	judgeMeh   judgement = '5'
	judgeMiss  judgement = 'x'
)

func (j judgement) valid() bool {
	switch j {
	case judgeGreat, judgeGood, judgeMeh, judgeMiss:
		return true
	}
	return false
}

// tracker accumulates judgements into a running score state.
type tracker struct {
	state wire.ScoreState
	combo uint32
	steps int
}

func (t *tracker) apply(j judgement) {
	t.steps++
	switch j {
	case judgeMiss:
		t.state.Misses++
		t.combo = 0
		return
	case judgeGood:
		t.state.N100++
	case judgeMeh:
		t.state.N50++
	default:
		t.state.N300++
	}
	t.combo++
	if t.combo > t.state.MaxCombo {
		t.state.MaxCombo = t.combo
	}
}

// scheduled returns the judgement for the n-th object (1-based) under a
// periodic miss and 100 schedule. Zero periods disable the schedule.
func scheduled(n, missEvery, goodEvery int) judgement {
	switch {
	case missEvery > 0 && n%missEvery == 0:
		return judgeMiss
	case goodEvery > 0 && n%goodEvery == 0:
		return judgeGood
	default:
		return judgeGreat
	}
}

// session is a gradual calculation held open in the bridge.
type session struct {
	a      *app
	header wire.GradualHeader
	track  tracker
	done   bool
}

func (a *app) beginGradual(path string, attrs wire.MapAttributes) (*session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	resp := a.bridge.GradualBegin(data, wire.EncodeMapAttributes(attrs))
	h, err := wire.DecodeGradualHeader(resp)
	if err != nil {
		return nil, err
	}
	return &session{a: a, header: h}, nil
}

// advance applies j and returns the performance after it. ok is false
// once the session has no objects left.
func (s *session) advance(j judgement) (p wire.PerformanceResult, ok bool, err error) {
	if s.done {
		return p, false, nil
	}
	next := s.track
	next.apply(j)
	score := wire.Score{State: &next.state}
	p, err = wire.DecodePerformance(s.a.bridge.GradualAdvance(s.header.Handle, wire.EncodeScore(score)))
	if errors.KindOf(err) == errors.KindExhausted {
		s.done = true
		return p, false, nil
	}
	if err != nil {
		return p, false, err
	}
	s.track = next
	return p, true, nil
}

func (s *session) release() error {
	_, err := wire.Payload(s.a.bridge.GradualRelease(s.header.Handle))
	return err
}

func newGradualCmd(a *app) *cobra.Command {
	var (
		f           scoreFlags
		missEvery   int
		goodEvery   int
		every       int
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "gradual <beatmap.osu>",
		Short: "Replay a synthetic play object by object",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			attrs, err := f.attributes()
			if err != nil {
				return err
			}
			s, err := a.beginGradual(args[0], attrs)
			if err != nil {
				return err
			}
			defer s.release()

			if interactive {
				if !term.IsTerminal(int(os.Stdout.Fd())) {
					return fmt.Errorf("interactive mode needs a terminal")
				}
				_, err := tea.NewProgram(newGradualModel(s, args[0]), tea.WithAltScreen()).Run()
				return err
			}
			return runGradual(a, s, missEvery, goodEvery, every)
		},
	}
	f.register(cmd, false)
	flags := cmd.Flags()
	flags.IntVar(&missEvery, "miss-every", 0, "miss every n-th object")
	flags.IntVar(&goodEvery, "hundred-every", 0, "score a 100 on every n-th object")
	flags.IntVar(&every, "every", 1, "print a row every n objects")
	flags.BoolVarP(&interactive, "interactive", "i", false, "step through the play interactively")
	return cmd
}

func runGradual(a *app, s *session, missEvery, goodEvery, every int) error {
	if every < 1 {
		every = 1
	}
	t := tablewriter.NewWriter(a.out)
	t.SetHeader([]string{"Object", "Combo", "300", "100", "Miss", "Stars", "PP"})

	var last []string
	for {
		p, ok, err := s.advance(scheduled(s.track.steps+1, missEvery, goodEvery))
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		row := []string{
			strconv.Itoa(s.track.steps),
			strconv.FormatUint(uint64(s.track.state.MaxCombo), 10),
			strconv.FormatUint(uint64(s.track.state.N300), 10),
			strconv.FormatUint(uint64(s.track.state.N100), 10),
			strconv.FormatUint(uint64(s.track.state.Misses), 10),
			formatFloat(p.Stars),
			formatFloat(p.PP),
		}
		if s.track.steps%every == 0 {
			t.Append(row)
			last = nil
		} else {
			last = row
		}
	}
	if last != nil {
		t.Append(last)
	}
	t.Render()
	return nil
}
