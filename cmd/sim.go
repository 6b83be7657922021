package cmd

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/lazharichir/holdem/game"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var botNames = []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank", "Grace", "Heidi", "Ivan", "Judy"}

type simOptions struct {
	Players int
	Hands   int
	Seed    int64
}

func newSimCmd(v *viper.Viper) *cobra.Command {
	var opts simOptions
	var quiet bool

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Play a session between bots and print every hand",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(v)
			if err != nil {
				return err
			}

			th, err := simulate(cfg.Table, opts, events.NewInMemoryEventStore(), log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !quiet {
				for _, h := range th.Hands {
					fmt.Fprintln(out, renderHand(th, h))
				}
			}
			standings, err := renderStandings(th)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, standings)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Players, "players", 4, "number of bots")
	cmd.Flags().IntVar(&opts.Hands, "hands", 20, "hands to play before the session ends")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "seed of the shuffles and the bots")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print the final standings")
	return cmd
}

// simulate plays a whole session synchronously and returns its history as
// rebuilt from the stored events
func simulate(rules domain.TableRules, opts simOptions, store events.EventStore, log logrus.FieldLogger) (*game.TableHistory, error) {
	if opts.Players < 2 || opts.Players > min(rules.MaxPlayers, len(botNames)) {
		return nil, &domain.ValidationError{Field: "players", Message: fmt.Sprintf("must be between 2 and %d", rules.MaxPlayers)}
	}
	if opts.Hands <= 0 {
		return nil, &domain.ValidationError{Field: "hands", Message: "must be positive"}
	}

	r := rand.New(rand.NewSource(opts.Seed))
	t, err := domain.NewTable("sim", rules,
		domain.WithTableID("sim-"+strconv.FormatInt(opts.Seed, 10)),
		domain.WithRand(r),
	)
	if err != nil {
		return nil, err
	}
	log = log.WithField("table_id", t.ID)

	var storeErr error
	t.RegisterEventHandler(func(e events.Event) {
		if err := store.Append(e); err != nil && storeErr == nil {
			storeErr = err
		}
	})

	for i := 0; i < opts.Players; i++ {
		id := strings.ToLower(botNames[i])
		if _, err := t.Join(id, botNames[i]); err != nil {
			return nil, err
		}
	}

	for t.Status != domain.TableStatusEnded {
		if storeErr != nil {
			return nil, errors.Wrap(storeErr, "storing events")
		}
		if t.HandCount >= opts.Hands && !t.InProgress() {
			t.MarkSessionShouldEnd()
		}

		switch t.Pending() {
		case domain.StatusAwaitingAction:
			playerID := t.Hand.CurrentPlayerID()
			action := decide(t.BuildPlayerView(playerID), rules.BigBlind, r)
			if err := t.Act(playerID, action); err != nil {
				return nil, errors.Wrapf(err, "bot %s playing %s", playerID, action.Kind())
			}

		case domain.StatusStreetComplete, domain.StatusHandComplete:
			step, err := t.Advance()
			if err != nil {
				return nil, err
			}
			if step == domain.StepHandResolved {
				log.WithField("hand", t.HandCount).Debug("hand resolved")
			}

		default:
			_, err := t.StartHand()
			if errors.Is(err, domain.ErrSessionEnded) {
				continue
			}
			if err != nil {
				return nil, err
			}
		}
	}

	log.WithFields(logrus.Fields{"hands": t.HandCount, "winner": t.WinnerID}).Info("session over")
	return game.NewHistory(store).Rebuild(t.ID)
}

func nameOf(th *game.TableHistory, playerID string) string {
	if name, ok := th.Names[playerID]; ok {
		return name
	}
	return playerID
}

// renderHand draws one hand as a pair of boxes: the action log and the result
func renderHand(th *game.TableHistory, h *game.HandSummary) string {
	box := pterm.DefaultBox.WithHorizontalPadding(2).WithTopPadding(0).WithBottomPadding(0)

	var actions strings.Builder
	street := ""
	for _, a := range h.Actions {
		if a.Street != street {
			street = a.Street
			actions.WriteString(pterm.Cyan(strings.ToUpper(street)) + "\n")
		}
		actions.WriteString(pterm.Sprintfln("  %s %s", nameOf(th, a.PlayerID), a.Label))
	}
	if actions.Len() == 0 {
		actions.WriteString("no action\n")
	}

	var result strings.Builder
	if len(h.Board) > 0 {
		result.WriteString(pterm.Sprintfln("Board %s", h.Board))
	}
	shown := make([]string, 0, len(h.Shown))
	for id := range h.Shown {
		shown = append(shown, id)
	}
	sort.Strings(shown)
	for _, id := range shown {
		result.WriteString(pterm.Sprintfln("%s shows %s", nameOf(th, id), h.Shown[id]))
	}
	for i, pot := range h.Pots {
		winners := make([]string, len(pot.WinnerIDs))
		for j, id := range pot.WinnerIDs {
			winners[j] = pterm.LightCyan(nameOf(th, id))
		}
		line := fmt.Sprintf("Pot %d (%d) to %s", i+1, pot.Amount, strings.Join(winners, ", "))
		if pot.HandName != "" {
			line += " with " + pot.HandName
		}
		result.WriteString(pterm.Sprintfln("%s", line))
	}

	title := fmt.Sprintf("|HAND %d|", h.Number)
	panels, err := pterm.DefaultPanel.WithPanels([][]pterm.Panel{{
		{Data: box.WithTitle(pterm.LightYellow(title)).WithTitleTopCenter().Sprint(strings.TrimRight(actions.String(), "\n"))},
		{Data: box.WithTitle(pterm.LightGreen("|RESULT|")).WithTitleTopCenter().Sprint(strings.TrimRight(result.String(), "\n"))},
	}}).Srender()
	if err != nil {
		return title
	}
	return panels
}

// renderStandings lists the final stacks, biggest first
func renderStandings(th *game.TableHistory) (string, error) {
	var stacks map[string]int
	for i := len(th.Hands) - 1; i >= 0 && stacks == nil; i-- {
		stacks = th.Hands[i].Stacks
	}

	ids := make([]string, 0, len(stacks))
	for id := range stacks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if stacks[ids[i]] != stacks[ids[j]] {
			return stacks[ids[i]] > stacks[ids[j]]
		}
		return ids[i] < ids[j]
	})

	data := pterm.TableData{{"Player", "Chips", ""}}
	for _, id := range ids {
		mark := ""
		if id == th.WinnerID {
			mark = pterm.LightGreen("winner")
		}
		data = append(data, []string{nameOf(th, id), strconv.Itoa(stacks[id]), mark})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Wrap(err, "rendering standings")
	}
	return pterm.Sprintfln("%d hands played", len(th.Hands)) + table, nil
}
