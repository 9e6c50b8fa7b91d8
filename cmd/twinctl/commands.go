package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	types "github.com/yungbote/lunatwin-backend/internal/domain"
	"github.com/yungbote/lunatwin-backend/internal/modules/chat"
	"github.com/yungbote/lunatwin-backend/internal/modules/twin"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "twinctl",
		Short:         "Explore the PCOS twin model offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newClassifyCommand(), newProjectCommand(), newAskCommand(), newPersonasCommand())
	return root
}

func bindLifestyleFlags(cmd *cobra.Command, l *types.Lifestyle) {
	d := types.DefaultLifestyle()
	f := cmd.Flags()
	f.Float64Var(&l.SleepHours, "sleep", d.SleepHours, "sleep hours per night (4-10)")
	f.Float64Var(&l.StressLevel, "stress", d.StressLevel, "stress level (0-100)")
	f.Float64Var(&l.ActivityLevel, "activity", d.ActivityLevel, "activity level (0-100)")
	f.Float64Var(&l.DietPattern, "diet", d.DietPattern, "diet quality (0-100)")
	f.Float64Var(&l.WaterIntake, "water", d.WaterIntake, "glasses of water per day (0-12)")
	f.Float64Var(&l.ScreenTime, "screen", d.ScreenTime, "screen hours per day (0-16)")
}

func newClassifyCommand() *cobra.Command {
	var l types.Lifestyle
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Compute indicators and the persona for a lifestyle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lifestyle := l.Clamp()
			ind, persona := twin.Evaluate(lifestyle)
			out := cmd.OutOrStdout()
			printPersona(out, persona)
			printIndicators(out, ind)
			fmt.Fprintf(out, "%s %.0f\n", bold("Overall:"), twin.DisplayScore(ind))
			fmt.Fprintf(out, "\n%s\n", gray(twin.Narrative(persona, lifestyle)))
			return nil
		},
	}
	bindLifestyleFlags(cmd, &l)
	return cmd
}

func newProjectCommand() *cobra.Command {
	var (
		l    types.Lifestyle
		days int
	)
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project indicators over 7, 14 or 30 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !twin.ValidHorizon(days) {
				return fmt.Errorf("invalid --days %d: use 7, 14 or 30", days)
			}
			lifestyle := l.Clamp()
			current, _ := twin.Evaluate(lifestyle)
			projected, persona := twin.Project(lifestyle, days)
			outlook := twin.Compare(current, projected, persona, days)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d days (x%.1f)\n", bold("Horizon:"), days, twin.HorizonMultiplier(days))
			printPersona(out, persona)
			printComparison(out, current, projected)
			if len(outlook.Improvements) > 0 {
				fmt.Fprintf(out, "%s %s\n", bold("Improvements:"), green(strings.Join(outlook.Improvements, ", ")))
			}
			fmt.Fprintf(out, "\n%s\n", gray(outlook.Narrative))
			return nil
		},
	}
	bindLifestyleFlags(cmd, &l)
	cmd.Flags().IntVar(&days, "days", 30, "projection horizon in days (7, 14, 30)")
	return cmd
}

func newAskCommand() *cobra.Command {
	var (
		l      types.Lifestyle
		noTwin bool
	)
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the companion a question about a twin built from the flags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			var t *types.Twin
			personaName := ""
			if !noTwin {
				lifestyle := l.Clamp()
				ind, persona := twin.Evaluate(lifestyle)
				t = &types.Twin{ID: uuid.New(), Lifestyle: lifestyle, Indicators: ind, Persona: persona}
				personaName = twin.DisplayName(persona)
			}
			reply := chat.Respond(question, t, personaName)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", gray("["+string(reply.Topic)+"]"), reply.Text)
			return nil
		},
	}
	bindLifestyleFlags(cmd, &l)
	cmd.Flags().BoolVar(&noTwin, "no-twin", false, "answer as if no twin exists yet")
	return cmd
}

func newPersonasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List the persona catalog in classifier order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, info := range twin.Catalog() {
				fmt.Fprintf(out, "%-20s %s  %s\n", toneColor(info.Tone)(string(info.ID)), bold(info.Name), gray(info.Description))
			}
			return nil
		},
	}
}

func printPersona(out io.Writer, p types.Persona) {
	info, _ := twin.Info(p)
	fmt.Fprintf(out, "%s %s %s\n", bold("Persona:"), toneColor(info.Tone)(info.Name), gray("("+string(p)+")"))
}

func printIndicators(out io.Writer, ind types.Indicators) {
	for _, e := range twin.Panel(ind) {
		fmt.Fprintf(out, "  %-22s %s\n", e.Label, toneColor(e.Status)(fmt.Sprintf("%3d", e.Value)))
	}
}

func printComparison(out io.Writer, current, projected types.Indicators) {
	now := twin.Panel(current)
	later := twin.Panel(projected)
	for i := range now {
		fmt.Fprintf(out, "  %-22s %3d -> %s\n", now[i].Label, now[i].Value, toneColor(later[i].Status)(fmt.Sprintf("%3d", later[i].Value)))
	}
}

func toneColor(t twin.Tone) func(a ...interface{}) string {
	switch t {
	case twin.ToneBalanced:
		return green
	case twin.ToneMild:
		return yellow
	case twin.ToneStress:
		return red
	default:
		return cyan
	}
}
