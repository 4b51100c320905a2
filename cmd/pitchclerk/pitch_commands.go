package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"pitchclerk/internal/pitch"
)

func newPitchCommand(ctx *commandContext) *cobra.Command {
	pitchCmd := &cobra.Command{
		Use:   "pitch",
		Short: "Browse pitch options and submit pitches",
	}

	pitchCmd.AddCommand(newPitchTypesCommand(ctx))
	pitchCmd.AddCommand(newPackagesCommand(ctx))
	pitchCmd.AddCommand(newTerritoriesCommand(ctx))
	pitchCmd.AddCommand(newSubmitCommand(ctx))

	return pitchCmd
}

func newPitchTypesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "types",
		Short:       "List pitch types",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			types := pitch.PitchTypes()
			return ctx.emit(cmd, types, func() error {
				rows := make([][]string, 0, len(types))
				for _, pt := range types {
					rows = append(rows, []string{pt.Slug, pt.Title, pt.Value})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Slug", "Title", "Sent As"}, rows, nil))
				return nil
			})
		},
	}
}

func newPackagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "packages",
		Short:       "List service packages",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgs := pitch.Packages()
			return ctx.emit(cmd, pkgs, func() error {
				rows := make([][]string, 0, len(pkgs))
				for _, p := range pkgs {
					name := p.Name
					if p.Recommended {
						name += " (recommended)"
					}
					price := p.Price + " " + strings.TrimSpace(p.Period)
					if p.OriginalPrice != "" {
						price += " (was " + p.OriginalPrice + ")"
					}
					rows = append(rows, []string{string(p.ID), name, price, strings.Join(p.Features, "\n")})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Package", "Price", "Includes"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newTerritoriesCommand(ctx *commandContext) *cobra.Command {
	var regionFlag string

	cmd := &cobra.Command{
		Use:         "territories",
		Short:       "List selectable territories by region",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			regions := pitch.Regions()
			if name := strings.TrimSpace(regionFlag); name != "" {
				region, ok := pitch.LookupRegion(name)
				if !ok {
					return fmt.Errorf("unknown region %q", name)
				}
				regions = []pitch.Region{region}
			}
			return ctx.emit(cmd, regions, func() error {
				rows := make([][]string, 0, len(regions))
				for _, r := range regions {
					rows = append(rows, []string{r.Name, fmt.Sprint(len(r.Countries)), strings.Join(r.Countries, ", ")})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Region", "Count", "Countries"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&regionFlag, "region", "", "Only list one region")
	return cmd
}

type submitResult struct {
	PitchType   string `json:"pitch_type"`
	PitchID     string `json:"pitch_id,omitempty"`
	PaymentLink string `json:"payment_link"`
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var draftPath string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "submit [type]",
		Short: "Submit a pitch from a draft file or the step-by-step wizard",
		Long: "Submit a pitch. The type is one of the slugs listed by `pitchclerk pitch types`;\n" +
			"unknown slugs are sent as a distribution pitch. With --draft the pitch is read from a\n" +
			"TOML file, otherwise a terminal on stdin starts the interactive wizard.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var draftFile *pitch.DraftFile
			if strings.TrimSpace(draftPath) != "" {
				loaded, err := pitch.LoadDraftFile(strings.TrimSpace(draftPath))
				if err != nil {
					return err
				}
				draftFile = loaded
			}

			slug := ""
			if len(args) > 0 {
				slug = args[0]
			} else if draftFile != nil {
				slug = draftFile.PitchType
			}

			if draftFile == nil && !interactive && !stdinIsTerminal() {
				return fmt.Errorf("stdin is not a terminal; pass --draft <file.toml> or --interactive")
			}

			return ctx.withClients(cmd, func(cl *clients) error {
				if _, err := cl.requireUser(cmd); err != nil {
					return err
				}

				var wizard *pitch.Wizard
				if draftFile != nil {
					wizard = pitch.NewWizardWithDraft(slug, draftFile.Draft, cl.pitch, cl.logger)
				} else {
					wizard = pitch.NewWizard(slug, cl.pitch, cl.logger)
				}

				var outcome pitch.Outcome
				var err error
				if draftFile != nil && !interactive {
					outcome, err = wizard.Submit(cmd.Context())
				} else {
					outcome, err = runWizard(cmd, wizard)
				}
				if err != nil {
					return err
				}

				submitted, ok := outcome.(pitch.Submitted)
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Pitch not submitted.")
					return nil
				}
				result := submitResult{
					PitchType:   wizard.PitchType(),
					PitchID:     submitted.PitchID,
					PaymentLink: submitted.PaymentLink,
				}
				return ctx.emit(cmd, result, func() error {
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "Pitch submitted (%s).\n", result.PitchType)
					fmt.Fprintf(out, "Complete payment at: %s\n", result.PaymentLink)
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&draftPath, "draft", "", "TOML draft file to submit")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Run the wizard even when stdin is not a terminal")
	return cmd
}

var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
