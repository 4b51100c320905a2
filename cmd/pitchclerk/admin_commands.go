package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pitchclerk/internal/admin"
	adminsvc "pitchclerk/internal/services/admin"
)

func newAdminCommand(ctx *commandContext) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Review users and pitches (administrators only)",
	}

	adminCmd.AddCommand(newAdminStatsCommand(ctx))
	adminCmd.AddCommand(newAdminUsersCommand(ctx))
	adminCmd.AddCommand(newAdminPitchesCommand(ctx))

	return adminCmd
}

func newAdminStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClients(cmd, func(cl *clients) error {
				if _, err := cl.requireAdmin(cmd); err != nil {
					return err
				}
				users := admin.NewUserList(cl.admin, cl.logger)
				if err := users.Load(cmd.Context()); err != nil {
					return err
				}
				pitches := admin.NewPitchList(cl.admin, cl.logger)
				if err := pitches.Load(cmd.Context()); err != nil {
					return err
				}

				stats := admin.ComputeStats(users.Items(), pitches.Items())
				return ctx.emit(cmd, stats, func() error {
					fmt.Fprintln(cmd.OutOrStdout(), renderTable(
						[]string{"Metric", "Count"},
						[][]string{
							{"Total users", fmt.Sprint(stats.TotalUsers)},
							{"Administrators", fmt.Sprint(stats.AdminUsers)},
							{"Pending approvals", fmt.Sprint(stats.PendingApprovals)},
							{"Total pitches", fmt.Sprint(stats.TotalPitches)},
							{"Pending pitches", fmt.Sprint(stats.PendingPitches)},
						},
						[]columnAlignment{alignLeft, alignRight},
					))
					return nil
				})
			})
		},
	}
}

func newAdminUsersCommand(ctx *commandContext) *cobra.Command {
	var search string

	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "List user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClients(cmd, func(cl *clients) error {
				if _, err := cl.requireAdmin(cmd); err != nil {
					return err
				}
				list := admin.NewUserList(cl.admin, cl.logger)
				if err := list.Load(cmd.Context()); err != nil {
					return err
				}
				accounts := list.Filter(search)
				return ctx.emit(cmd, accounts, func() error {
					out := cmd.OutOrStdout()
					if len(accounts) == 0 {
						fmt.Fprintln(out, "No users found.")
						return nil
					}
					rows := make([][]string, 0, len(accounts))
					for _, a := range accounts {
						rows = append(rows, []string{
							a.ID,
							valueOrDash(a.FullName()),
							a.Email,
							valueOrDash(a.Role),
							admin.ApprovalLabel(a),
							yesNo(admin.NeedsApproval(a)),
							relativeTime(a.CreatedAt),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"ID", "Name", "Email", "Role", "Status", "Needs Approval", "Joined"},
						rows, nil,
					))
					fmt.Fprintf(out, "%d of %d users\n", len(accounts), list.Total())
					return nil
				})
			})
		},
	}

	usersCmd.Flags().StringVarP(&search, "search", "s", "", "Filter by email, name or role")
	usersCmd.AddCommand(newAdminApproveCommand(ctx))
	return usersCmd
}

func newAdminApproveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withClients(cmd, func(cl *clients) error {
				if _, err := cl.requireAdmin(cmd); err != nil {
					return err
				}
				list := admin.NewUserList(cl.admin, cl.logger)
				if err := list.Load(cmd.Context()); err != nil {
					return err
				}
				if err := list.Approve(cmd.Context(), id); err != nil {
					return err
				}
				account, _ := list.Find(id)
				return ctx.emit(cmd, account, func() error {
					fmt.Fprintf(cmd.OutOrStdout(), "Approved %s.\n", valueOrDash(account.Email))
					return nil
				})
			})
		},
	}
}

func newAdminPitchesCommand(ctx *commandContext) *cobra.Command {
	var search string

	pitchesCmd := &cobra.Command{
		Use:   "pitches",
		Short: "List submitted pitches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClients(cmd, func(cl *clients) error {
				if _, err := cl.requireAdmin(cmd); err != nil {
					return err
				}
				list := admin.NewPitchList(cl.admin, cl.logger)
				if err := list.Load(cmd.Context()); err != nil {
					return err
				}
				pitches := list.Filter(search)
				return ctx.emit(cmd, pitches, func() error {
					out := cmd.OutOrStdout()
					if len(pitches) == 0 {
						fmt.Fprintln(out, "No pitches found.")
						return nil
					}
					rows := make([][]string, 0, len(pitches))
					for _, p := range pitches {
						rows = append(rows, []string{
							p.ID,
							valueOrDash(p.ReleaseInfo.Title),
							valueOrDash(p.ReleaseInfo.PrimaryArtist),
							valueOrDash(p.User.Email),
							valueOrDash(p.PackagePlan),
							admin.StatusLabel(p.Status),
							relativeTime(p.CreatedAt),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"ID", "Title", "Artist", "Submitted By", "Package", "Status", "Submitted"},
						rows, nil,
					))
					return nil
				})
			})
		},
	}

	pitchesCmd.Flags().StringVarP(&search, "search", "s", "", "Filter by title, artist, submitter, type or status")
	pitchesCmd.AddCommand(newAdminPitchShowCommand(ctx))
	pitchesCmd.AddCommand(newAdminPitchStatusCommand(ctx))
	return pitchesCmd
}

func newAdminPitchShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one pitch in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withClients(cmd, func(cl *clients) error {
				if _, err := cl.requireAdmin(cmd); err != nil {
					return err
				}
				list := admin.NewPitchList(cl.admin, cl.logger)
				if err := list.Load(cmd.Context()); err != nil {
					return err
				}
				p, ok := list.Find(id)
				if !ok {
					return fmt.Errorf("pitch %s: %w", id, admin.ErrNotFound)
				}
				return ctx.emit(cmd, p, func() error {
					fmt.Fprintln(cmd.OutOrStdout(), renderPitch(p))
					return nil
				})
			})
		},
	}
}

func newAdminPitchStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <approved|declined>",
		Short: "Approve or decline a pitch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			status, err := adminsvc.ParsePitchStatus(args[1])
			if err != nil {
				return err
			}
			return ctx.withClients(cmd, func(cl *clients) error {
				if _, err := cl.requireAdmin(cmd); err != nil {
					return err
				}
				list := admin.NewPitchList(cl.admin, cl.logger)
				if err := list.Load(cmd.Context()); err != nil {
					return err
				}
				if err := list.UpdateStatus(cmd.Context(), id, status); err != nil {
					return err
				}
				p, _ := list.Find(id)
				return ctx.emit(cmd, p, func() error {
					fmt.Fprintf(cmd.OutOrStdout(), "Pitch %s is now %s.\n", id, admin.StatusLabel(p.Status))
					return nil
				})
			})
		},
	}
}

func renderPitch(p adminsvc.Pitch) string {
	owner := strings.TrimSpace(p.User.FirstName + " " + p.User.LastName)
	if p.User.Email != "" {
		owner = strings.TrimSpace(owner + " <" + p.User.Email + ">")
	}
	return renderDetails("Pitch "+p.ID, [][2]string{
		{"Status", admin.StatusLabel(p.Status)},
		{"Pitch type", p.PitchType},
		{"Package", p.PackagePlan},
		{"Submitted by", owner},
		{"Submitted", relativeTime(p.CreatedAt)},
		{"Title", p.ReleaseInfo.Title},
		{"Version", p.ReleaseInfo.Version},
		{"Primary artist", p.ReleaseInfo.PrimaryArtist},
		{"Featuring", p.ReleaseInfo.FeaturingArtist},
		{"Genre", strings.TrimSpace(p.ReleaseInfo.Genre + " " + p.ReleaseInfo.SubGenre)},
		{"Record label", p.ReleaseInfo.RecordName},
		{"UPC/EAN", p.ReleaseInfo.UpsEan},
		{"Territory", p.Territory},
		{"Pitch location", p.Links.PitchLocation},
		{"Apple Music", p.Links.AppleMusic},
		{"Music link", p.Links.MusicLink},
		{"Release date", p.Links.ReleaseDate},
		{"Promotion start", p.Links.PromotionStartDate},
		{"Language", p.Links.Language},
		{"Country", p.Links.Country},
		{"Music file", p.Uploads.MusicFile},
		{"Cover photo", p.Uploads.CoverPhoto},
		{"Payment link", p.PaymentLink},
	})
}

// relativeTime renders an RFC 3339 timestamp as "3 days ago", or the raw
// value when it does not parse.
func relativeTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "-"
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return humanize.Time(ts)
}
