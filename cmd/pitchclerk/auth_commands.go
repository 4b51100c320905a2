package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pitchclerk/internal/session"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign up, sign in and recover accounts",
	}

	authCmd.AddCommand(newSignUpCommand(ctx))
	authCmd.AddCommand(newLoginCommand(ctx))
	authCmd.AddCommand(newLogoutCommand(ctx))
	authCmd.AddCommand(newWhoAmICommand(ctx))
	authCmd.AddCommand(newForgotPasswordCommand(ctx))
	authCmd.AddCommand(newVerifyOTPCommand(ctx))
	authCmd.AddCommand(newResetPasswordCommand(ctx))

	return authCmd
}

func newSignUpCommand(ctx *commandContext) *cobra.Command {
	var firstName, lastName, email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return errors.New("--email is required")
			}
			return ctx.withClients(cmd, func(cl *clients) error {
				user, err := cl.auth.Register(cmd.Context(), firstName, lastName, email)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, map[string]any{"registered": true, "user": user}, func() error {
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "Account created for %s.\n", strings.TrimSpace(email))
					if !cl.session.Authenticated(cmd.Context()) {
						fmt.Fprintln(out, "Check your email for your password, then run `pitchclerk auth login`.")
					}
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	return cmd
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session on this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = line
			}
			return ctx.withClients(cmd, func(cl *clients) error {
				user, err := cl.auth.Login(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				if user == nil {
					return errors.New("sign in failed: check your email and password")
				}
				return ctx.emit(cmd, user, func() error {
					fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s).\n", user.DisplayName(), user.Email)
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (read from stdin when omitted)")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClients(cmd, func(cl *clients) error {
				if err := cl.auth.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
				return nil
			})
		},
	}
}

func newWhoAmICommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClients(cmd, func(cl *clients) error {
				var user *session.User
				if refresh {
					restored, err := cl.requireUser(cmd)
					if err != nil {
						return err
					}
					user = restored
				} else {
					user = cl.auth.CurrentUser(cmd.Context())
					if user == nil {
						return errSignedOut
					}
				}
				return ctx.emit(cmd, user, func() error {
					fmt.Fprintln(cmd.OutOrStdout(), renderDetails("Account", [][2]string{
						{"Name", user.DisplayName()},
						{"Email", user.Email},
						{"Role", user.Role},
						{"Status", user.Status},
						{"Approved", yesNo(user.IsApproved)},
						{"ID", user.ID},
					}))
					return nil
				})
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Validate the session and refresh the profile from the server")
	return cmd
}

func newForgotPasswordCommand(ctx *commandContext) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset code",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return errors.New("--email is required")
			}
			return ctx.withClients(cmd, func(cl *clients) error {
				ack, err := cl.auth.ForgotPassword(cmd.Context(), strings.TrimSpace(email))
				if err != nil {
					return err
				}
				return ctx.emit(cmd, ack, func() error {
					fmt.Fprintf(cmd.OutOrStdout(), "A reset code was sent to %s.\n", strings.TrimSpace(email))
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	return cmd
}

func newVerifyOTPCommand(ctx *commandContext) *cobra.Command {
	var email, otp string

	cmd := &cobra.Command{
		Use:   "verify-otp",
		Short: "Check a password reset code",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" || strings.TrimSpace(otp) == "" {
				return errors.New("--email and --otp are required")
			}
			return ctx.withClients(cmd, func(cl *clients) error {
				ack, err := cl.auth.VerifyOTP(cmd.Context(), strings.TrimSpace(email), strings.TrimSpace(otp))
				if err != nil {
					return err
				}
				return ctx.emit(cmd, ack, func() error {
					fmt.Fprintln(cmd.OutOrStdout(), "Code verified. Set a new password with `pitchclerk auth reset-password`.")
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	cmd.Flags().StringVar(&otp, "otp", "", "Code from the reset email")
	return cmd
}

func newResetPasswordCommand(ctx *commandContext) *cobra.Command {
	var email, code, newPassword string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password using a verified code",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" {
				return errors.New("--email and --code are required")
			}
			if newPassword == "" {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read new password: %w", err)
				}
				newPassword = line
			}
			return ctx.withClients(cmd, func(cl *clients) error {
				ack, err := cl.auth.ResetPassword(cmd.Context(), strings.TrimSpace(email), strings.TrimSpace(code), newPassword)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, ack, func() error {
					fmt.Fprintln(cmd.OutOrStdout(), "Password updated. Sign in with `pitchclerk auth login`.")
					return nil
				})
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	cmd.Flags().StringVar(&code, "code", "", "Verified reset code")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "New password (read from stdin when omitted)")
	return cmd
}

// readLine reads one line from r without the trailing newline.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
