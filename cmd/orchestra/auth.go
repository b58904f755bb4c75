package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/orchestra/internal/service"
	"github.com/MKhiriev/orchestra/models"
)

func newLoginCmd(c *cli) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with e-mail and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := c.readSecret(cmd, "Password: ")
			if err != nil {
				return err
			}

			user, err := c.services.AuthService.Login(cmd.Context(), models.Credentials{Email: email, Password: password})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account e-mail")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newRegisterCmd(c *cli) *cobra.Command {
	var req models.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := c.readNewPassword(cmd)
			if err != nil {
				return err
			}
			req.Password = password

			user, err := c.services.AuthService.Register(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account created, signed in as %s\n", user.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account e-mail")
	cmd.Flags().StringVarP(&req.Name, "name", "n", "", "display name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.services.AuthService.RestoreSession(cmd.Context())
			if errors.Is(err, service.ErrNotSignedIn) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			if err != nil && !errors.Is(err, service.ErrSessionExpired) {
				return err
			}

			if err = c.services.AuthService.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := c.requireSession(cmd.Context())
			if err != nil {
				return err
			}

			user, err := c.services.AuthService.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printField(w, "ID", user.ID)
			printField(w, "E-mail", user.Email)
			printField(w, "Name", user.Name)
			printField(w, "Plan", user.Plan)
			printField(w, "Verified", fmt.Sprint(user.EmailVerified))
			if !session.ExpiresAt.IsZero() {
				printField(w, "Session expires", humanize.Time(session.ExpiresAt))
			}
			return nil
		},
	}
}

func newOAuthCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oauth",
		Short: "Sign in through an OAuth provider",
	}

	var redirectURI string
	urlCmd := &cobra.Command{
		Use:   "url <provider>",
		Short: "Print the provider authorization URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oauth, err := c.services.AuthService.StartOAuth(cmd.Context(), args[0], redirectURI)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), oauth.URL)
			fmt.Fprintf(cmd.ErrOrStderr(), "Open the URL, then run: orchestra oauth complete %s --code <code> --state %s\n", args[0], oauth.State)
			return nil
		},
	}
	urlCmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "redirect URI registered with the provider")

	var cb models.OAuthCallback
	completeCmd := &cobra.Command{
		Use:   "complete <provider>",
		Short: "Exchange the provider code for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cb.Provider = args[0]

			user, err := c.services.AuthService.CompleteOAuth(cmd.Context(), cb)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.Email)
			return nil
		},
	}
	completeCmd.Flags().StringVar(&cb.Code, "code", "", "authorization code")
	completeCmd.Flags().StringVar(&cb.State, "state", "", "state returned with the code")
	completeCmd.Flags().StringVar(&cb.RedirectURI, "redirect-uri", "", "redirect URI used for the authorization")
	_ = completeCmd.MarkFlagRequired("code")
	_ = completeCmd.MarkFlagRequired("state")

	cmd.AddCommand(urlCmd, completeCmd)
	return cmd
}

func newPasswordCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Recover a forgotten password",
	}

	var email string
	forgotCmd := &cobra.Command{
		Use:   "forgot",
		Short: "E-mail a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.services.AuthService.RequestPasswordReset(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "If the account exists, a reset link is on its way")
			return nil
		},
	}
	forgotCmd.Flags().StringVarP(&email, "email", "e", "", "account e-mail")
	_ = forgotCmd.MarkFlagRequired("email")

	var token string
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password with the token from the reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := c.readNewPassword(cmd)
			if err != nil {
				return err
			}
			if err = c.services.AuthService.ResetPassword(cmd.Context(), token, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed, sign in with the new one")
			return nil
		},
	}
	resetCmd.Flags().StringVar(&token, "token", "", "token from the reset link")
	_ = resetCmd.MarkFlagRequired("token")

	cmd.AddCommand(forgotCmd, resetCmd)
	return cmd
}
