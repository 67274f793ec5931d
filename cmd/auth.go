package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/studypack/internal/backend"
	"github.com/abhisek/studypack/internal/server"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store backend credentials for later commands",
	Long: `Store an access token (and optionally a refresh token and active
organization) in the local database. Every backend request carries them.

Against the reference backend, mint a token with 'studypack token'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		access, _ := cmd.Flags().GetString("token")
		refresh, _ := cmd.Flags().GetString("refresh-token")
		org, _ := cmd.Flags().GetString("org")
		if strings.TrimSpace(access) == "" {
			return errors.New("--token is required")
		}

		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		session := backend.NewSession(env.store.KV())
		if err := session.SetTokens(ctx, strings.TrimSpace(access), strings.TrimSpace(refresh)); err != nil {
			return err
		}
		if org != "" {
			if err := session.SetOrg(ctx, org); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in to %s.\n", env.cfg.Backend.URL)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget stored backend credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := backend.NewSession(env.store.KV()).Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the reference backend",
	Long: `Sign an HS256 token with server.jwt_secret. Roles TEACHER and ORGANIZER
may review drafts; STUDENT may only study published packs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		role, _ := cmd.Flags().GetString("role")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		login, _ := cmd.Flags().GetBool("login")

		switch strings.ToUpper(role) {
		case server.RoleTeacher, server.RoleOrganizer, server.RoleStudent:
		default:
			return fmt.Errorf("invalid role %q: must be TEACHER, ORGANIZER or STUDENT", role)
		}

		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		if ttl <= 0 {
			ttl = env.cfg.Server.TokenTTL
		}
		token, err := server.IssueToken(env.cfg.Server.JWTSecret, subject, role, ttl)
		if err != nil {
			return err
		}

		if login {
			if err := backend.NewSession(env.store.KV()).SetTokens(cmd.Context(), token, ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s).\n", subject, strings.ToUpper(role))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("token", "", "Access token")
	loginCmd.Flags().String("refresh-token", "", "Refresh token")
	loginCmd.Flags().String("org", "", "Active organization ID")

	tokenCmd.Flags().String("subject", "instructor", "Token subject (user ID)")
	tokenCmd.Flags().String("role", server.RoleTeacher, "Role: TEACHER, ORGANIZER or STUDENT")
	tokenCmd.Flags().Duration("ttl", 0, "Token lifetime (default server.token_ttl)")
	tokenCmd.Flags().Bool("login", false, "Store the token as the current session instead of printing it")
}
