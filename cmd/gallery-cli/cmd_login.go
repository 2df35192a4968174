package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Long:  `Exchange admin credentials or a guest password for a bearer token and save it to the token file.`,
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "Admin username, or the guest display name")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	loginCmd.Flags().String("role", "admin", "Role to sign in as (admin or guest)")
	_ = loginCmd.MarkFlagRequired("password")
}

func runLogin(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	role, _ := cmd.Flags().GetString("role")

	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	session, err := client.Login(cmd.Context(), username, password, role)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("token-file")
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("create token directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(session.Token+"\n"), 0o600); err != nil {
			return fmt.Errorf("write token file: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s), token valid until %s\n",
		session.Name, session.Role, session.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}
