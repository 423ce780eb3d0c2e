package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miosa/joi-tui/session"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the remembered display name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s session.Store) error {
			if err := s.Clear(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the remembered display name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s session.Store) error {
			name, ok, err := s.Load()
			if err != nil {
				return fmt.Errorf("load session: %w", err)
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		})
	},
}

func withStore(cmd *cobra.Command, fn func(session.Store) error) error {
	dir, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	store, err := session.Open(cfg.SessionBackend, dir)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()
	return fn(store)
}
