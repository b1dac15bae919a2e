package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/foodyham/internal/domain/user"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the storefront",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = c.prompt("Password: "); err != nil {
					return err
				}
			}
			identity, err := c.app.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			c.success("Signed in as %s (%s)", identity.Name, identity.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = c.prompt("Password: "); err != nil {
					return err
				}
			}
			identity, err := c.app.Session.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			c.success("Welcome, %s! You are signed in as %s", identity.Name, identity.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Full name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password, at least 6 characters (prompted when omitted)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.app.Session.Logout(cmd.Context())
			c.success("Signed out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, ok := c.app.Session.Identity()
			if !ok {
				c.printf("Not signed in\n")
				return nil
			}
			printIdentity(c, identity)
			return nil
		},
	}
}

func (c *cli) profileCmd() *cobra.Command {
	var patch user.ProfilePatch

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update name, email, phone or address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if patch == (user.ProfilePatch{}) {
				return fmt.Errorf("nothing to update: pass at least one of --name, --email, --phone, --address")
			}
			identity, err := c.app.Session.UpdateProfile(cmd.Context(), patch)
			if err != nil {
				return err
			}
			c.success("Profile updated")
			printIdentity(c, identity)
			return nil
		},
	}

	cmd.Flags().StringVar(&patch.Name, "name", "", "New name")
	cmd.Flags().StringVar(&patch.Email, "email", "", "New email")
	cmd.Flags().StringVar(&patch.Phone, "phone", "", "New phone number")
	cmd.Flags().StringVar(&patch.Address, "address", "", "New delivery address")
	return cmd
}

func (c *cli) passwordCmd() *cobra.Command {
	var current, next, confirm string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the account password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, field := range []struct {
				value  *string
				prompt string
			}{
				{&current, "Current password: "},
				{&next, "New password: "},
				{&confirm, "Confirm new password: "},
			} {
				if *field.value != "" {
					continue
				}
				v, err := c.prompt(field.prompt)
				if err != nil {
					return err
				}
				*field.value = v
			}
			if err := c.app.Session.ChangePasswordConfirm(cmd.Context(), current, next, confirm); err != nil {
				return err
			}
			c.success("Password updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "Current password")
	cmd.Flags().StringVar(&next, "new", "", "New password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "New password again")
	return cmd
}

func printIdentity(c *cli, identity user.Identity) {
	c.printf("Name:    %s\n", identity.Name)
	c.printf("Email:   %s\n", identity.Email)
	c.printf("Role:    %s\n", identity.Role)
	if identity.Phone != "" {
		c.printf("Phone:   %s\n", identity.Phone)
	}
	if identity.Address != "" {
		c.printf("Address: %s\n", identity.Address)
	}
}

// prompt reads one line from the input
func (c *cli) prompt(label string) (string, error) {
	c.printf("%s", label)
	if c.reader == nil {
		c.reader = bufio.NewReader(c.in)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
