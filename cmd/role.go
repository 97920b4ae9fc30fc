package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Role and permission management",
}

var (
	grantRole        string
	grantPermissions []string

	assignEmail string
	assignRole  string
)

var roleGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant permissions to a role, creating both when missing",
	Long: `Grant permissions to a role. Users already holding the role keep their permission
snapshot until the role is assigned to them again.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApplication()
		if err != nil {
			log.Fatalf("failed to init: %v", err)
		}
		defer app.Close()

		role, err := app.Roles.GrantPermissionsToRole(cmd.Context(), grantRole, grantPermissions...)
		if err != nil {
			log.Fatalf("grant: %v", err)
		}
		fmt.Printf("Role %q now holds: %v\n", role.Name, role.Permissions)
	},
}

var roleAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a role to a user and re-sync the permission snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApplication()
		if err != nil {
			log.Fatalf("failed to init: %v", err)
		}
		defer app.Close()

		u, err := app.Users.GetByEmail(cmd.Context(), assignEmail)
		if err != nil {
			log.Fatalf("lookup %s: %v", assignEmail, err)
		}

		role, err := app.Roles.AssignRole(cmd.Context(), u.ID, assignRole)
		if err != nil {
			log.Fatalf("assign: %v", err)
		}
		fmt.Printf("User %s now has role %q with permissions %v\n", u.Email, role.Name, role.Permissions)
	},
}

func init() {
	roleGrantCmd.Flags().StringVar(&grantRole, "role", "", "role name")
	roleGrantCmd.Flags().StringSliceVar(&grantPermissions, "permission", nil, "permission name, repeatable")
	_ = roleGrantCmd.MarkFlagRequired("role")
	_ = roleGrantCmd.MarkFlagRequired("permission")

	roleAssignCmd.Flags().StringVar(&assignEmail, "email", "", "user email")
	roleAssignCmd.Flags().StringVar(&assignRole, "role", "", "role name")
	_ = roleAssignCmd.MarkFlagRequired("email")
	_ = roleAssignCmd.MarkFlagRequired("role")

	roleCmd.AddCommand(roleGrantCmd)
	roleCmd.AddCommand(roleAssignCmd)

	rootCmd.AddCommand(roleCmd)
}
