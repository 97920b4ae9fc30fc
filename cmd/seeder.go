package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/user"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the default roles and the default administrator",
	Long: `Create the default role, the admin role with the manage permission and the default
administrator from config. Running it again only re-syncs the administrator's role.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApplication()
		if err != nil {
			log.Fatalf("failed to init: %v", err)
		}
		defer app.Close()

		if err := seedDefaults(cmd.Context(), app); err != nil {
			log.Fatalf("seed: %v", err)
		}
	},
}

func seedDefaults(ctx context.Context, app *application) error {
	cfg := app.Config.User

	if _, err := app.Roles.FindOrCreateRole(ctx, cfg.DefaultRole); err != nil {
		return fmt.Errorf("default role: %w", err)
	}

	if _, err := app.Roles.GrantPermissionsToRole(ctx, cfg.AdminRole, cfg.ManagePermission); err != nil {
		return fmt.Errorf("admin role: %w", err)
	}
	fmt.Printf("Role %q holds permission %q\n", cfg.AdminRole, cfg.ManagePermission)

	admin := cfg.DefaultAdmin
	existing, err := app.Users.GetByEmail(ctx, admin.Email)
	switch {
	case err == nil:
		if _, err := app.Roles.AssignRole(ctx, existing.ID, cfg.AdminRole); err != nil {
			return fmt.Errorf("re-sync admin role: %w", err)
		}
		fmt.Println("admin user already exists; role re-synced:", admin.Email)
		return nil
	case !errors.Is(err, internal.ErrUserNotFound):
		return err
	}

	if admin.Password == "" {
		return errors.New("user.default_admin.password is required to create the administrator")
	}

	created, err := app.Users.Create(ctx, user.RegisterRequest{
		Name:                 admin.Name,
		Email:                admin.Email,
		Password:             admin.Password,
		PasswordConfirmation: admin.Password,
		Role:                 cfg.AdminRole,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Println("Seeded admin user:", created.Email)
	return nil
}
